package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StateMessage is pushed to spectators whenever a game changes.
type StateMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type wsConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *wsConn) safeWriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub tracks the spectator connections of every game.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*wsConn]struct{}
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{conns: map[string]map[*wsConn]struct{}{}}
}

func (h *Hub) add(slug string, c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[slug] == nil {
		h.conns[slug] = map[*wsConn]struct{}{}
	}
	h.conns[slug][c] = struct{}{}
}

func (h *Hub) remove(slug string, c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[slug], c)
	if len(h.conns[slug]) == 0 {
		delete(h.conns, slug)
	}
}

// Watchers returns the number of open connections for slug.
func (h *Hub) Watchers(slug string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[slug])
}

// Broadcast sends msg to every spectator of slug. Connections that fail to
// write are closed; their read loop then unregisters them.
func (h *Hub) Broadcast(slug string, msg StateMessage) {
	h.mu.RLock()
	conns := make([]*wsConn, 0, len(h.conns[slug]))
	for c := range h.conns[slug] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.safeWriteJSON(msg); err != nil {
			log.Debugw("dropping spectator", "slug", slug, zap.Error(err))
			c.Close()
		}
	}
}

var hub = NewHub()

// @Summary Watch a game
// @Description Upgrades to a websocket that receives the game state after every move
// @Tags game
// @Param slug path string true "Game slug identifier"
// @Success 101 {string} string "Switching Protocols"
// @Failure 404 {object} ErrorResponse
// @Router /game/{slug}/ws [get]
func watchGameHandler(w http.ResponseWriter, r *http.Request) {
	db, err := getDB()
	if err != nil {
		renderError(w, http.StatusInternalServerError, "bad connection to db", err)
		return
	}

	slug := ugcPolicy.Sanitize(chi.URLParamFromCtx(r.Context(), "slug"))
	_, game, err := getGame(db, slug)
	if err != nil {
		renderGameError(w, slug, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorw("websocket upgrade failed", "slug", slug, zap.Error(err))
		return
	}
	c := &wsConn{Conn: conn}

	// Register before the first write so no later move can be missed.
	hub.add(slug, c)
	if err := c.safeWriteJSON(StateMessage{Type: "state", Data: game}); err != nil {
		log.Errorw("could not send initial state", "slug", slug, zap.Error(err))
		hub.remove(slug, c)
		conn.Close()
		return
	}
	log.Infow("spectator joined", "slug", slug, "watchers", hub.Watchers(slug))

	done := make(chan struct{})
	go func() {
		t := time.NewTicker(pingPeriod)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := c.ping(); err != nil {
					return
				}
			}
		}
	}()

	// Spectators only listen; reading keeps pongs and close frames flowing.
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(done)
	hub.remove(slug, c)
	conn.Close()
	log.Infow("spectator left", "slug", slug)
}
