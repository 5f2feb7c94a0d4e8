package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/icco/gomoku"
	"github.com/icco/gomoku/cmd/server/docs"
	"github.com/icco/gutil/logging"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/unrolled/render"
	"github.com/unrolled/secure"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

var (
	// Renderer is a renderer for all occasions. These are our preferred default options.
	// See:
	//  - https://github.com/unrolled/render/blob/v1/README.md
	//  - https://godoc.org/gopkg.in/unrolled/render.v1
	Renderer = render.New(render.Options{
		Charset:                   "UTF-8",
		Directory:                 "views",
		DisableHTTPErrorRendering: false,
		Extensions:                []string{".tmpl", ".html"},
		IndentJSON:                false,
		IndentXML:                 true,
		Layout:                    "layout",
		RequirePartials:           true,
		Funcs:                     []template.FuncMap{},
	})

	log       = logging.Must(logging.NewLogger(gomoku.Service))
	ugcPolicy = bluemonday.StrictPolicy()
	validate  = validator.New()
	analytics *Analytics
)

// @title Gomoku API
// @version 1.0
// @description A gomoku game server with a minimax AI opponent
// @contact.name API Support
// @contact.url http://github.com/icco/gomoku
// @license.name MIT
// @license.url https://github.com/icco/gomoku/blob/main/LICENSE
// @BasePath /

func main() {
	port := "8080"
	if fromEnv := os.Getenv("PORT"); fromEnv != "" {
		port = fromEnv
	}
	log.Infow("Starting up", "port", port)

	if _, err := getDB(); err != nil {
		log.Panicw("could not get db", zap.Error(err))
		return
	}

	provider, err := setupMetrics()
	if err != nil {
		log.Panicw("could not set up metrics", zap.Error(err))
		return
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.Errorw("could not shut down meter provider", zap.Error(err))
		}
	}()

	analytics = NewAnalytics(os.Getenv("KAFKA_BROKERS"), os.Getenv("KAFKA_TOPIC"))
	defer func() {
		if err := analytics.Close(); err != nil {
			log.Errorw("could not flush analytics", zap.Error(err))
		}
	}()

	server := &http.Server{
		Addr:           ":" + port,
		Handler:        newRouter(os.Getenv("NAT_ENV") != "production"),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
	if err := server.ListenAndServe(); err != nil {
		log.Errorw("server stopped", zap.Error(err))
	}
}

func newRouter(isDev bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.New(cors.Options{
		AllowCredentials:   true,
		OptionsPassthrough: true,
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:     []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:     []string{"Link", "Location"},
		MaxAge:             300, // Maximum value not ignored by any of major browsers
	}).Handler)

	r.NotFound(notFoundHandler)

	// Probes and the spectator socket skip ssl redirects and response wrapping.
	r.Get("/healthz", healthCheckHandler)
	r.Mount("/metrics", promhttp.Handler())
	r.Get("/game/{slug}/ws", watchGameHandler)

	r.Group(func(r chi.Router) {
		r.Use(logging.Middleware(log.Desugar(), gomoku.GCPProject))
		r.Use(otelhttp.NewMiddleware(gomoku.Service))
		r.Use(secure.New(secure.Options{
			BrowserXssFilter:     true,
			ContentTypeNosniff:   true,
			FrameDeny:            true,
			HostsProxyHeaders:    []string{"X-Forwarded-Host"},
			IsDevelopment:        isDev,
			SSLProxyHeaders:      map[string]string{"X-Forwarded-Proto": "https"},
			SSLRedirect:          !isDev,
			STSIncludeSubdomains: true,
			STSPreload:           true,
			STSSeconds:           315360000,
		}).Handler)

		r.Get("/", rootHandler)
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))

		r.Post("/game/new", newGameHandler)
		r.Get("/game/{slug}", getGameHandler)
		r.Get("/game/{slug}/{turn}", getTurnHandler)
		r.Post("/game/{slug}/move", newMoveHandler)
		r.Post("/game/{slug}/ai-move", PostAIMoveHandler)
	})

	return r
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Healthy  string `json:"healthy"`
	Revision string `json:"revision"`
	Tag      string `json:"tag"`
	Branch   string `json:"branch"`
}

func renderJSON(w http.ResponseWriter, status int, v any) {
	if err := Renderer.JSON(w, status, v); err != nil {
		log.Errorw("failed to render JSON", zap.Error(err))
	}
}

func renderError(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		log.Errorw(msg, "status", status, zap.Error(err))
	}
	renderJSON(w, status, ErrorResponse{Error: msg})
}

// renderGameError maps lookup and rules errors to status codes.
func renderGameError(w http.ResponseWriter, slug string, err error) {
	switch {
	case isNotFound(err):
		renderJSON(w, http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("game %q not found", slug)})
	case errors.Is(err, gomoku.ErrGameOver), errors.Is(err, gomoku.ErrNotYourTurn):
		renderJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, gomoku.ErrOccupied), errors.Is(err, gomoku.ErrOutOfBounds):
		renderJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		renderError(w, http.StatusInternalServerError, "could not load game", err)
	}
}

// validationMessage flattens validator errors into one line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "min", "gte":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max", "lte":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// decodeRequest reads a JSON body into v and validates it. An empty body
// leaves v at its zero value.
func decodeRequest(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if err := validate.Struct(v); err != nil {
		return errors.New(validationMessage(err))
	}
	return nil
}

// @Summary Get API information
// @Description Returns basic API information and available endpoints
// @Tags info
// @Produce html
// @Success 200 {string} string "HTML page with API information"
// @Router / [get]
func rootHandler(w http.ResponseWriter, r *http.Request) {
	spec, err := docs.GetSwaggerSpec()
	if err != nil {
		log.Errorw("failed to parse swagger.json", zap.Error(err))
		writeStaticHomePage(w)
		return
	}

	var sb strings.Builder
	sb.WriteString(`
<html>
  <head>
    <title>Gomoku API</title>
    <style>
      body { font-family: Arial, sans-serif; max-width: 800px; margin: 40px auto; padding: 20px; }
      h1 { color: #333; }
      .endpoint { margin: 20px 0; padding: 15px; border-left: 4px solid #007acc; background: #f8f9fa; }
      .method { font-weight: bold; color: #007acc; text-transform: uppercase; }
      .path { font-family: monospace; color: #333; margin: 5px 0; }
      .description { color: #666; margin: 5px 0; }
    </style>
  </head>
  <body>
    <h1>Gomoku API</h1>
    <p>Play five in a row against a minimax opponent.</p>
    <p><a href="/swagger/">View Swagger Documentation</a></p>
    <h2>Available Endpoints</h2>`)

	for _, path := range spec.SortedPaths() {
		for method, info := range spec.Paths[path] {
			fmt.Fprintf(&sb, `
    <div class="endpoint">
      <div class="method">%s</div>
      <div class="path">%s</div>
      <div class="description">%s</div>
    </div>`, template.HTMLEscapeString(method), template.HTMLEscapeString(path), template.HTMLEscapeString(info.Description))
		}
	}

	sb.WriteString(`
  </body>
</html>`)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(sb.String())); err != nil {
		log.Errorw("failed to write response", zap.Error(err))
	}
}

func writeStaticHomePage(w http.ResponseWriter) {
	html := `
<html>
  <head><title>Gomoku API</title></head>
  <body>
    <h1>Gomoku API</h1>
    <p><a href="/swagger/">View Swagger Documentation</a></p>
    <ul>
      <li>POST /game/new - Create a new game</li>
      <li>GET /game/{slug} - Get game state</li>
      <li>GET /game/{slug}/{turn} - Get specific turn</li>
      <li>POST /game/{slug}/move - Place a stone</li>
      <li>POST /game/{slug}/ai-move - Let the AI place a stone</li>
      <li>GET /game/{slug}/ws - Watch a game</li>
      <li>GET /healthz - Health check</li>
    </ul>
  </body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(html)); err != nil {
		log.Errorw("failed to write response", zap.Error(err))
	}
}

// CreateGameRequest represents the request body for creating a new game
type CreateGameRequest struct {
	Size    int    `json:"size" validate:"omitempty,min=5,max=26" example:"19"`
	AIColor string `json:"ai_color" validate:"omitempty,oneof=black white none" example:"white"`
}

// @Summary Create a new game
// @Description Creates a new gomoku game. ai_color marks the color the AI plays.
// @Tags game
// @Accept json
// @Produce json
// @Param game body CreateGameRequest false "Game configuration"
// @Success 201 {object} gomoku.Game
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /game/new [post]
func newGameHandler(w http.ResponseWriter, r *http.Request) {
	db, err := getDB()
	if err != nil {
		renderError(w, http.StatusInternalServerError, "bad connection to db", err)
		return
	}

	var data CreateGameRequest
	if err := decodeRequest(r, &data); err != nil {
		renderError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	aiColor := gomoku.Empty
	if data.AIColor != "" && data.AIColor != "none" {
		aiColor, err = gomoku.ParseColor(data.AIColor)
		if err != nil {
			renderError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
	}

	slug, err := createGame(db, data.Size, aiColor)
	if err != nil {
		renderError(w, http.StatusInternalServerError, "could not create game", err)
		return
	}

	_, game, err := getGame(db, slug)
	if err != nil {
		renderGameError(w, slug, err)
		return
	}

	ctx := r.Context()
	stats.games.Add(ctx, 1)
	analytics.Emit(ctx, "game.created", slug, map[string]any{"size": game.Board.Size(), "ai_color": aiColor.String()})
	log.Infow("game created", "slug", slug, "size", game.Board.Size(), "ai_color", aiColor)

	w.Header().Set("Location", "/game/"+slug)
	renderJSON(w, http.StatusCreated, game)
}

// MoveRequest represents the request body for making a move
type MoveRequest struct {
	Player int    `json:"player" validate:"required,oneof=1 2" example:"1"`
	Text   string `json:"move" validate:"required,min=2,max=3" example:"j10"`
}

// @Summary Make a move in a game
// @Description Places a stone for player (1 black, 2 white) on a square such as j10
// @Tags game
// @Accept json
// @Produce json
// @Param slug path string true "Game slug identifier"
// @Param move body MoveRequest true "Move details"
// @Success 200 {object} gomoku.Game
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /game/{slug}/move [post]
func newMoveHandler(w http.ResponseWriter, r *http.Request) {
	db, err := getDB()
	if err != nil {
		renderError(w, http.StatusInternalServerError, "bad connection to db", err)
		return
	}

	ctx := r.Context()
	slug := ugcPolicy.Sanitize(chi.URLParamFromCtx(ctx, "slug"))

	var data MoveRequest
	if err := decodeRequest(r, &data); err != nil {
		renderError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	row, game, err := getGame(db, slug)
	if err != nil {
		renderGameError(w, slug, err)
		return
	}

	color := gomoku.Color(data.Player)
	if row.AIColor != 0 && color == gomoku.Color(row.AIColor) {
		renderError(w, http.StatusConflict, fmt.Sprintf("%s is played by the AI", color), nil)
		return
	}

	mv, err := gomoku.NewMove(data.Text)
	if err != nil {
		renderError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := game.DoSingleMove(*mv, color); err != nil {
		log.Infow("move rejected", "slug", slug, "move", data.Text, "player", color, zap.Error(err))
		renderGameError(w, slug, err)
		return
	}

	if err := recordMove(db, game, *mv, color); err != nil {
		renderError(w, http.StatusInternalServerError, "could not save move", err)
		return
	}

	afterMove(ctx, game, *mv, color, "human")
	renderJSON(w, http.StatusOK, game)
}

// afterMove fans a stored move out to metrics, analytics and spectators.
func afterMove(ctx context.Context, game *gomoku.Game, mv gomoku.Move, color gomoku.Color, source string) {
	stats.move(ctx, color, source)
	analytics.Emit(ctx, "game.move", game.Slug, map[string]any{
		"move":   mv.Text(),
		"player": int(color),
		"source": source,
	})

	if winner, over := game.GameOver(); over {
		stats.gameOver(ctx, game)
		analytics.Emit(ctx, "game.finished", game.Slug, map[string]any{"winner": winner.String()})
		log.Infow("game finished", "slug", game.Slug, "winner", winner)
	}

	hub.Broadcast(game.Slug, StateMessage{Type: "state", Data: game})
}

// @Summary Get game state
// @Description Returns the current state of a game
// @Tags game
// @Produce json
// @Param slug path string true "Game slug identifier"
// @Success 200 {object} gomoku.Game
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /game/{slug} [get]
func getGameHandler(w http.ResponseWriter, r *http.Request) {
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

	renderJSON(w, http.StatusOK, game)
}

// @Summary Get specific turn
// @Description Returns one turn of a game
// @Tags game
// @Produce json
// @Param slug path string true "Game slug identifier"
// @Param turn path int true "Turn number"
// @Success 200 {object} gomoku.Turn
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /game/{slug}/{turn} [get]
func getTurnHandler(w http.ResponseWriter, r *http.Request) {
	db, err := getDB()
	if err != nil {
		renderError(w, http.StatusInternalServerError, "bad connection to db", err)
		return
	}

	ctx := r.Context()
	slug := ugcPolicy.Sanitize(chi.URLParamFromCtx(ctx, "slug"))
	_, game, err := getGame(db, slug)
	if err != nil {
		renderGameError(w, slug, err)
		return
	}

	turnStr := ugcPolicy.Sanitize(chi.URLParamFromCtx(ctx, "turn"))
	turnNum, err := strconv.ParseInt(turnStr, 10, 64)
	if err != nil {
		renderError(w, http.StatusBadRequest, fmt.Sprintf("bad turn %q", turnStr), nil)
		return
	}

	turn, err := game.GetTurn(turnNum)
	if err != nil {
		renderError(w, http.StatusNotFound, err.Error(), nil)
		return
	}

	renderJSON(w, http.StatusOK, turn)
}

// @Summary Health check
// @Description Returns service health status
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, HealthResponse{
		Healthy:  "true",
		Revision: os.Getenv("GIT_REVISION"),
		Tag:      os.Getenv("GIT_TAG"),
		Branch:   os.Getenv("GIT_BRANCH"),
	})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusNotFound, ErrorResponse{
		Error: "404: This page could not be found",
	})
}
