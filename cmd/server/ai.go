package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/icco/gomoku"
	"github.com/icco/gomoku/ai"
	"go.uber.org/zap"
)

const defaultAITimeLimit = 10 * time.Second

// maxJSONScore is the largest integer a JSON client can hold exactly.
const maxJSONScore = 1<<53 - 1

// AIRequest represents a request for an AI move
type AIRequest struct {
	Level     string        `json:"level" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	TimeLimit time.Duration `json:"time_limit" validate:"gte=0"`
}

// AIMoveResponse is the response for an AI move
type AIMoveResponse struct {
	Move   string       `json:"move"`
	Hint   string       `json:"hint,omitempty"`
	Score  int          `json:"score"`
	Forced bool         `json:"forced"`
	Depth  int          `json:"depth"`
	Game   *gomoku.Game `json:"game"`
}

func clampScore(score int) int {
	return max(-maxJSONScore, min(maxJSONScore, score))
}

var engine = &ai.MinimaxEngine{}

// aiTimeLimit reads AI_TIME_LIMIT (a duration such as "5s"), falling back to
// defaultAITimeLimit.
func aiTimeLimit() time.Duration {
	if v := os.Getenv("AI_TIME_LIMIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
		log.Warnw("ignoring bad AI_TIME_LIMIT", "value", v)
	}
	return defaultAITimeLimit
}

// @Summary Let the AI move
// @Description Searches the position and plays the AI's stone for the side to move
// @Tags ai
// @Accept json
// @Produce json
// @Param slug path string true "Game slug identifier"
// @Param request body AIRequest false "Search settings"
// @Success 200 {object} AIMoveResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /game/{slug}/ai-move [post]
func PostAIMoveHandler(w http.ResponseWriter, r *http.Request) {
	db, err := getDB()
	if err != nil {
		renderError(w, http.StatusInternalServerError, "bad connection to db", err)
		return
	}

	ctx := r.Context()
	slug := ugcPolicy.Sanitize(chi.URLParamFromCtx(ctx, "slug"))

	var req AIRequest
	if err := decodeRequest(r, &req); err != nil {
		renderError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	row, game, err := getGame(db, slug)
	if err != nil {
		renderGameError(w, slug, err)
		return
	}

	if _, over := game.GameOver(); over {
		renderGameError(w, slug, gomoku.ErrGameOver)
		return
	}

	color := game.ToMove()
	if row.AIColor != 0 && color != gomoku.Color(row.AIColor) {
		renderError(w, http.StatusConflict, "it's not the AI's turn", nil)
		return
	}

	timeLimit := aiTimeLimit()
	if req.TimeLimit > 0 {
		timeLimit = req.TimeLimit
	}
	cfg := ai.Config{
		Level:     ai.ParseLevel(req.Level),
		TimeLimit: timeLimit,
	}

	a, err := engine.Analyze(ctx, game, cfg)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			renderError(w, http.StatusGatewayTimeout, "AI ran out of time", err)
		case errors.Is(err, context.Canceled):
			log.Infow("AI move abandoned by client", "slug", slug)
		default:
			renderGameError(w, slug, err)
		}
		return
	}
	stats.searched(ctx, cfg.Level.String(), a.Depth, a.Stats.Nodes, a.Stats.Elapsed)

	if err := game.DoSingleMove(a.Move, color); err != nil {
		renderError(w, http.StatusInternalServerError, "AI generated an invalid move", err)
		return
	}

	if err := recordMove(db, game, a.Move, color); err != nil {
		renderError(w, http.StatusInternalServerError, "could not save AI move", err)
		return
	}

	hint := ai.Explain(a)
	afterMove(ctx, game, a.Move, color, "ai")
	log.Infow("AI move executed", "slug", slug, "move", a.Move.Text(), "hint", hint, "depth", a.Depth, "nodes", a.Stats.Nodes, zap.Duration("elapsed", a.Stats.Elapsed))

	renderJSON(w, http.StatusOK, AIMoveResponse{
		Move:   a.Move.Text(),
		Hint:   hint,
		Score:  clampScore(a.Score),
		Forced: a.Forced(),
		Depth:  a.Depth,
		Game:   game,
	})
}
