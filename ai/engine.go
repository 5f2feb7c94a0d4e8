package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/icco/gomoku"
	"go.uber.org/zap"
)

// DifficultyLevel represents AI strength.
type DifficultyLevel int

const (
	Beginner DifficultyLevel = iota
	Intermediate
	Advanced
	Expert
)

// ParseLevel maps a level name to a DifficultyLevel, defaulting to Advanced.
func ParseLevel(s string) DifficultyLevel {
	switch strings.ToLower(s) {
	case "beginner":
		return Beginner
	case "intermediate":
		return Intermediate
	case "expert":
		return Expert
	default:
		return Advanced
	}
}

// Depth is the number of plies searched at this level. Expert's extra ply
// is best-effort: on a busy board it rarely finishes inside a time limit, and
// the engine then answers from the deepest completed search.
func (l DifficultyLevel) Depth() int {
	switch l {
	case Beginner:
		return 1
	case Intermediate:
		return 2
	case Expert:
		return MaxDepth + 1
	default:
		return MaxDepth
	}
}

func (l DifficultyLevel) String() string {
	switch l {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Expert:
		return "expert"
	default:
		return "advanced"
	}
}

// Config holds configuration for an AI player.
type Config struct {
	Level     DifficultyLevel
	TimeLimit time.Duration
}

// Engine is the interface for AI move generation.
type Engine interface {
	GetMove(ctx context.Context, g *gomoku.Game, cfg Config) (gomoku.Move, error)
	ExplainMove(ctx context.Context, g *gomoku.Game, cfg Config) (string, error)
}

// Analysis is a chosen move together with how it was found.
type Analysis struct {
	Move       gomoku.Move
	Score      int
	Depth      int
	Candidates int
	Stats      Stats
	// Fallback is set when the search found no move and the first empty
	// candidate was substituted.
	Fallback bool
}

// Forced reports whether the move answers an immediate win or loss.
func (a Analysis) Forced() bool {
	if a.Fallback {
		return false
	}
	return a.Score == Infinity || a.Score == -Infinity
}

// MinimaxEngine plays with Search. Deeper levels are reached by iterative
// deepening so a time limit still yields the deepest completed answer.
type MinimaxEngine struct{}

var _ Engine = (*MinimaxEngine)(nil)

// ErrNoMove is returned when the game has no legal move left.
var ErrNoMove = errors.New("no legal move")

// Analyze searches the current position of g for the side to move.
func (e *MinimaxEngine) Analyze(ctx context.Context, g *gomoku.Game, cfg Config) (Analysis, error) {
	if _, over := g.GameOver(); over {
		return Analysis{}, gomoku.ErrGameOver
	}

	if cfg.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.TimeLimit)
		defer cancel()
	}

	aiColor := g.ToMove()
	opponent := aiColor.Opponent()
	candidates := Candidates(g.Board, aiColor, opponent)

	var best Analysis
	completed := false
	for depth := 1; depth <= cfg.Level.Depth(); depth++ {
		res, stats, err := SearchContext(ctx, g.Board, aiColor, opponent, depth)
		best.Stats.add(stats)
		if err != nil {
			if completed {
				log.Infow("search stopped early", "depth", depth, "completed", best.Depth, zap.Error(err))
				break
			}
			return Analysis{}, fmt.Errorf("search depth %d: %w", depth, err)
		}

		best.Move = res.Move
		best.Score = res.Score
		best.Depth = depth
		best.Fallback = false
		completed = true

		if !res.Found || !g.Board.IsEmpty(res.Move.Row, res.Move.Col) {
			log.Warnw("search found no improving move, using first candidate", "slug", g.Slug, "depth", depth, "move", res.Move.Text())
			if err := best.fallback(g.Board, candidates); err != nil {
				return Analysis{}, err
			}
		}

		if best.Forced() {
			break
		}
	}

	best.Candidates = len(candidates)
	log.Debugw("search finished", "slug", g.Slug, "move", best.Move.Text(), "score", best.Score, "depth", best.Depth, "nodes", best.Stats.Nodes, "cutoffs", best.Stats.Cutoffs, "elapsed", best.Stats.Elapsed)

	return best, nil
}

// GetMove returns the move the engine would play for the side to move.
func (e *MinimaxEngine) GetMove(ctx context.Context, g *gomoku.Game, cfg Config) (gomoku.Move, error) {
	a, err := e.Analyze(ctx, g, cfg)
	if err != nil {
		return gomoku.Move{}, err
	}
	return a.Move, nil
}

// ExplainMove describes the move the engine would play.
func (e *MinimaxEngine) ExplainMove(ctx context.Context, g *gomoku.Game, cfg Config) (string, error) {
	a, err := e.Analyze(ctx, g, cfg)
	if err != nil {
		return "", err
	}
	return Explain(a), nil
}

// fallback replaces the move with the first empty candidate. A score of
// -Infinity is kept since every move lost; anything else is reset.
func (a *Analysis) fallback(b *gomoku.Board, candidates []gomoku.Move) error {
	mv, ok := firstEmpty(b, candidates)
	if !ok {
		return ErrNoMove
	}
	a.Move = mv
	a.Fallback = true
	if a.Score != -Infinity {
		a.Score = 0
	}
	return nil
}

// Explain renders an Analysis for humans.
func Explain(a Analysis) string {
	if a.Fallback {
		if a.Score == -Infinity {
			return fmt.Sprintf("%s is a last resort; every candidate loses at depth %d", a.Move.Text(), a.Depth)
		}
		return fmt.Sprintf("%s is the first open candidate; the search at depth %d preferred none", a.Move.Text(), a.Depth)
	}
	switch a.Score {
	case Infinity:
		return fmt.Sprintf("%s wins or makes an unstoppable four", a.Move.Text())
	case -Infinity:
		return fmt.Sprintf("%s blocks an opponent threat", a.Move.Text())
	}
	return fmt.Sprintf("%s is the best of %d candidates at depth %d (score %d)", a.Move.Text(), a.Candidates, a.Depth, a.Score)
}

func firstEmpty(b *gomoku.Board, moves []gomoku.Move) (gomoku.Move, bool) {
	for _, mv := range moves {
		if b.IsEmpty(mv.Row, mv.Col) {
			return mv, true
		}
	}

	size := b.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b.IsEmpty(r, c) {
				return gomoku.Move{Row: r, Col: c}, true
			}
		}
	}
	return gomoku.Move{}, false
}
