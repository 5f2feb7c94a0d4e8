package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/icco/gomoku"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  DifficultyLevel
		depth int
	}{
		{"beginner", Beginner, 1},
		{"Intermediate", Intermediate, 2},
		{"advanced", Advanced, MaxDepth},
		{"expert", Expert, MaxDepth + 1},
		{"", Advanced, MaxDepth},
		{"grandmaster", Advanced, MaxDepth},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseLevel(tt.in)
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.Depth() != tt.depth {
				t.Errorf("Depth() = %d, want %d", got.Depth(), tt.depth)
			}
		})
	}
}

func newTestGame(t *testing.T, moves ...string) *gomoku.Game {
	t.Helper()
	g, err := gomoku.NewGame(gomoku.Size, "engine-test")
	if err != nil {
		t.Fatal(err)
	}
	for _, mv := range moves {
		if err := g.DoMove(mv, g.ToMove()); err != nil {
			t.Fatalf("DoMove(%s) error = %v", mv, err)
		}
	}
	return g
}

func TestEngineGetMove(t *testing.T) {
	g := newTestGame(t, "j10")
	engine := &MinimaxEngine{}

	mv, err := engine.GetMove(context.Background(), g, Config{Level: Beginner})
	if err != nil {
		t.Fatalf("GetMove() error = %v", err)
	}

	if !g.Board.IsEmpty(mv.Row, mv.Col) {
		t.Errorf("GetMove() = %v which is occupied", mv)
	}
	if abs(mv.Row-9) > 2 || abs(mv.Col-9) > 2 {
		t.Errorf("GetMove() = %v, want a move near (9,9)", mv)
	}
	if g.Board.Count(gomoku.White) != 0 {
		t.Errorf("GetMove() placed a stone on the game board")
	}
}

func TestEngineFirstMove(t *testing.T) {
	g := newTestGame(t)

	mv, err := (&MinimaxEngine{}).GetMove(context.Background(), g, Config{Level: Advanced})
	if err != nil {
		t.Fatal(err)
	}
	if mv != (gomoku.Move{Row: 9, Col: 9}) {
		t.Errorf("GetMove(empty) = %v, want (9,9)", mv)
	}
}

func TestEngineBlocksThree(t *testing.T) {
	g := newTestGame(t, "j10", "a1", "k10", "a19", "l10")

	a, err := (&MinimaxEngine{}).Analyze(context.Background(), g, Config{Level: Advanced, TimeLimit: time.Minute})
	if err != nil {
		t.Fatal(err)
	}

	if a.Move != (gomoku.Move{Row: 9, Col: 8}) && a.Move != (gomoku.Move{Row: 9, Col: 12}) {
		t.Errorf("Analyze() = %v, want (9,8) or (9,12)", a.Move)
	}
	if !a.Forced() {
		t.Errorf("Forced() = false for a forced block")
	}
	if !strings.Contains(Explain(a), "blocks") {
		t.Errorf("Explain() = %q", Explain(a))
	}
}

func TestEngineCanceled(t *testing.T) {
	g := newTestGame(t, "j10", "k11")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&MinimaxEngine{}).GetMove(ctx, g, Config{Level: Expert})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("GetMove() error = %v, want context.Canceled", err)
	}
}

func TestEngineGameOver(t *testing.T) {
	g := newTestGame(t, "a1", "a2", "b1", "b2", "c1", "c2", "d1", "d2", "e1")

	_, err := (&MinimaxEngine{}).GetMove(context.Background(), g, Config{})
	if !errors.Is(err, gomoku.ErrGameOver) {
		t.Errorf("GetMove() error = %v, want ErrGameOver", err)
	}
}

func TestExplainMove(t *testing.T) {
	g := newTestGame(t, "j10")

	text, err := (&MinimaxEngine{}).ExplainMove(context.Background(), g, Config{Level: Intermediate})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "depth 2") {
		t.Errorf("ExplainMove() = %q, want it to mention depth 2", text)
	}
}

func TestFirstEmpty(t *testing.T) {
	b := gomoku.NewBoard(5)
	b.Set(0, 0, gomoku.Black)

	mv, ok := firstEmpty(b, []gomoku.Move{{Row: 0, Col: 0}, {Row: 2, Col: 3}})
	if !ok || mv != (gomoku.Move{Row: 2, Col: 3}) {
		t.Errorf("firstEmpty() = %v, %v", mv, ok)
	}

	mv, ok = firstEmpty(b, nil)
	if !ok || mv != (gomoku.Move{Row: 0, Col: 1}) {
		t.Errorf("firstEmpty(nil) = %v, %v", mv, ok)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestFallbackExplanation(t *testing.T) {
	b := gomoku.NewBoard(gomoku.Size)
	b.Set(9, 9, gomoku.Black)
	candidates := []gomoku.Move{{Row: 9, Col: 9}, {Row: 9, Col: 10}}

	tests := []struct {
		name      string
		score     int
		wantScore int
		want      string
	}{
		{"lost", -Infinity, -Infinity, "every candidate loses"},
		{"no preference", 42, 0, "first open candidate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Analysis{Score: tt.score, Depth: 3}
			if err := a.fallback(b, candidates); err != nil {
				t.Fatal(err)
			}
			if a.Move != (gomoku.Move{Row: 9, Col: 10}) {
				t.Errorf("Move = %v, want the first empty candidate", a.Move)
			}
			if a.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", a.Score, tt.wantScore)
			}
			if a.Forced() {
				t.Error("Forced() = true for a substituted move")
			}

			text := Explain(a)
			if strings.Contains(text, "blocks") || !strings.Contains(text, tt.want) {
				t.Errorf("Explain() = %q, want it to mention %q", text, tt.want)
			}
		})
	}
}

func TestFallbackFullBoard(t *testing.T) {
	b := gomoku.NewBoard(5)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			b.Set(r, c, gomoku.Color(1+(r+c)%2))
		}
	}

	var a Analysis
	if err := a.fallback(b, nil); !errors.Is(err, ErrNoMove) {
		t.Errorf("fallback() error = %v, want ErrNoMove", err)
	}
}
