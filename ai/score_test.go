package ai

import (
	"testing"

	"github.com/icco/gomoku"
)

func TestPatternScore(t *testing.T) {
	tests := []struct {
		count, blocks int
		want          int
	}{
		{5, 0, Five},
		{5, 1, Five},
		{5, 2, Five},
		{4, 0, OpenFour},
		{4, 1, BlockedFour},
		{4, 2, 0},
		{3, 0, OpenThree},
		{3, 1, BlockedThree},
		{3, 2, 0},
		{2, 0, OpenTwo},
		{2, 1, BlockedTwo},
		{2, 2, 0},
		{1, 0, 0},
		{6, 0, 0},
	}

	for _, tt := range tests {
		if got := PatternScore(tt.count, tt.blocks); got != tt.want {
			t.Errorf("PatternScore(%d, %d) = %d, want %d", tt.count, tt.blocks, got, tt.want)
		}
	}

	if OpenTwo != BlockedThree {
		t.Errorf("open two (%d) and blocked three (%d) must score the same", OpenTwo, BlockedThree)
	}
}

func TestEvaluatePointHalvesOpponent(t *testing.T) {
	b := mustBoard(t, `
. . . . . . .
. . . . . . .
. X X X . . .
. . . . . . .
. . . . . . .
. . . . . . .
. . . . . . .
`)

	mine := EvaluatePoint(b, 2, 2, gomoku.Black, gomoku.Black)
	theirs := EvaluatePoint(b, 2, 2, gomoku.Black, gomoku.White)

	// Horizontal open three plus three open singles.
	if mine != OpenThree {
		t.Errorf("EvaluatePoint(ai) = %d, want %d", mine, OpenThree)
	}
	if theirs != OpenThree/2 {
		t.Errorf("EvaluatePoint(opponent) = %d, want %d", theirs, OpenThree/2)
	}
}

func TestEvaluateBoard(t *testing.T) {
	b := mustBoard(t, `
. . . . . . .
. O O . . . .
. . . . . . .
. . . X X . .
. . . . . . .
. . . . . . .
. . . . . . .
`)

	// Two black stones in an open two each; two white stones likewise, halved.
	want := 2*OpenTwo - 2*(OpenTwo/2)
	if got := EvaluateBoard(b, gomoku.Black, gomoku.White, gomoku.Black); got != want {
		t.Errorf("EvaluateBoard() = %d, want %d", got, want)
	}

	if got := EvaluateBoard(gomoku.NewBoard(gomoku.Size), gomoku.Black, gomoku.White, gomoku.Black); got != 0 {
		t.Errorf("EvaluateBoard(empty) = %d, want 0", got)
	}
}

func TestDeadFourScoresNothing(t *testing.T) {
	b := mustBoard(t, `
. . . . . . . .
O X X X X O . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
`)

	run := gomoku.CountStones(b, 1, 2, 0, 1, gomoku.Black)
	if score := PatternScore(run.Count, run.Blocks); score != 0 {
		t.Errorf("dead four scored %d", score)
	}
	if gomoku.CheckWin(b, 1, 2, gomoku.Black) {
		t.Errorf("dead four reported as a win")
	}
}

func mustBoard(t *testing.T, diagram string) *gomoku.Board {
	t.Helper()
	b, err := gomoku.ParseBoard(diagram)
	if err != nil {
		t.Fatalf("ParseBoard() error = %v", err)
	}
	return b
}
