package ai

import (
	"testing"

	"github.com/icco/gomoku"
)

func TestCandidatesEmptyBoard(t *testing.T) {
	b := gomoku.NewBoard(gomoku.Size)
	got := Candidates(b, gomoku.White, gomoku.Black)

	want := gomoku.Move{Row: 9, Col: 9}
	if len(got) != 1 || got[0] != want {
		t.Errorf("Candidates(empty) = %v, want [%v]", got, want)
	}
}

func TestCandidatesNearby(t *testing.T) {
	b := gomoku.NewBoard(gomoku.Size)
	b.Set(0, 0, gomoku.Black)
	b.Set(10, 10, gomoku.White)

	got := Candidates(b, gomoku.White, gomoku.Black)

	// 3x3 corner neighborhood minus the stone, plus a full 5x5 minus the stone.
	if len(got) != 8+24 {
		t.Fatalf("len(Candidates) = %d, want %d", len(got), 8+24)
	}

	seen := map[gomoku.Move]bool{}
	for _, mv := range got {
		if seen[mv] {
			t.Errorf("duplicate candidate %v", mv)
		}
		seen[mv] = true
		if !b.IsEmpty(mv.Row, mv.Col) {
			t.Errorf("candidate %v is not empty", mv)
		}
	}

	if got[0] != (gomoku.Move{Row: 0, Col: 1}) {
		t.Errorf("first candidate = %v, want (0,1)", got[0])
	}
}

func TestCandidatesOverlapDeduplicated(t *testing.T) {
	b := gomoku.NewBoard(gomoku.Size)
	b.Set(9, 9, gomoku.Black)
	b.Set(9, 10, gomoku.White)

	got := Candidates(b, gomoku.White, gomoku.Black)

	// Union of two 5x5 squares offset by one column: 5x6 minus two stones.
	if len(got) != 28 {
		t.Errorf("len(Candidates) = %d, want 28", len(got))
	}
}

func TestCandidatesCriticalFastPath(t *testing.T) {
	b := mustBoard(t, `
. . . . . . . . .
. . . . . . . . .
. . . . . . . . .
. . X X X . . . .
. . . . . . . . .
. . . . . O . . .
. . . . . . . . .
. . . . . . . . .
. . . . . . . . .
`)

	got := Candidates(b, gomoku.White, gomoku.Black)
	want := []gomoku.Move{{Row: 3, Col: 1}, {Row: 3, Col: 5}}

	if len(got) != len(want) {
		t.Fatalf("Candidates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Candidates()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFindThreat(t *testing.T) {
	b := mustBoard(t, `
. . . . . . . . .
. O X X X X . . .
. . . . . . . . .
. . . . . . . . .
. . . O O . . . .
. . . . . . . . .
. . . . . . . . .
. . . . . . . . .
. . . . . . . . .
`)

	tests := []struct {
		name   string
		color  gomoku.Color
		length int
		want   gomoku.Move
		found  bool
	}{
		{"black completes five", gomoku.Black, 5, gomoku.Move{Row: 1, Col: 6}, true},
		{"white has no five", gomoku.White, 5, gomoku.Move{}, false},
		{"white makes three", gomoku.White, 3, gomoku.Move{Row: 4, Col: 2}, true},
		{"white has no four", gomoku.White, 4, gomoku.Move{}, false},
	}

	before := b.String()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindThreat(b, tt.color, tt.length)
			if ok != tt.found || got != tt.want {
				t.Errorf("FindThreat() = %v, %v; want %v, %v", got, ok, tt.want, tt.found)
			}
		})
	}

	if b.String() != before {
		t.Errorf("FindThreat left stones on the board")
	}
}

func TestFindThreatIgnoresDeadFive(t *testing.T) {
	b := mustBoard(t, `
O X X . X X O
. . . . . . .
. . . . . . .
. . . . . . .
. . . . . . .
. . . . . . .
. . . . . . .
`)

	if mv, ok := FindThreat(b, gomoku.Black, 5); ok {
		t.Errorf("FindThreat() = %v, want none for a five closed on both ends", mv)
	}
}
