package gomoku

import (
	"testing"
)

func TestParseBoard(t *testing.T) {
	b, err := ParseBoard(`
. . . . .
. X O . .
. . B . .
. . . W .
+ + _ . x
`)
	if err != nil {
		t.Fatalf("ParseBoard() error = %v", err)
	}

	if b.Size() != 5 {
		t.Fatalf("Size() = %d, want 5", b.Size())
	}

	tests := []struct {
		row, col int
		want     Color
	}{
		{1, 1, Black},
		{1, 2, White},
		{2, 2, Black},
		{3, 3, White},
		{4, 4, Black},
		{0, 0, Empty},
		{4, 2, Empty},
	}
	for _, tt := range tests {
		if got := b.At(tt.row, tt.col); got != tt.want {
			t.Errorf("At(%d, %d) = %v, want %v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestParseBoardErrors(t *testing.T) {
	tests := map[string]string{
		"empty":       "",
		"not square":  ". .\n. .\n. .\n",
		"ragged":      ". . .\n. .\n. . .\n",
		"bad symbol":  ". . .\n. Z .\n. . .\n",
		"digit label": "1 . .\n. . .\n. . .\n",
	}

	for name, diagram := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseBoard(diagram); err == nil {
				t.Errorf("ParseBoard(%q) expected error but got none", diagram)
			}
		})
	}
}

func TestBoardStringRoundTrip(t *testing.T) {
	b := NewBoard(Size)
	b.Set(9, 9, Black)
	b.Set(0, 18, White)
	b.Set(18, 0, Black)

	parsed, err := ParseBoard(b.String())
	if err != nil {
		t.Fatalf("ParseBoard() error = %v", err)
	}

	if parsed.String() != b.String() {
		t.Errorf("round trip mismatch:\n%s\nvs\n%s", parsed, b)
	}
}

func TestBoardClone(t *testing.T) {
	b := NewBoard(Size)
	b.Set(3, 4, White)

	clone := b.Clone()
	clone.Set(5, 5, Black)
	clone.Remove(3, 4)

	if b.At(5, 5) != Empty {
		t.Errorf("clone write leaked into original")
	}
	if b.At(3, 4) != White {
		t.Errorf("clone remove leaked into original")
	}
}

func TestBoardBounds(t *testing.T) {
	b := NewBoard(Size)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {19, 0}, {0, 19}} {
		if b.InBounds(p[0], p[1]) {
			t.Errorf("InBounds(%d, %d) = true", p[0], p[1])
		}
		if b.IsEmpty(p[0], p[1]) {
			t.Errorf("IsEmpty(%d, %d) = true off the board", p[0], p[1])
		}
	}

	if b.Full() {
		t.Errorf("empty board reported full")
	}
}
