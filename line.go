package gomoku

// WinLength is the number of contiguous stones needed to win.
const WinLength = 5

// Directions are the four line axes: horizontal, vertical, diagonal (\) and
// anti-diagonal (/). Each is walked both ways.
var Directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// Run is a maximal line of same-colored stones through a point. Blocks counts
// the ends (0, 1 or 2) that stop at the board edge or at a stone of another
// color rather than at an empty cell.
type Run struct {
	Count  int
	Blocks int
}

// CountStones walks out from row, col along +/-(dr, dc) while cells hold
// color. The origin is always counted, whatever it currently holds.
func CountStones(b *Board, row, col, dr, dc int, color Color) Run {
	run := Run{Count: 1}

	for _, sign := range [2]int{1, -1} {
		r := row + sign*dr
		c := col + sign*dc
		for b.InBounds(r, c) && b.At(r, c) == color {
			run.Count++
			r += sign * dr
			c += sign * dc
		}
		if !b.InBounds(r, c) || b.At(r, c) != Empty {
			run.Blocks++
		}
	}

	return run
}

// CheckWin reports whether the stone of color at row, col is part of five or
// more in a row. It is meant to be called right after every placement.
func CheckWin(b *Board, row, col int, color Color) bool {
	if !b.InBounds(row, col) || b.At(row, col) != color {
		return false
	}

	for _, d := range Directions {
		if CountStones(b, row, col, d[0], d[1], color).Count >= WinLength {
			return true
		}
	}

	return false
}
