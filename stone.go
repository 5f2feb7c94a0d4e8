package gomoku

import "fmt"

// Color is the occupant of a single board intersection. A stone has no
// identity beyond its position and its color.
type Color int

// Empty, Black and White are the only values a cell can hold.
const (
	Empty Color = iota
	Black
	White
)

// PlayerBlack and PlayerWhite are the wire values used for players in the API
// and in game records.
const (
	PlayerBlack = int(Black)
	PlayerWhite = int(White)
)

// Opponent returns the other player color. Empty has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// IsPlayer reports whether c is Black or White.
func (c Color) IsPlayer() bool {
	return c == Black || c == White
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

// Symbol is the single character used for c in board diagrams.
func (c Color) Symbol() string {
	switch c {
	case Black:
		return "X"
	case White:
		return "O"
	default:
		return "."
	}
}

// ParseColor converts "black"/"white" (or the player numbers 1/2) to a Color.
func ParseColor(s string) (Color, error) {
	switch s {
	case "black", "Black", "b", "1":
		return Black, nil
	case "white", "White", "w", "2":
		return White, nil
	}

	return Empty, fmt.Errorf("unknown color %q", s)
}
