package gomoku

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Move is a single stone placement, 0-indexed.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// (column letter)(row number), e.g. j10.
var squareRegex = regexp.MustCompile(`^([a-z])(\d{1,2})$`)

// NewMove parses a square such as "a1" or "s19". Column letters run from 'a'
// and rows are numbered from 1. The result is not checked against a board.
func NewMove(square string) (*Move, error) {
	square = strings.ToLower(strings.Trim(square, "\"'?! "))
	if square == "" {
		return nil, fmt.Errorf("move cannot be empty")
	}

	parts := squareRegex.FindStringSubmatch(square)
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid move format: %s", square)
	}

	row, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, err
	}
	if row < 1 {
		return nil, fmt.Errorf("invalid row in move: %s", square)
	}

	return &Move{Row: row - 1, Col: int(parts[1][0] - 'a')}, nil
}

// Text returns the square notation of the move.
func (m Move) Text() string {
	return fmt.Sprintf("%c%d", 'a'+m.Col, m.Row+1)
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// Valid reports whether the move is on a board of the given size.
func (m Move) Valid(size int) bool {
	return m.Row >= 0 && m.Col >= 0 && m.Row < size && m.Col < size
}
