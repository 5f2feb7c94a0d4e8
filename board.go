package gomoku

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Size is the side length of a standard gomoku board.
const Size = 19

// Board is a square grid of cells. It is owned by the caller; the AI only ever
// sees clones of it.
type Board struct {
	size  int
	cells []Color
}

// NewBoard returns an empty board with the given side length.
func NewBoard(size int) *Board {
	return &Board{
		size:  size,
		cells: make([]Color, size*size),
	}
}

// Size returns the side length of the board.
func (b *Board) Size() int {
	return b.size
}

// At returns the color at row, col. The coordinates must be in bounds.
func (b *Board) At(row, col int) Color {
	return b.cells[b.index(row, col)]
}

// Set places color at row, col. The coordinates must be in bounds.
func (b *Board) Set(row, col int, color Color) {
	b.cells[b.index(row, col)] = color
}

// Remove empties the cell at row, col.
func (b *Board) Remove(row, col int) {
	b.cells[b.index(row, col)] = Empty
}

// InBounds reports whether row, col is on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < b.size && col < b.size
}

// IsEmpty reports whether row, col is on the board and unoccupied.
func (b *Board) IsEmpty(row, col int) bool {
	return b.InBounds(row, col) && b.At(row, col) == Empty
}

// Count returns the number of cells holding color.
func (b *Board) Count(color Color) int {
	count := 0
	for _, c := range b.cells {
		if c == color {
			count++
		}
	}
	return count
}

// Full reports whether every cell is occupied.
func (b *Board) Full() bool {
	return b.Count(Empty) == 0
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	clone := &Board{size: b.size, cells: make([]Color, len(b.cells))}
	copy(clone.cells, b.cells)
	return clone
}

// Rows returns the board as a row-major grid.
func (b *Board) Rows() [][]Color {
	rows := make([][]Color, b.size)
	for r := 0; r < b.size; r++ {
		rows[r] = make([]Color, b.size)
		copy(rows[r], b.cells[r*b.size:(r+1)*b.size])
	}
	return rows
}

// MarshalJSON encodes the board as a grid of player numbers, 0 for empty.
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Rows())
}

// String renders the board in the same diagram format ParseBoard reads.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(b.At(r, c).Symbol())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) index(row, col int) int {
	return row*b.size + col
}

// ParseBoard reads a board diagram: one line per row, X or B for black, O or
// W for white, '.', '+' or '_' for an empty point. Whitespace between points
// is ignored. The diagram must be square.
func ParseBoard(diagram string) (*Board, error) {
	s := NewScanner(strings.NewReader(diagram))

	var rows [][]Color
	var row []Color
	flush := func() {
		if len(row) > 0 {
			rows = append(rows, row)
			row = nil
		}
	}

	for {
		tok, lit := s.Scan()
		switch tok {
		case EOF:
			flush()
			return boardFromRows(rows)
		case NEWLINE:
			flush()
		case WS:
			continue
		case STONE:
			color, err := stoneColor(lit)
			if err != nil {
				return nil, err
			}
			row = append(row, color)
		case POINT:
			row = append(row, Empty)
		default:
			return nil, fmt.Errorf("unexpected %q in board diagram", lit)
		}
	}
}

func boardFromRows(rows [][]Color) (*Board, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("board diagram is empty")
	}

	b := NewBoard(len(rows))
	for r, row := range rows {
		if len(row) != len(rows) {
			return nil, fmt.Errorf("row %d has %d points, want %d", r+1, len(row), len(rows))
		}
		for c, color := range row {
			b.Set(r, c, color)
		}
	}

	return b, nil
}
