package ai

import "github.com/icco/gomoku"

// neighborhood is the Chebyshev radius around existing stones that candidate
// moves are drawn from.
const neighborhood = 2

// place puts color on an empty cell and returns the undo.
func place(b *gomoku.Board, row, col int, color gomoku.Color) func() {
	b.Set(row, col, color)
	return func() { b.Remove(row, col) }
}

// makesRun reports whether color at the empty cell row, col would form a run
// of at least length stones with an open end in some direction.
func makesRun(b *gomoku.Board, row, col int, color gomoku.Color, length int) bool {
	undo := place(b, row, col, color)
	defer undo()

	for _, d := range gomoku.Directions {
		run := gomoku.CountStones(b, row, col, d[0], d[1], color)
		if run.Count >= length && run.Blocks < 2 {
			return true
		}
	}
	return false
}

// FindThreat returns the first empty cell, in row-major order, where color
// would make a run of at least length stones that is not blocked on both ends.
func FindThreat(b *gomoku.Board, color gomoku.Color, length int) (gomoku.Move, bool) {
	size := b.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b.At(r, c) != gomoku.Empty {
				continue
			}
			if makesRun(b, r, c, color, length) {
				return gomoku.Move{Row: r, Col: c}, true
			}
		}
	}
	return gomoku.Move{}, false
}

// CriticalMoves returns every empty cell where either color would make a four
// that is open on at least one end.
func CriticalMoves(b *gomoku.Board, aiColor, opponent gomoku.Color) []gomoku.Move {
	moves := []gomoku.Move{}
	size := b.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b.At(r, c) != gomoku.Empty {
				continue
			}
			if makesRun(b, r, c, aiColor, 4) || makesRun(b, r, c, opponent, 4) {
				moves = append(moves, gomoku.Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

// NearbyMoves returns the empty cells within two steps of any stone, in the
// order they are first reached when scanning stones row by row.
func NearbyMoves(b *gomoku.Board) []gomoku.Move {
	size := b.Size()
	seen := make([]bool, size*size)
	moves := []gomoku.Move{}

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b.At(r, c) == gomoku.Empty {
				continue
			}
			for dr := -neighborhood; dr <= neighborhood; dr++ {
				for dc := -neighborhood; dc <= neighborhood; dc++ {
					nr, nc := r+dr, c+dc
					if !b.IsEmpty(nr, nc) || seen[nr*size+nc] {
						continue
					}
					seen[nr*size+nc] = true
					moves = append(moves, gomoku.Move{Row: nr, Col: nc})
				}
			}
		}
	}

	return moves
}

// Candidates is the move set examined at each search node: the critical
// moves if there are any, otherwise the cells near existing stones, otherwise
// the centre of an empty board.
func Candidates(b *gomoku.Board, aiColor, opponent gomoku.Color) []gomoku.Move {
	if critical := CriticalMoves(b, aiColor, opponent); len(critical) > 0 {
		return critical
	}

	if nearby := NearbyMoves(b); len(nearby) > 0 {
		return nearby
	}

	center := b.Size() / 2
	return []gomoku.Move{{Row: center, Col: center}}
}
