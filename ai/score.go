package ai

import "github.com/icco/gomoku"

// Pattern scores. OpenTwo and BlockedThree share a value.
const (
	Five         = 1000000
	OpenFour     = 100000
	BlockedFour  = 10000
	OpenThree    = 1000
	BlockedThree = 100
	OpenTwo      = 100
	BlockedTwo   = 10
)

// PatternScore scores a run of count stones with the given number of blocked
// ends. A run blocked on both ends is dead unless it is already five.
func PatternScore(count, blocks int) int {
	if blocks >= 2 && count < 5 {
		return 0
	}

	switch count {
	case 5:
		return Five
	case 4:
		if blocks == 0 {
			return OpenFour
		}
		return BlockedFour
	case 3:
		if blocks == 0 {
			return OpenThree
		}
		return BlockedThree
	case 2:
		if blocks == 0 {
			return OpenTwo
		}
		return BlockedTwo
	}

	return 0
}

// EvaluatePoint sums PatternScore over the four directions through row, col
// for color. Runs that do not belong to aiColor count half.
func EvaluatePoint(b *gomoku.Board, row, col int, color, aiColor gomoku.Color) int {
	total := 0
	for _, d := range gomoku.Directions {
		run := gomoku.CountStones(b, row, col, d[0], d[1], color)
		score := PatternScore(run.Count, run.Blocks)
		if color != aiColor {
			score /= 2
		}
		total += score
	}
	return total
}

// EvaluateBoard is the static evaluation used at the search frontier: the
// point scores of every player stone minus those of every opponent stone.
func EvaluateBoard(b *gomoku.Board, player, opponent, aiColor gomoku.Color) int {
	score := 0
	size := b.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			switch b.At(r, c) {
			case player:
				score += EvaluatePoint(b, r, c, player, aiColor)
			case opponent:
				score -= EvaluatePoint(b, r, c, opponent, aiColor)
			}
		}
	}
	return score
}
