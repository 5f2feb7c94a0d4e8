package ai

import (
	"context"
	"math"
	"time"

	"github.com/icco/gomoku"
)

// Infinity marks a forced win (or, negated, a forced loss). No heuristic
// total comes near it.
const Infinity = math.MaxInt

// MaxDepth is the default search depth in plies.
const MaxDepth = 3

// Result is the outcome of a search node. Found is false for frontier
// evaluations and when no candidate beat the initial bound, in which case Move
// is (0,0).
type Result struct {
	Move  gomoku.Move
	Score int
	Found bool
}

// Stats counts the work done by one search.
type Stats struct {
	Nodes   int64
	Leaves  int64
	Cutoffs int64
	Elapsed time.Duration
}

func (s *Stats) add(o Stats) {
	s.Nodes += o.Nodes
	s.Leaves += o.Leaves
	s.Cutoffs += o.Cutoffs
	s.Elapsed += o.Elapsed
}

// searcher holds the context of a single search. board is a private working
// copy that is mutated and restored as moves are tried.
type searcher struct {
	ctx      context.Context
	board    *gomoku.Board
	ai       gomoku.Color
	opponent gomoku.Color
	maxDepth int
	stats    Stats
}

// Search picks a move for aiColor with depth-limited minimax and alpha-beta
// pruning. The caller's board is not modified.
func Search(b *gomoku.Board, aiColor, opponent gomoku.Color, depth int) Result {
	res, _, _ := SearchContext(context.Background(), b, aiColor, opponent, depth)
	return res
}

// SearchContext is Search with cancellation. It returns the context's error
// if ctx is done before the search completes.
func SearchContext(ctx context.Context, b *gomoku.Board, aiColor, opponent gomoku.Color, depth int) (Result, Stats, error) {
	s := &searcher{
		ctx:      ctx,
		board:    b.Clone(),
		ai:       aiColor,
		opponent: opponent,
		maxDepth: depth,
	}

	start := time.Now()
	res, err := s.search(aiColor, opponent, depth, -Infinity, Infinity)
	s.stats.Elapsed = time.Since(start)

	return res, s.stats, err
}

func (s *searcher) search(toMove, other gomoku.Color, depth, alpha, beta int) (Result, error) {
	if err := s.ctx.Err(); err != nil {
		return Result{}, err
	}
	s.stats.Nodes++

	if depth == 0 {
		s.stats.Leaves++
		return Result{Score: EvaluateBoard(s.board, s.ai, s.opponent, s.ai)}, nil
	}

	if res, ok := s.threat(depth); ok {
		return res, nil
	}

	maximizing := toMove == s.ai
	best := Result{Score: Infinity}
	if maximizing {
		best.Score = -Infinity
	}

	for _, mv := range Candidates(s.board, s.ai, s.opponent) {
		res, err := s.try(mv, toMove, other, depth, alpha, beta)
		if err != nil {
			return Result{}, err
		}

		if maximizing {
			if res.Score > best.Score {
				best = Result{Move: mv, Score: res.Score, Found: true}
			}
			alpha = max(alpha, best.Score)
		} else {
			if res.Score < best.Score {
				best = Result{Move: mv, Score: res.Score, Found: true}
			}
			beta = min(beta, best.Score)
		}

		if beta <= alpha {
			s.stats.Cutoffs++
			break
		}
	}

	return best, nil
}

// try plays mv for toMove, searches the reply and takes the stone back.
func (s *searcher) try(mv gomoku.Move, toMove, other gomoku.Color, depth, alpha, beta int) (Result, error) {
	undo := place(s.board, mv.Row, mv.Col, toMove)
	defer undo()

	return s.search(other, toMove, depth-1, alpha, beta)
}

// threat short-circuits the search on immediate tactics. Fives are checked at
// every depth; fours and threes only at the root.
func (s *searcher) threat(depth int) (Result, bool) {
	if mv, ok := FindThreat(s.board, s.ai, 5); ok {
		return Result{Move: mv, Score: Infinity, Found: true}, true
	}
	if mv, ok := FindThreat(s.board, s.opponent, 5); ok {
		return Result{Move: mv, Score: -Infinity, Found: true}, true
	}

	if depth != s.maxDepth {
		return Result{}, false
	}

	if mv, ok := FindThreat(s.board, s.ai, 4); ok {
		return Result{Move: mv, Score: Infinity, Found: true}, true
	}
	for _, length := range []int{4, 3} {
		if mv, ok := FindThreat(s.board, s.opponent, length); ok {
			return Result{Move: mv, Score: -Infinity, Found: true}, true
		}
	}

	return Result{}, false
}
