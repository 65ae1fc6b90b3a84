// Package search picks the engine's move: a fixed-depth alpha-beta minimax
// over the legal move tree, scoring leaves with a static material and
// positional evaluation. The engine maximises, the player minimises.
package search

import (
	"github.com/JoeChrisman/ChessEngine2021/internal/board"
	"github.com/JoeChrisman/ChessEngine2021/internal/movegen"
)

// Evaluation bounds. A checkmate found at ply p scores MaxEval-p or
// MinEval+p, so deeper mates score closer to zero and the engine prefers
// delivering the fastest mate while being mated as late as possible.
const (
	MaxEval = 1 << 15
	MinEval = -MaxEval
)

// Searcher walks the game tree on one board, undoing moves with
// snapshot/restore. It is single threaded and synchronous: BestMove blocks
// until the full tree has been searched.
type Searcher struct {
	board     *board.Board
	generator *movegen.Generator
	depth     int
}

// NewSearcher binds a searcher to a board and its generator.
func NewSearcher(b *board.Board, g *movegen.Generator, depth int) *Searcher {
	return &Searcher{board: b, generator: g, depth: depth}
}

// BestMove searches every engine move to the configured depth and returns
// the one with the highest score, first encountered winning ties. The
// second return is false when the engine has no legal moves: checkmate or
// stalemate, which the caller tells apart with a check test.
func (s *Searcher) BestMove() (board.Move, bool) {
	s.generator.Generate(true)
	moves := s.generator.SortedMoves()
	if len(moves) == 0 {
		return board.Move{}, false
	}

	var best board.Move
	bestScore := MinEval
	found := false

	for _, move := range moves {
		snapshot := s.board.Snapshot()
		s.board.MakeMove(move, true)
		score := s.minimize(1, MinEval, MaxEval)
		s.board.Restore(snapshot)

		if !found || score > bestScore {
			bestScore = score
			best = move
			found = true
		}
	}
	return best, true
}

// maximize scores the engine's best reply at this ply.
func (s *Searcher) maximize(ply, alpha, beta int) int {
	if ply > s.depth {
		return Evaluate(&s.board.Position)
	}

	s.generator.Generate(true)
	moves := s.generator.SortedMoves()
	if len(moves) == 0 {
		if s.generator.IsKingInCheck(true) {
			// The engine is mated; deeper is less bad, so the engine
			// holds out for the longest line.
			return MinEval + ply
		}
		return 0
	}

	bestScore := MinEval
	for _, move := range moves {
		snapshot := s.board.Snapshot()
		s.board.MakeMove(move, true)
		score := s.minimize(ply+1, alpha, beta)
		s.board.Restore(snapshot)

		if score > bestScore {
			bestScore = score
		}
		if bestScore > alpha {
			alpha = bestScore
		}
		if beta <= alpha {
			break
		}
	}
	return bestScore
}

// minimize scores the player's best reply at this ply.
func (s *Searcher) minimize(ply, alpha, beta int) int {
	if ply > s.depth {
		return Evaluate(&s.board.Position)
	}

	s.generator.Generate(false)
	moves := s.generator.SortedMoves()
	if len(moves) == 0 {
		if s.generator.IsKingInCheck(false) {
			// The player is mated; shallower is better, so the engine
			// goes for the fastest mate.
			return MaxEval - ply
		}
		return 0
	}

	bestScore := MaxEval
	for _, move := range moves {
		snapshot := s.board.Snapshot()
		s.board.MakeMove(move, false)
		score := s.maximize(ply+1, alpha, beta)
		s.board.Restore(snapshot)

		if score < bestScore {
			bestScore = score
		}
		if bestScore < beta {
			beta = bestScore
		}
		if beta <= alpha {
			break
		}
	}
	return bestScore
}
