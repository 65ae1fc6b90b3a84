// Package perft counts legal move sequences to a fixed depth. It is the
// correctness oracle for the move generator: any generation or application
// bug shows up as a node count drifting from the known values.
package perft

import (
	"github.com/JoeChrisman/ChessEngine2021/internal/board"
	"github.com/JoeChrisman/ChessEngine2021/internal/movegen"
	"github.com/JoeChrisman/ChessEngine2021/internal/worker"
)

// Count returns the number of leaf nodes reachable from the board's side to
// move in exactly depth plies, undoing each move with snapshot/restore.
func Count(b *board.Board, g *movegen.Generator, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	g.Generate(b.EngineToMove)
	moves := g.SortedMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, move := range moves {
		snapshot := b.Snapshot()
		b.MakeMove(move, b.EngineToMove)
		nodes += Count(b, g, depth-1)
		b.Restore(snapshot)
	}
	return nodes
}

// RootCount is the node count under one root move.
type RootCount struct {
	Move  board.Move
	Nodes uint64
}

// Divide returns the per-root-move node counts, the standard way to narrow
// a perft mismatch down to a single move.
func Divide(b *board.Board, g *movegen.Generator, depth int) []RootCount {
	g.Generate(b.EngineToMove)
	moves := g.SortedMoves()

	counts := make([]RootCount, 0, len(moves))
	for _, move := range moves {
		snapshot := b.Snapshot()
		b.MakeMove(move, b.EngineToMove)
		counts = append(counts, RootCount{Move: move, Nodes: Count(b, g, depth-1)})
		b.Restore(snapshot)
	}
	return counts
}

// CountParallel splits the root moves across a worker pool. Each task owns
// a clone of the board, so the workers share only the immutable attack
// tables. The result matches Count exactly.
func CountParallel(b *board.Board, tables *movegen.AttackTables, depth, workers int) uint64 {
	if depth == 0 {
		return 1
	}

	g := movegen.NewGenerator(b, tables)
	g.Generate(b.EngineToMove)
	moves := g.SortedMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	pool := worker.NewPool(func(task worker.Task) worker.Result {
		taskGen := movegen.NewGenerator(task.Board, tables)
		return worker.Result{
			Move:  task.Move,
			Nodes: Count(task.Board, taskGen, task.Depth),
		}
	}, worker.WithWorkers(workers), worker.WithBufferSize(len(moves)))
	pool.Start()

	go func() {
		for _, move := range moves {
			clone := b.Clone()
			clone.MakeMove(move, clone.EngineToMove)
			pool.Submit(worker.Task{Move: move, Board: clone, Depth: depth - 1})
		}
		pool.Close()
	}()

	var nodes uint64
	for result := range pool.Results() {
		nodes += result.Nodes
	}
	return nodes
}
