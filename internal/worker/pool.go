// Package worker provides a worker pool for splitting perft root moves
// across goroutines. Each task carries its own board clone, so workers
// share nothing but the immutable attack tables.
package worker

import (
	"sync"
	"sync/atomic"

	"github.com/JoeChrisman/ChessEngine2021/internal/board"
)

// Task is one root move to count: the move itself and a private board with
// the move already either pending or applied, per the process function.
type Task struct {
	Move  board.Move
	Board *board.Board
	Depth int
}

// Result is the node count under one root move.
type Result struct {
	Move  board.Move
	Nodes uint64
}

// ProcessFunc counts the nodes for one task.
type ProcessFunc func(task Task) Result

// Pool manages a fixed set of workers draining a task channel.
type Pool struct {
	numWorkers  int
	bufferSize  int
	taskChan    chan Task
	resultChan  chan Result
	processFunc ProcessFunc
	wg          sync.WaitGroup
	stopFlag    int32 // Atomic flag for early termination
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// NewPool creates a worker pool. processFunc is required; the defaults are
// one worker and a buffer of 32 tasks.
func NewPool(processFunc ProcessFunc, opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers:  1,
		bufferSize:  32,
		processFunc: processFunc,
	}
	for _, opt := range opts {
		opt(p)
	}
	// Create channels after options are applied
	p.taskChan = make(chan Task, p.bufferSize)
	p.resultChan = make(chan Result, p.bufferSize)
	return p
}

// Start starts the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker processes tasks from the task channel until it is closed.
func (p *Pool) worker() {
	defer p.wg.Done()

	for task := range p.taskChan {
		if p.IsStopped() {
			continue // Drain channel without processing
		}
		p.resultChan <- p.processFunc(task)
	}
}

// Submit submits a task for processing.
// This may block if the task channel buffer is full.
func (p *Pool) Submit(task Task) {
	p.taskChan <- task
}

// Stop signals workers to stop processing new tasks.
// Tasks already in the channel will be drained but not processed.
func (p *Pool) Stop() {
	atomic.StoreInt32(&p.stopFlag, 1)
}

// IsStopped returns true if the pool has been stopped.
func (p *Pool) IsStopped() bool {
	return atomic.LoadInt32(&p.stopFlag) != 0
}

// Close closes the task channel and waits for all workers to finish.
// After Close returns, the result channel is closed too.
func (p *Pool) Close() {
	close(p.taskChan)
	p.wg.Wait()
	close(p.resultChan)
}

// Results returns the result channel for reading processed counts.
func (p *Pool) Results() <-chan Result {
	return p.resultChan
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}
