// Package pool provides the fixed-size worker pool that runs operator work
// units. Units are collected with AddWork and executed together by RunAll,
// which blocks until every unit has finished. Each worker goroutine has a
// stable id for the duration of one RunAll, so callers can keep per-worker
// scratch state without locking.
package pool

import (
	"sort"
	"sync"
)

// Unit is one schedulable piece of work. The threadID argument identifies
// the worker executing it and stays in [0, Size()).
type Unit func(threadID int) error

// Pool runs batches of work units on a fixed number of workers.
// It is not safe for concurrent AddWork calls; the execution engine submits
// all units from a single goroutine before calling RunAll.
type Pool struct {
	numThreads int
	units      []unit
}

type unit struct {
	run  Unit
	cost int64
}

// New creates a pool with the given worker count. Counts below 1 are
// clamped to 1.
func New(numThreads int) *Pool {
	if numThreads < 1 {
		numThreads = 1
	}
	return &Pool{numThreads: numThreads}
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.numThreads
}

// AddWork queues one unit. The cost hint orders execution largest-first so
// big units don't straggle at the end of the batch.
func (p *Pool) AddWork(cost int64, fn Unit) {
	p.units = append(p.units, unit{run: fn, cost: cost})
}

// RunAll executes every queued unit and blocks until all have completed.
// The first error encountered is returned; remaining units still run, since
// a failed batch is discarded as a whole and workers cannot be interrupted.
// The queue is cleared regardless of outcome.
func (p *Pool) RunAll() error {
	units := p.units
	p.units = nil
	if len(units) == 0 {
		return nil
	}

	sort.SliceStable(units, func(i, j int) bool {
		return units[i].cost > units[j].cost
	})

	next := make(chan int, len(units))
	for i := range units {
		next <- i
	}
	close(next)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	workers := min(p.numThreads, len(units))
	for tid := 0; tid < workers; tid++ {
		wg.Add(1)
		go func(threadID int) {
			defer wg.Done()
			for i := range next {
				if err := units[i].run(threadID); err != nil {
					errOnce.Do(func() { firstErr = err })
				}
			}
		}(tid)
	}
	wg.Wait()
	return firstErr
}
