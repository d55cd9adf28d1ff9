package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/born-ml/feed/internal/batch"
	"github.com/born-ml/feed/internal/pool"
)

// Source yields input batches. Next returns io.EOF after the last batch.
type Source interface {
	Next() (*batch.Batch, error)
}

// Sink consumes output batches.
type Sink func(*batch.Batch) error

// Runner drives one operator over a stream of batches: it prefetches from
// the source, runs the operator's Setup/Run cycle per batch, and hands the
// outputs to the sink in order. A failed batch aborts the whole run; the
// operator layer itself never retries.
type Runner struct {
	op       Operator
	pool     *pool.Pool
	prefetch int
}

// NewRunner creates a runner executing op with the given worker pool.
// prefetch is the number of input batches read ahead of the compute stage.
func NewRunner(op Operator, p *pool.Pool, prefetch int) *Runner {
	if prefetch < 1 {
		prefetch = 1
	}
	return &Runner{op: op, pool: p, prefetch: prefetch}
}

// Process runs a single batch through the operator and returns its output.
func (r *Runner) Process(in *batch.Batch) (*batch.Batch, error) {
	ws := NewWorkspace(in, r.pool)
	return r.ProcessWorkspace(ws)
}

// ProcessWorkspace runs one prepared workspace (input plus any per-sample
// tensor arguments) through the operator.
func (r *Runner) ProcessWorkspace(ws *Workspace) (*batch.Batch, error) {
	desc, err := r.op.Setup(ws)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	out, err := AllocOutput(desc, ws.Input)
	if err != nil {
		return nil, err
	}
	ws.Output = out
	if err := r.op.Run(ws); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	return ws.Output, nil
}

// Run pulls batches from src until io.EOF, processes each, and passes the
// results to sink. The source is read concurrently with compute so decode
// and transform overlap; outputs reach the sink in source order.
func (r *Runner) Run(ctx context.Context, src Source, sink Sink) error {
	g, ctx := errgroup.WithContext(ctx)
	inputs := make(chan *batch.Batch, r.prefetch)

	g.Go(func() error {
		defer close(inputs)
		for {
			b, err := src.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("source: %w", err)
			}
			select {
			case inputs <- b:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	g.Go(func() error {
		for in := range inputs {
			out, err := r.Process(in)
			if err != nil {
				return err
			}
			if err := sink(out); err != nil {
				return fmt.Errorf("sink: %w", err)
			}
		}
		return nil
	})

	return g.Wait()
}
