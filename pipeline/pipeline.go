// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package pipeline provides the public API for composing feed pipelines:
// batches, the operator contract, per-batch workspaces, generalized operator
// arguments, and the runner that drives operators over a batch stream.
//
// Example:
//
//	op := ops.NewGaussianBlur(ops.WithSigma(1.5))
//	runner := pipeline.NewRunner(op, pipeline.NewPool(runtime.NumCPU()), 1)
//	out, err := runner.Process(in)
package pipeline

import (
	"github.com/born-ml/feed/internal/batch"
	"github.com/born-ml/feed/internal/pipeline"
	"github.com/born-ml/feed/internal/pool"
	"github.com/born-ml/feed/internal/tensor"
)

// Batch is an ordered collection of sample tensors sharing element type and
// layout but not shape.
type Batch = batch.Batch

// NewBatch creates a batch from the given samples.
func NewBatch(layout string, samples ...*tensor.RawTensor) (*Batch, error) {
	return batch.New(layout, samples...)
}

// Operator is a batch-transforming pipeline stage with a Setup/Run cycle
// invoked exactly once per batch by the scheduler.
type Operator = pipeline.Operator

// OutputDesc describes an operator output: per-sample shapes and dtype.
type OutputDesc = pipeline.OutputDesc

// Workspace carries the input, output and arguments of one batch.
type Workspace = pipeline.Workspace

// NewWorkspace creates a workspace around one input batch.
func NewWorkspace(in *Batch, p *Pool) *Workspace {
	return pipeline.NewWorkspace(in, p)
}

// Arg is a generalized operator argument: scalar, per-axis, or per-sample.
type Arg[T tensor.DType] = pipeline.Arg[T]

// Scalar creates an argument broadcast to every data axis.
func Scalar[T tensor.DType](v T) Arg[T] {
	return pipeline.Scalar(v)
}

// PerAxis creates an argument with one value per data axis.
func PerAxis[T tensor.DType](values ...T) Arg[T] {
	return pipeline.PerAxis(values...)
}

// Pool is the fixed-size worker pool operators run their work units on.
type Pool = pool.Pool

// NewPool creates a pool with the given worker count.
func NewPool(numThreads int) *Pool {
	return pool.New(numThreads)
}

// Source yields input batches; Next returns io.EOF after the last one.
type Source = pipeline.Source

// Sink consumes output batches.
type Sink = pipeline.Sink

// Runner drives one operator over a stream of batches.
type Runner = pipeline.Runner

// NewRunner creates a runner executing op on the given pool, reading up to
// prefetch batches ahead of the compute stage.
func NewRunner(op Operator, p *Pool, prefetch int) *Runner {
	return pipeline.NewRunner(op, p, prefetch)
}

// AllocOutput allocates an output batch matching desc, carrying over the
// input batch's layout tag.
func AllocOutput(desc OutputDesc, in *Batch) (*Batch, error) {
	return pipeline.AllocOutput(desc, in)
}
