// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops provides the public constructors for feed's pre-processing
// operators.
//
// Example:
//
//	blur := ops.NewGaussianBlur(ops.WithSigma(1.5))
//	runner := pipeline.NewRunner(blur, pipeline.NewPool(4), 1)
//	out, err := runner.Process(in)
package ops

import (
	"github.com/born-ml/feed/internal/ops/gaussian"
)

// GaussianBlur applies a separable gaussian blur to every sample of a batch.
// See the option functions for the argument surface.
type GaussianBlur = gaussian.Blur

// GaussianBlurOption configures a GaussianBlur at construction.
type GaussianBlurOption = gaussian.Option

// NewGaussianBlur creates a gaussian blur operator.
func NewGaussianBlur(opts ...GaussianBlurOption) *GaussianBlur {
	return gaussian.New(opts...)
}

// WithSigma sets a single sigma for all data axes.
var WithSigma = gaussian.WithSigma

// WithSigmaPerAxis sets one sigma per data axis, outermost to innermost.
var WithSigmaPerAxis = gaussian.WithSigmaPerAxis

// WithWindowSize sets a single window diameter for all data axes.
var WithWindowSize = gaussian.WithWindowSize

// WithWindowSizePerAxis sets one window diameter per data axis.
var WithWindowSizePerAxis = gaussian.WithWindowSizePerAxis

// WithOutputType overrides the output element type (input type or Float32).
var WithOutputType = gaussian.WithOutputType
