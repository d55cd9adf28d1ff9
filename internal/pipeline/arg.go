package pipeline

import (
	"fmt"

	"github.com/born-ml/feed/internal/tensor"
)

// Arg is a generalized operator argument: a constant scalar, a constant
// per-axis sequence, or (when a tensor input of the same name is attached to
// the workspace) a per-sample runtime value. The constant form is fixed at
// operator construction; the tensor form wins at resolution time.
type Arg[T tensor.DType] struct {
	values []T
}

// Scalar creates an argument holding a single value, broadcast to every axis.
func Scalar[T tensor.DType](v T) Arg[T] {
	return Arg[T]{values: []T{v}}
}

// PerAxis creates an argument holding one value per data axis.
func PerAxis[T tensor.DType](values ...T) Arg[T] {
	return Arg[T]{values: append([]T(nil), values...)}
}

// ResolveArg fills dst with the value of the named argument for one sample.
//
// Resolution order, first match wins:
//  1. A tensor input named name attached to the workspace: the per-sample
//     tensor must be rank-1 with length 1 (broadcast) or len(dst).
//  2. The constant supplied at construction: length 1 is broadcast, any
//     other length must equal len(dst) exactly.
func ResolveArg[T tensor.DType](dst []T, name string, arg Arg[T], sample int, ws *Workspace) error {
	if b, ok := ws.ArgInput(name); ok {
		if sample >= b.Len() {
			return fmt.Errorf("argument %q has %d samples, but sample %d was requested", name, b.Len(), sample)
		}
		t := b.Sample(sample)
		if t.DType() != tensor.Of[T]() {
			return fmt.Errorf("argument %q for sample %d has dtype %s, expected %s",
				name, sample, t.DType(), tensor.Of[T]())
		}
		if len(t.Shape()) != 1 {
			return fmt.Errorf("argument %q for sample %d is expected to be 1D, got: %dD",
				name, sample, len(t.Shape()))
		}
		n := t.Shape()[0]
		if n != 1 && n != len(dst) {
			return fmt.Errorf("argument %q for sample %d is expected to have shape equal to {1} or {%d}, got: %v",
				name, sample, len(dst), t.Shape())
		}
		values := tensor.Values[T](t)
		if n == 1 {
			for i := range dst {
				dst[i] = values[0]
			}
		} else {
			copy(dst, values)
		}
		return nil
	}

	switch len(arg.values) {
	case 1:
		for i := range dst {
			dst[i] = arg.values[0]
		}
	case len(dst):
		copy(dst, arg.values)
	default:
		return fmt.Errorf("argument %q must have 1 or %d values, got %d", name, len(dst), len(arg.values))
	}
	return nil
}
