// Package pipeline defines the operator contract, the per-batch workspace,
// and the generalized argument machinery shared by feed operators.
package pipeline

import (
	"fmt"

	"github.com/born-ml/feed/internal/batch"
	"github.com/born-ml/feed/internal/tensor"
)

// OutputDesc describes one operator output: its per-sample shapes and the
// element type the output batch must be allocated with.
type OutputDesc struct {
	Shapes []tensor.Shape
	DType  tensor.DataType
}

// Operator is a batch-transforming pipeline stage. The external scheduler
// invokes Setup and Run exactly once per batch, in that order; the operator
// never initiates its own batch boundaries.
//
// Setup validates arguments and layout, prepares all per-batch state and
// returns the output description. Run performs the transformation into the
// workspace's pre-allocated output. Any error from either call is fatal for
// the whole batch; there are no partial results.
type Operator interface {
	Setup(ws *Workspace) (OutputDesc, error)
	Run(ws *Workspace) error
}

// AllocOutput allocates an output batch matching desc, carrying over the
// input batch's layout tag.
func AllocOutput(desc OutputDesc, in *batch.Batch) (*batch.Batch, error) {
	samples := make([]*tensor.RawTensor, len(desc.Shapes))
	for i, shape := range desc.Shapes {
		t, err := tensor.NewRaw(shape, desc.DType)
		if err != nil {
			return nil, fmt.Errorf("allocating output sample %d: %w", i, err)
		}
		samples[i] = t
	}
	return batch.New(in.Layout(), samples...)
}
