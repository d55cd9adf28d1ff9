package pipeline

import (
	"github.com/born-ml/feed/internal/batch"
	"github.com/born-ml/feed/internal/pool"
)

// Workspace carries everything an operator needs for one Setup/Run cycle:
// the input batch, the pre-allocated output batch, named per-sample tensor
// arguments, and the worker pool. Nothing in a workspace outlives the batch.
type Workspace struct {
	Input  *batch.Batch
	Output *batch.Batch
	Pool   *pool.Pool

	argInputs map[string]*batch.Batch
}

// NewWorkspace creates a workspace around one input batch.
func NewWorkspace(in *batch.Batch, p *pool.Pool) *Workspace {
	return &Workspace{Input: in, Pool: p}
}

// SetArgInput attaches a per-sample tensor argument under the given name.
// The batch must hold one rank-1 tensor per input sample.
func (ws *Workspace) SetArgInput(name string, b *batch.Batch) {
	if ws.argInputs == nil {
		ws.argInputs = make(map[string]*batch.Batch)
	}
	ws.argInputs[name] = b
}

// ArgInput returns the per-sample tensor argument registered under name.
func (ws *Workspace) ArgInput(name string) (*batch.Batch, bool) {
	b, ok := ws.argInputs[name]
	return b, ok
}
