package kernels

import (
	"fmt"

	"github.com/born-ml/feed/internal/tensor"
)

// Manager is the per-batch arena of kernel instances, indexed by
// (worker, sample). A sample's work units may land on several workers, but a
// given (worker, sample) slot is only ever touched by that worker, so
// instances need no locking. Nothing in a Manager outlives the batch it was
// built for; the execution engine creates a fresh one every Setup.
type Manager struct {
	factory func() Kernel

	setups    []setupArgs
	instances [][]Kernel // [worker][sample]
}

type setupArgs struct {
	elemShape   tensor.Shape
	windowSizes []int
}

// NewManager creates a manager for the given specialization key, sized for
// workers×samples instances. Fails if the key is outside the supported
// dispatch matrix.
func NewManager(key Key, workers, samples int) (*Manager, error) {
	factory, err := Resolve(key)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		factory:   factory,
		setups:    make([]setupArgs, samples),
		instances: make([][]Kernel, workers),
	}
	for w := range m.instances {
		m.instances[w] = make([]Kernel, samples)
	}
	return m, nil
}

// Setup records the element shape and window sizes for one sample and
// validates them against a probe instance, so invalid configurations fail
// here rather than inside a worker.
func (m *Manager) Setup(sample int, elemShape tensor.Shape, windowSizes []int) error {
	if sample < 0 || sample >= len(m.setups) {
		return fmt.Errorf("sample index %d out of range [0, %d)", sample, len(m.setups))
	}
	probe := m.factory()
	if err := probe.Setup(elemShape, windowSizes); err != nil {
		return fmt.Errorf("sample %d: %w", sample, err)
	}
	m.setups[sample] = setupArgs{
		elemShape:   elemShape.Clone(),
		windowSizes: append([]int(nil), windowSizes...),
	}
	// Keep the probe as worker 0's instance instead of throwing it away.
	m.instances[0][sample] = probe
	return nil
}

// Run executes the kernel for one (worker, sample) slot, creating the
// instance on first use by that worker.
func (m *Manager) Run(worker, sample int, out, in *tensor.RawTensor, windows [][]float32) error {
	if worker < 0 || worker >= len(m.instances) {
		return fmt.Errorf("worker index %d out of range [0, %d)", worker, len(m.instances))
	}
	if sample < 0 || sample >= len(m.setups) {
		return fmt.Errorf("sample index %d out of range [0, %d)", sample, len(m.setups))
	}
	k := m.instances[worker][sample]
	if k == nil {
		k = m.factory()
		args := m.setups[sample]
		if err := k.Setup(args.elemShape, args.windowSizes); err != nil {
			return fmt.Errorf("sample %d: %w", sample, err)
		}
		m.instances[worker][sample] = k
	}
	return k.Run(out, in, windows)
}
