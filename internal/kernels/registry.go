package kernels

import (
	"fmt"

	"github.com/born-ml/feed/internal/layout"
	"github.com/born-ml/feed/internal/tensor"
)

// Key identifies one kernel specialization: the (input type, output type,
// data-axis count, channel presence) tuple resolved once per batch from the
// observed input.
type Key struct {
	In, Out     tensor.DataType
	Axes        int
	HasChannels bool
}

// String returns a compact description used in dispatch errors.
func (k Key) String() string {
	ch := "no channels"
	if k.HasChannels {
		ch = "channels"
	}
	return fmt.Sprintf("(%s -> %s, %d axes, %s)", k.In, k.Out, k.Axes, ch)
}

// specializations is the closed dispatch matrix. There is no runtime
// registration; the supported combinations are enumerated below and nothing
// else ever resolves.
var specializations = map[Key]func() Kernel{}

func register[Out, In element]() {
	for axes := 1; axes <= layout.MaxDataAxes; axes++ {
		for _, ch := range []bool{false, true} {
			key := Key{In: tensor.Of[In](), Out: tensor.Of[Out](), Axes: axes, HasChannels: ch}
			specializations[key] = func() Kernel { return newSepConv[Out, In](axes, ch) }
		}
	}
}

func init() {
	// Same-type variants for every supported input type.
	register[float32, float32]()
	register[float64, float64]()
	register[int32, int32]()
	register[uint8, uint8]()
	// Float32-output variants for the dtype override.
	register[float32, float64]()
	register[float32, int32]()
	register[float32, uint8]()
}

// inputSupported reports whether any specialization accepts the input type.
func inputSupported(dt tensor.DataType) bool {
	switch dt {
	case tensor.Float32, tensor.Float64, tensor.Int32, tensor.Uint8:
		return true
	default:
		return false
	}
}

// Resolve checks that key lies inside the supported matrix and returns its
// factory. Unsupported combinations fail with a descriptive error.
func Resolve(key Key) (func() Kernel, error) {
	if !inputSupported(key.In) {
		return nil, fmt.Errorf("unsupported data type: %s", key.In)
	}
	if key.Axes < 1 || key.Axes > layout.MaxDataAxes {
		return nil, fmt.Errorf("axis count out of supported range: %d", key.Axes)
	}
	factory, ok := specializations[key]
	if !ok {
		return nil, fmt.Errorf("no kernel specialization for %s", key)
	}
	return factory, nil
}
