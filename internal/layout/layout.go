// Package layout classifies tensor axes into data, channel and frame roles
// based on the sample rank and an optional layout tag such as "HWC" or "FCHW".
package layout

import (
	"fmt"
	"strings"
)

// MaxDataAxes is the maximum number of data axes an operator kernel supports.
const MaxDataAxes = 3

// Axis markers recognized in layout tags. Every other letter denotes a data
// axis (height, width, depth, ...).
const (
	channelMarker = 'C'
	frameMarker   = 'F'
)

// DimDesc describes how a sample's axes split into a leading repeat prefix
// (frame and channel-first axes), the data axes the kernel convolves, and an
// optional trailing channel axis.
type DimDesc struct {
	AxesStart   int  // index of the first data axis
	AxesCount   int  // number of data axes (excludes channel and frame axes)
	HasChannels bool // true only for channel-last layouts
	IsSequence  bool // true when a leading prefix must be iterated as independent elements
}

// isChannelFirst reports whether the layout's leading axis is a channel axis.
func isChannelFirst(layout string) bool {
	return len(layout) > 0 && layout[0] == channelMarker
}

// isChannelLast reports whether the layout's trailing axis is a channel axis.
func isChannelLast(layout string) bool {
	return len(layout) > 0 && layout[len(layout)-1] == channelMarker
}

// isFrameFirst reports whether the layout's leading axis is a frame axis.
func isFrameFirst(layout string) bool {
	return len(layout) > 0 && layout[0] == frameMarker
}

// Parse classifies the axes of a sample with the given rank and layout tag.
//
// An empty layout means plain data: every axis is a data axis. A non-empty
// layout may carry one channel axis, either first or last, and a frame axis
// only within the leading prefix. Channel-first and frame axes are folded
// into the repeat prefix and iterated by the execution engine; only a
// channel-last axis is handled inside the kernel.
func Parse(ndim int, layout string) (DimDesc, error) {
	if layout == "" {
		// Plain data with no channel or frame axes.
		if ndim > MaxDataAxes {
			return DimDesc{}, fmt.Errorf(
				"input data with empty layout cannot have more than %d dimensions, got input with %d dimensions",
				MaxDataAxes, ndim)
		}
		return DimDesc{AxesStart: 0, AxesCount: ndim, HasChannels: false, IsSequence: false}, nil
	}
	if len(layout) != ndim {
		return DimDesc{}, fmt.Errorf("layout %q describes %d axes, but input has %d dimensions", layout, len(layout), ndim)
	}

	axesStart := 0
	axesCount := ndim
	hasChannels := isChannelLast(layout)
	if hasChannels {
		axesCount--
	}

	// Consume leading 'C' and 'F' markers into the repeat prefix.
	rest := layout
	for isChannelFirst(rest) || isFrameFirst(rest) {
		axesStart++
		axesCount--
		rest = rest[1:]
	}

	if !hasChannels && strings.ContainsRune(rest, channelMarker) {
		return DimDesc{}, fmt.Errorf("only channel-first or channel-last layouts are supported, got: %q", layout)
	}
	if strings.ContainsRune(rest, frameMarker) {
		return DimDesc{}, fmt.Errorf("for sequences, layout should begin with 'F' or 'CF', got: %q", layout)
	}
	if axesStart > 2 {
		return DimDesc{}, fmt.Errorf("found more than one occurrence of 'F' or 'C' axes in layout: %q", layout)
	}
	if axesCount > MaxDataAxes {
		return DimDesc{}, fmt.Errorf("too many dimensions, found: %d data axes, maximum supported is: %d", axesCount, MaxDataAxes)
	}
	if axesCount < 1 {
		return DimDesc{}, fmt.Errorf("no data axes left after classifying layout %q", layout)
	}

	return DimDesc{
		AxesStart:   axesStart,
		AxesCount:   axesCount,
		HasChannels: hasChannels,
		IsSequence:  axesStart != 0,
	}, nil
}
