// Package exr provides the channel and data-window model consumed by the
// HDR codecs in this module.
//
// A scan-line block hands a codec a contiguous run of pixel bytes,
// ordered by row and then by channel. The types here describe that
// layout: which channels exist, how each one is subsampled, and the
// integer window the rows cover.
package exr

import "sort"

// V2i represents a 2D integer vector.
type V2i struct {
	X, Y int32
}

// Box2i represents an axis-aligned 2D integer bounding box.
// Both corners are inclusive.
type Box2i struct {
	Min, Max V2i
}

// Width returns the width of the box.
func (b Box2i) Width() int32 {
	return b.Max.X - b.Min.X + 1
}

// Height returns the height of the box.
func (b Box2i) Height() int32 {
	return b.Max.Y - b.Min.Y + 1
}

// PixelType defines the data type for pixel channel values.
type PixelType uint32

const (
	// PixelTypeUint is a 32-bit unsigned integer.
	PixelTypeUint PixelType = 0
	// PixelTypeHalf is a 16-bit IEEE 754 half-precision float.
	PixelTypeHalf PixelType = 1
	// PixelTypeFloat is a 32-bit IEEE 754 single-precision float.
	PixelTypeFloat PixelType = 2
)

// String returns a string representation of the pixel type.
func (pt PixelType) String() string {
	switch pt {
	case PixelTypeUint:
		return "uint"
	case PixelTypeHalf:
		return "half"
	case PixelTypeFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Size returns the size in bytes of one pixel value.
func (pt PixelType) Size() int {
	switch pt {
	case PixelTypeUint:
		return 4
	case PixelTypeHalf:
		return 2
	case PixelTypeFloat:
		return 4
	default:
		return 0
	}
}

// Channel describes a single image channel.
type Channel struct {
	// Name is the channel name (e.g., "R", "G", "B", "A", "Z").
	Name string
	// Type is the pixel data type.
	Type PixelType
	// XSampling is the horizontal subsampling factor (1 = full resolution).
	XSampling int32
	// YSampling is the vertical subsampling factor (1 = full resolution).
	YSampling int32
	// PLinear indicates if the channel stores perceptually linear data.
	// This is a hint for display applications.
	PLinear bool
}

// NewChannel creates a new channel with the given name and type.
// XSampling and YSampling default to 1 (full resolution).
func NewChannel(name string, pixelType PixelType) Channel {
	return Channel{
		Name:      name,
		Type:      pixelType,
		XSampling: 1,
		YSampling: 1,
	}
}

// ChannelList is an ordered list of channels. The pixel data handed to
// a codec follows this order within each scan line.
type ChannelList []Channel

// Sort orders the channels by name, the order a scan-line block lays
// out its per-channel data.
func (cl ChannelList) Sort() {
	sort.Slice(cl, func(i, j int) bool {
		return cl[i].Name < cl[j].Name
	})
}
