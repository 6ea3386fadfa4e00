package compression

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/mrjoshuak/go-exrcodec/exr"
)

// Pxr24 errors
var (
	ErrPXR24CompressionFailed   = errors.New("compression: PXR24 data compression (zlib) failed")
	ErrPXR24DecompressionFailed = errors.New("compression: PXR24 data decompression (zlib) failed")
	ErrPXR24NotEnoughData       = errors.New("compression: PXR24 input data are shorter than expected")
	ErrPXR24TooMuchData         = errors.New("compression: PXR24 input data are longer than expected")
)

// floatToFloat24 converts a 32-bit float to a 24-bit representation by
// rounding the significand to 15 bits. The 24-bit pattern is returned in
// the low bits of a uint32.
func floatToFloat24(f float32) uint32 {
	bits := math.Float32bits(f)

	// Disassemble into sign, exponent, and significand
	s := bits & 0x80000000
	e := bits & 0x7f800000
	m := bits & 0x007fffff

	if e == 0x7f800000 {
		if m != 0 {
			// NaN: keep the sign and the 15 leftmost significand bits.
			// If those bits are all zero the result would turn into an
			// infinity, so at least one bit must survive.
			m >>= 8
			i := (e >> 8) | m
			if m == 0 {
				i |= 1
			}
			return (s >> 8) | i
		}

		// Infinity
		return (s >> 8) | (e >> 8)
	}

	// Finite: round the significand to 15 bits
	i := ((e | m) + (m & 0x00000080)) >> 8

	if i >= 0x7f8000 {
		// The value was close to the largest finite float and rounding
		// overflowed into the exponent; truncate instead.
		i = (e | m) >> 8
	}

	return (s >> 8) | i
}

// float24ToFloat32 converts a 24-bit representation back to a 32-bit
// float. The low 8 bits of the significand come back as zero.
func float24ToFloat32(f24 uint32) float32 {
	return math.Float32frombits(f24 << 8)
}

// Pxr24Codec compresses and uncompresses scan-line blocks using the
// PXR24 scheme: pixel values become unsigned integers (FLOAT channels
// are first rounded to 24 bits, which is the lossy step), each value is
// replaced with the wraparound difference from its left neighbor, the
// difference bytes are transposed into per-position planes, and the
// plane stream is deflated.
//
// A codec owns two scratch buffers sized for the largest block it can
// see, so a single instance must not be used from concurrent goroutines.
type Pxr24Codec struct {
	channels exr.ChannelList

	minX int
	maxX int
	maxY int

	numScanLines    int
	maxScanLineSize int

	tmp []byte
	out []byte
}

// NewPxr24Codec creates a codec for blocks of up to numScanLines rows.
// channels must be in the order the pixel data follows; dataWindow
// bounds the coordinates a block may cover; maxScanLineSize is the
// largest number of bytes one row can occupy across all channels.
func NewPxr24Codec(channels exr.ChannelList, dataWindow exr.Box2i, maxScanLineSize, numScanLines int) *Pxr24Codec {
	maxInBytes := maxScanLineSize * numScanLines
	maxOutBytes := maxInBytes + int(math.Ceil(float64(maxInBytes)*0.01)) + 100

	return &Pxr24Codec{
		channels:        channels,
		minX:            int(dataWindow.Min.X),
		maxX:            int(dataWindow.Max.X),
		maxY:            int(dataWindow.Max.Y),
		numScanLines:    numScanLines,
		maxScanLineSize: maxScanLineSize,
		tmp:             make([]byte, maxInBytes),
		out:             make([]byte, maxOutBytes),
	}
}

// NumScanLines returns the maximum number of rows per compressed block.
func (c *Pxr24Codec) NumScanLines() int {
	return c.numScanLines
}

// Compress compresses a scan-line block whose first row is minY.
// The returned slice aliases the codec's output scratch and is valid
// until the next call on this codec.
func (c *Pxr24Codec) Compress(in []byte, minY int) ([]byte, error) {
	return c.CompressTile(in, exr.Box2i{
		Min: exr.V2i{X: int32(c.minX), Y: int32(minY)},
		Max: exr.V2i{X: int32(c.maxX), Y: int32(minY + c.numScanLines - 1)},
	})
}

// CompressTile compresses the pixel data covering r.
func (c *Pxr24Codec) CompressTile(in []byte, r exr.Box2i) ([]byte, error) {
	if len(in) == 0 {
		return c.out[:0], nil
	}

	minX := int(r.Min.X)
	maxX := min(int(r.Max.X), c.maxX)
	minY := int(r.Min.Y)
	maxY := min(int(r.Max.Y), c.maxY)

	tmpEnd := 0
	inIdx := 0

	for y := minY; y <= maxY; y++ {
		for _, ch := range c.channels {
			if exr.ModP(y, int(ch.YSampling)) != 0 {
				continue
			}

			n := exr.NumSamples(int(ch.XSampling), minX, maxX)
			previous := uint32(0)

			switch ch.Type {
			case exr.PixelTypeUint:
				// 4 planes with differencing
				p0 := tmpEnd
				p1 := p0 + n
				p2 := p1 + n
				p3 := p2 + n
				tmpEnd = p3 + n

				for j := 0; j < n; j++ {
					pixel := binary.LittleEndian.Uint32(in[inIdx:])
					inIdx += 4

					diff := pixel - previous
					previous = pixel

					c.tmp[p0+j] = byte(diff >> 24)
					c.tmp[p1+j] = byte(diff >> 16)
					c.tmp[p2+j] = byte(diff >> 8)
					c.tmp[p3+j] = byte(diff)
				}

			case exr.PixelTypeHalf:
				// 2 planes with differencing
				p0 := tmpEnd
				p1 := p0 + n
				tmpEnd = p1 + n

				for j := 0; j < n; j++ {
					pixel := uint32(binary.LittleEndian.Uint16(in[inIdx:]))
					inIdx += 2

					diff := pixel - previous
					previous = pixel

					c.tmp[p0+j] = byte(diff >> 8)
					c.tmp[p1+j] = byte(diff)
				}

			case exr.PixelTypeFloat:
				// Round to 24 bits, then 3 planes with differencing
				p0 := tmpEnd
				p1 := p0 + n
				p2 := p1 + n
				tmpEnd = p2 + n

				for j := 0; j < n; j++ {
					bits := binary.LittleEndian.Uint32(in[inIdx:])
					inIdx += 4

					pixel24 := floatToFloat24(math.Float32frombits(bits))

					diff := pixel24 - previous
					previous = pixel24

					c.tmp[p0+j] = byte(diff >> 16)
					c.tmp[p1+j] = byte(diff >> 8)
					c.tmp[p2+j] = byte(diff)
				}
			}
		}
	}

	size, err := zlibCompressTo(c.out, c.tmp[:tmpEnd])
	if err != nil {
		return nil, ErrPXR24CompressionFailed
	}

	return c.out[:size], nil
}

// Uncompress uncompresses a scan-line block whose first row is minY.
// The returned slice aliases the codec's output scratch and is valid
// until the next call on this codec.
func (c *Pxr24Codec) Uncompress(in []byte, minY int) ([]byte, error) {
	return c.UncompressTile(in, exr.Box2i{
		Min: exr.V2i{X: int32(c.minX), Y: int32(minY)},
		Max: exr.V2i{X: int32(c.maxX), Y: int32(minY + c.numScanLines - 1)},
	})
}

// UncompressTile uncompresses the pixel data covering r.
func (c *Pxr24Codec) UncompressTile(in []byte, r exr.Box2i) ([]byte, error) {
	if len(in) == 0 {
		return c.out[:0], nil
	}

	tmpSize, err := zlibDecompressTo(c.tmp, in)
	if err != nil {
		return nil, ErrPXR24DecompressionFailed
	}

	minX := int(r.Min.X)
	maxX := min(int(r.Max.X), c.maxX)
	minY := int(r.Min.Y)
	maxY := min(int(r.Max.Y), c.maxY)

	tmpEnd := 0
	w := 0

	for y := minY; y <= maxY; y++ {
		for _, ch := range c.channels {
			if exr.ModP(y, int(ch.YSampling)) != 0 {
				continue
			}

			n := exr.NumSamples(int(ch.XSampling), minX, maxX)
			pixel := uint32(0)

			switch ch.Type {
			case exr.PixelTypeUint:
				p0 := tmpEnd
				p1 := p0 + n
				p2 := p1 + n
				p3 := p2 + n
				tmpEnd = p3 + n

				if tmpEnd > tmpSize {
					return nil, ErrPXR24NotEnoughData
				}

				for j := 0; j < n; j++ {
					diff := uint32(c.tmp[p0+j])<<24 |
						uint32(c.tmp[p1+j])<<16 |
						uint32(c.tmp[p2+j])<<8 |
						uint32(c.tmp[p3+j])

					pixel += diff

					binary.LittleEndian.PutUint32(c.out[w:], pixel)
					w += 4
				}

			case exr.PixelTypeHalf:
				p0 := tmpEnd
				p1 := p0 + n
				tmpEnd = p1 + n

				if tmpEnd > tmpSize {
					return nil, ErrPXR24NotEnoughData
				}

				for j := 0; j < n; j++ {
					diff := uint32(c.tmp[p0+j])<<8 |
						uint32(c.tmp[p1+j])

					pixel += diff

					binary.LittleEndian.PutUint16(c.out[w:], uint16(pixel))
					w += 2
				}

			case exr.PixelTypeFloat:
				p0 := tmpEnd
				p1 := p0 + n
				p2 := p1 + n
				tmpEnd = p2 + n

				if tmpEnd > tmpSize {
					return nil, ErrPXR24NotEnoughData
				}

				for j := 0; j < n; j++ {
					// The three plane bytes land in bits 31..8; the low
					// byte stays zero, matching the quantization.
					diff := uint32(c.tmp[p0+j])<<24 |
						uint32(c.tmp[p1+j])<<16 |
						uint32(c.tmp[p2+j])<<8

					pixel += diff

					binary.LittleEndian.PutUint32(c.out[w:], pixel)
					w += 4
				}
			}
		}
	}

	if tmpEnd < tmpSize {
		return nil, ErrPXR24TooMuchData
	}

	return c.out[:w], nil
}
