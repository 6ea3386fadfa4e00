package bitmap

import (
	"github.com/mrjoshuak/go-exrcodec/internal/xdr"
)

// ConvertToRGBAF converts a bitmap of any supported pixel format into a
// 128-bit float RGBA bitmap. Integer components are scaled to [0, 1];
// float components pass through unchanged. Grayscale sources replicate
// their value across R, G and B; sources without an alpha channel get
// an opaque alpha of 1. An RGBAF source is cloned.
func ConvertToRGBAF(dib *Bitmap) (*Bitmap, error) {
	if !dib.HasPixels() {
		return nil, ErrNoPixels
	}

	src := dib

	// Check for allowed conversions
	switch dib.Type {
	case TypeBitmap:
		// Byte-per-component images convert from the 32-bit BGRA form
		if dib.BPP != 32 {
			promoted, err := convertTo32Bits(dib)
			if err != nil {
				return nil, err
			}
			src = promoted
		}
	case TypeUInt16, TypeRGB16, TypeRGBA16, TypeFloat, TypeRGBF:
	case TypeRGBAF:
		return dib.Clone(), nil
	default:
		return nil, ErrUnsupportedConversion
	}

	dst := New(TypeRGBAF, src.Width, src.Height, 0)

	for y := 0; y < src.Height; y++ {
		r := xdr.NewReader(src.row(y))
		w := xdr.NewWriter(dst.row(y))

		for x := 0; x < src.Width; x++ {
			var red, green, blue, alpha float32

			switch src.Type {
			case TypeBitmap:
				// 32-bit BGRA, scaled to [0..1]
				blue8, _ := r.Uint8()
				green8, _ := r.Uint8()
				red8, _ := r.Uint8()
				alpha8, _ := r.Uint8()

				red = float32(red8) / 255
				green = float32(green8) / 255
				blue = float32(blue8) / 255
				alpha = float32(alpha8) / 255

			case TypeUInt16:
				v, _ := r.Uint16()

				value := float32(v) / 65535
				red, green, blue = value, value, value
				alpha = 1

			case TypeRGB16:
				red16, _ := r.Uint16()
				green16, _ := r.Uint16()
				blue16, _ := r.Uint16()

				red = float32(red16) / 65535
				green = float32(green16) / 65535
				blue = float32(blue16) / 65535
				alpha = 1

			case TypeRGBA16:
				red16, _ := r.Uint16()
				green16, _ := r.Uint16()
				blue16, _ := r.Uint16()
				alpha16, _ := r.Uint16()

				red = float32(red16) / 65535
				green = float32(green16) / 65535
				blue = float32(blue16) / 65535
				alpha = float32(alpha16) / 65535

			case TypeFloat:
				// Grayscale channel copied to R, G and B
				value, _ := r.Float32()
				red, green, blue = value, value, value
				alpha = 1

			case TypeRGBF:
				red, _ = r.Float32()
				green, _ = r.Float32()
				blue, _ = r.Float32()
				alpha = 1
			}

			w.Float32(red)
			w.Float32(green)
			w.Float32(blue)
			w.Float32(alpha)
		}
	}

	return dst, nil
}

// convertTo32Bits promotes an 8- or 24-bit TypeBitmap image to the
// 32-bit BGRA form. 8-bit images are treated as grayscale; 24-bit
// images are BGR. Alpha becomes fully opaque.
func convertTo32Bits(dib *Bitmap) (*Bitmap, error) {
	switch dib.BPP {
	case 32:
		return dib, nil
	case 8, 24:
	default:
		return nil, ErrUnsupportedConversion
	}

	dst := New(TypeBitmap, dib.Width, dib.Height, 32)

	for y := 0; y < dib.Height; y++ {
		srcRow := dib.row(y)
		dstRow := dst.row(y)

		switch dib.BPP {
		case 8:
			for x := 0; x < dib.Width; x++ {
				v := srcRow[x]
				p := dstRow[x*4:]
				p[idxBlue] = v
				p[idxGreen] = v
				p[idxRed] = v
				p[idxAlpha] = 0xFF
			}

		case 24:
			for x := 0; x < dib.Width; x++ {
				s := srcRow[x*3:]
				p := dstRow[x*4:]
				p[idxBlue] = s[idxBlue]
				p[idxGreen] = s[idxGreen]
				p[idxRed] = s[idxRed]
				p[idxAlpha] = 0xFF
			}
		}
	}

	return dst, nil
}
