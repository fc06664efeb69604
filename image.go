package ytdtex

import (
	"fmt"
	"image"
)

// PixelLayout is the byte layout of DecodedImage pixels.
type PixelLayout uint8

const (
	// LayoutBGRA32 is 4 bytes per pixel in B, G, R, A order.
	LayoutBGRA32 PixelLayout = iota
	// LayoutBGR24 is 3 bytes per pixel in B, G, R order.
	LayoutBGR24
	// LayoutBGR565 is 2 bytes per pixel, little-endian 5-6-5 with red in the high bits.
	LayoutBGR565
)

// BytesPerPixel returns the pixel size of the layout.
func (l PixelLayout) BytesPerPixel() int {
	switch l {
	case LayoutBGR24:
		return 3
	case LayoutBGR565:
		return 2
	default:
		return 4
	}
}

// String implements fmt.Stringer.
func (l PixelLayout) String() string {
	switch l {
	case LayoutBGR24:
		return "Bgr24"
	case LayoutBGR565:
		return "Bgr565"
	default:
		return "Bgra32"
	}
}

// DecodedImage is a raster ready to hand to a display toolkit.
type DecodedImage struct {
	Pix    []byte
	Width  int
	Height int
	// Stride is the row size in bytes as reported by the decoder.
	Stride int
	Layout PixelLayout
}

// Image converts the raster to an NRGBA image.
func (d *DecodedImage) Image() (*image.NRGBA, error) {
	bpp := d.Layout.BytesPerPixel()
	if d.Width < 0 || d.Height < 0 || d.Stride < d.Width*bpp {
		return nil, fmt.Errorf("%w: %dx%d stride %d", ErrShortPixels, d.Width, d.Height, d.Stride)
	}
	if d.Height > 0 && len(d.Pix) < (d.Height-1)*d.Stride+d.Width*bpp {
		return nil, fmt.Errorf("%w: have %d bytes for %dx%d stride %d",
			ErrShortPixels, len(d.Pix), d.Width, d.Height, d.Stride)
	}

	out := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	for y := 0; y < d.Height; y++ {
		row := d.Pix[y*d.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < d.Width; x++ {
			o := x * 4
			switch d.Layout {
			case LayoutBGR24:
				p := row[x*3:]
				dst[o], dst[o+1], dst[o+2], dst[o+3] = p[2], p[1], p[0], 0xff
			case LayoutBGR565:
				v := uint16(row[x*2]) | uint16(row[x*2+1])<<8
				dst[o] = expand5(uint8(v >> 11))
				dst[o+1] = expand6(uint8(v>>5) & 0x3f)
				dst[o+2] = expand5(uint8(v) & 0x1f)
				dst[o+3] = 0xff
			default:
				p := row[x*4:]
				dst[o], dst[o+1], dst[o+2], dst[o+3] = p[2], p[1], p[0], p[3]
			}
		}
	}

	return out, nil
}

func expand5(v uint8) uint8 { return v<<3 | v>>2 }
func expand6(v uint8) uint8 { return v<<2 | v>>4 }
