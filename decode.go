package ytdtex

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/woozymasta/bcn"
)

// SurfaceFormat is the pixel format a Decoder reports for its output.
type SurfaceFormat uint8

const (
	// SurfaceUnknown is any format the adapter does not recognize.
	SurfaceUnknown SurfaceFormat = iota
	// SurfaceRGBA32 is 32-bit RGBA stored little-endian (B, G, R, A bytes).
	SurfaceRGBA32
	// SurfaceRGB24 is 24-bit RGB stored little-endian (B, G, R bytes).
	SurfaceRGB24
	// SurfaceR5G6B5 is 16-bit packed 5-6-5 RGB, little-endian.
	SurfaceR5G6B5
	// SurfaceRGB8 is 8 bits per pixel (luminance or palette index).
	SurfaceRGB8
)

// Surface is the raw output of a Decoder.
type Surface struct {
	Data   []byte
	Width  int
	Height int
	Stride int
	Format SurfaceFormat
}

// Decoder turns a complete DDS container into pixels. Implementations parse
// the header themselves.
type Decoder interface {
	DecodeSurface(container []byte) (*Surface, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(container []byte) (*Surface, error)

// DecodeSurface calls f(container).
func (f DecoderFunc) DecodeSurface(container []byte) (*Surface, error) {
	return f(container)
}

// Decode runs dec on the container and maps its surface to a DecodedImage.
// A nil dec uses BCnDecoder with default options. Every failure, including a
// panic inside the decoder, is reported as ErrDecodeFailed.
func Decode(container []byte, dec Decoder) (img *DecodedImage, err error) {
	if dec == nil {
		dec = BCnDecoder{}
	}

	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("%w: panic: %v", ErrDecodeFailed, r)
		}
	}()

	surface, err := dec.DecodeSurface(container)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	if surface == nil {
		return nil, fmt.Errorf("%w: decoder returned no surface", ErrDecodeFailed)
	}

	return &DecodedImage{
		Width:  surface.Width,
		Height: surface.Height,
		Layout: layoutFor(surface.Format),
		Stride: surface.Stride,
		Pix:    surface.Data,
	}, nil
}

func layoutFor(f SurfaceFormat) PixelLayout {
	switch f {
	case SurfaceRGB24:
		return LayoutBGR24
	case SurfaceRGBA32:
		return LayoutBGRA32
	case SurfaceR5G6B5:
		return LayoutBGR565
	default:
		return LayoutBGRA32
	}
}

// BCnDecoder decodes the top level of BC1..BC5 containers with bcn.
type BCnDecoder struct {
	// Options are passed to the BCn decoder (e.g. Workers).
	Options *bcn.DecodeOptions
}

// DecodeSurface implements Decoder. The result is SurfaceRGBA32.
func (d BCnDecoder) DecodeSurface(container []byte) (*Surface, error) {
	if len(container) < HeaderSize || !bytes.Equal(container[:4], ddsMagic) {
		return nil, ErrBadMagic
	}

	r := bytes.NewReader(container)

	header, err := bcn.ReadDDSHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadHeader, err)
	}

	dx10, err := bcn.ReadDDSHeaderDX10(r, header)
	if err != nil {
		return nil, fmt.Errorf("%w: DX10: %v", ErrReadHeader, err)
	}

	codec, name, ok := detectCodec(header, dx10)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	if header.Width == 0 || header.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, header.Width, header.Height)
	}
	width, err := intFromU32(header.Width)
	if err != nil {
		return nil, err
	}
	height, err := intFromU32(header.Height)
	if err != nil {
		return nil, err
	}

	expected, err := codec.LevelSize(header.Width, header.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %dx%d", err, codec, width, height)
	}

	payload := container[len(container)-r.Len():]
	if len(payload) < expected {
		return nil, fmt.Errorf("%w: %s %dx%d needs %d bytes, have %d",
			ErrTruncatedPayload, codec, width, height, expected, len(payload))
	}

	decoded, err := bcn.DecodeImageWithOptions(payload[:expected], width, height, codec.Format(), d.Options)
	if err != nil {
		return nil, err
	}

	data, stride := toBGRA(decoded)

	return &Surface{
		Data:   data,
		Width:  width,
		Height: height,
		Stride: stride,
		Format: SurfaceRGBA32,
	}, nil
}

// detectCodec resolves the codec from the pixel format FourCC or the DX10 extension.
func detectCodec(header *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) (Codec, string, bool) {
	if dx10 != nil {
		c, ok := CodecForDXGI(dx10.DXGIFormat)
		return c, fmt.Sprintf("DXGI %d", dx10.DXGIFormat), ok
	}

	if (header.PixelFormat.Flags & bcn.DDSPFFourCC) == 0 {
		return CodecBC1, "non-FourCC pixel format", false
	}

	fourCC := fourCCString(header.PixelFormat.FourCC)
	c, ok := CodecForFourCC(fourCC)

	return c, fourCC, ok
}

// toBGRA packs an image into tightly strided B, G, R, A bytes.
func toBGRA(img image.Image) ([]byte, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	stride := w * 4
	out := make([]byte, stride*h)

	if n, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			src := n.Pix[y*n.Stride : y*n.Stride+stride]
			dst := out[y*stride : (y+1)*stride]
			for i := 0; i < stride; i += 4 {
				dst[i] = src[i+2]
				dst[i+1] = src[i+1]
				dst[i+2] = src[i]
				dst[i+3] = src[i+3]
			}
		}
		return out, stride
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := y*stride + x*4
			out[i] = c.B
			out[i+1] = c.G
			out[i+2] = c.R
			out[i+3] = c.A
		}
	}

	return out, stride
}
