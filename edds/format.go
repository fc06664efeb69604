package edds

import (
	"fmt"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/ytdtex"
)

// detectCodec resolves the block codec of an EDDS header. Uncompressed
// formats (RGBA8, BGRA8, luminance) are reported as unsupported.
func detectCodec(header *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) (ytdtex.Codec, error) {
	if dx10 != nil {
		c, ok := ytdtex.CodecForDXGI(dx10.DXGIFormat)
		if !ok {
			return 0, fmt.Errorf("%w: DXGI %d", ErrUnsupportedFormat, dx10.DXGIFormat)
		}
		return c, nil
	}

	pf := header.PixelFormat
	if (pf.Flags & bcn.DDSPFFourCC) == 0 {
		return 0, fmt.Errorf("%w: flags 0x%x, %d bpp", ErrUnsupportedFormat, pf.Flags, pf.RGBBitCount)
	}

	fourCC := intToFourCC(pf.FourCC)
	c, ok := ytdtex.CodecForFourCC(fourCC)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, fourCC)
	}

	return c, nil
}

func intToFourCC(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}

func makeFourCC(s string) uint32 {
	return uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
}

func enfusionReserved1() [11]uint32 {
	return [11]uint32{
		0,
		0x31464e45, // "ENF1"
		0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
}

// makeDDSHeader builds an Enfusion-flavoured header for a block-compressed chain.
func makeDDSHeader(width, height, levels uint32, codec ytdtex.Codec) *bcn.DDSHeader {
	flags := uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth |
		bcn.DDSFlagPixelFormat | bcn.DDSFlagLinearSize)
	caps := uint32(bcn.DDSCapsTexture)
	if levels > 1 {
		flags |= bcn.DDSFlagMipmapCount
		caps |= bcn.DDSCapsComplex | bcn.DDSCapsMipmap
	}

	hdr := &bcn.DDSHeader{
		Size:        bcn.DDSHeaderSize,
		Flags:       flags,
		Height:      height,
		Width:       width,
		Depth:       1,
		MipMapCount: levels,
		Reserved1:   enfusionReserved1(),
		Caps:        caps,
	}
	hdr.PixelFormat.Size = bcn.DDSPixelFormatSize
	hdr.PixelFormat.Flags = bcn.DDSPFFourCC
	hdr.PixelFormat.FourCC = makeFourCC(codec.FourCC())

	return hdr
}
