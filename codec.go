package ytdtex

import (
	"strings"

	"github.com/woozymasta/bcn"
)

// Codec is a block-compression codec a container can carry.
type Codec uint8

const (
	// CodecBC1 is DXT1, 8 bytes per 4x4 block.
	CodecBC1 Codec = iota
	// CodecBC2 is DXT3, explicit alpha.
	CodecBC2
	// CodecBC3 is DXT5, interpolated alpha.
	CodecBC3
	// CodecBC4 is ATI1, single channel.
	CodecBC4
	// CodecBC5 is ATI2, two channels.
	CodecBC5
)

// ParseCodec resolves an archive format name (e.g. "D3DFMT_DXT5", "BC3_UNORM")
// into a Codec. Checks run in a fixed order and the last match wins, so a name
// matching several patterns resolves to the later one. Unknown names fall back
// to BC1.
func ParseCodec(tag string) Codec {
	c := CodecBC1
	if strings.Contains(tag, "DXT3") || strings.Contains(tag, "BC2") {
		c = CodecBC2
	}
	if strings.Contains(tag, "DXT5") || strings.Contains(tag, "BC3") {
		c = CodecBC3
	}
	if strings.Contains(tag, "ATI1") || strings.Contains(tag, "BC4") {
		c = CodecBC4
	}
	if strings.Contains(tag, "ATI2") || strings.Contains(tag, "BC5") {
		c = CodecBC5
	}

	return c
}

// FourCC returns the four-character code written into the pixel format block.
func (c Codec) FourCC() string {
	switch c {
	case CodecBC2:
		return "DXT3"
	case CodecBC3:
		return "DXT5"
	case CodecBC4:
		return "ATI1"
	case CodecBC5:
		return "ATI2"
	default:
		return "DXT1"
	}
}

// String implements fmt.Stringer.
func (c Codec) String() string {
	switch c {
	case CodecBC1:
		return "BC1"
	case CodecBC2:
		return "BC2"
	case CodecBC3:
		return "BC3"
	case CodecBC4:
		return "BC4"
	case CodecBC5:
		return "BC5"
	default:
		return "BC?"
	}
}

// BlockSize returns the encoded size of one 4x4 block in bytes.
func (c Codec) BlockSize() int {
	switch c {
	case CodecBC1, CodecBC4:
		return 8
	default:
		return 16
	}
}

// linearBlockSize is the block size used for the header's linear size field.
// Only DXT1 counts as 8 bytes there; ATI1 is counted as 16.
func (c Codec) linearBlockSize() uint64 {
	if c.FourCC() == "DXT1" {
		return 8
	}

	return 16
}

// TopLevelSize returns the payload size of a width x height level.
func (c Codec) TopLevelSize(width, height int) int {
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4

	return blocksW * blocksH * c.BlockSize()
}

// LevelSize is TopLevelSize for untrusted header dimensions. It returns
// ErrSizeOverflow when the size does not fit in an int.
func (c Codec) LevelSize(width, height uint32) (int, error) {
	blocks := ((uint64(width) + 3) / 4) * ((uint64(height) + 3) / 4)
	block := uint64(c.BlockSize())
	if blocks > uint64(maxInt)/block {
		return 0, ErrSizeOverflow
	}

	return int(blocks * block), nil
}

// Format returns the matching bcn format.
func (c Codec) Format() bcn.Format {
	switch c {
	case CodecBC2:
		return bcn.FormatDXT3
	case CodecBC3:
		return bcn.FormatDXT5
	case CodecBC4:
		return bcn.FormatBC4
	case CodecBC5:
		return bcn.FormatBC5
	default:
		return bcn.FormatDXT1
	}
}

// CodecForFormat maps a bcn format back to a Codec.
func CodecForFormat(f bcn.Format) (Codec, bool) {
	switch f {
	case bcn.FormatDXT1:
		return CodecBC1, true
	case bcn.FormatDXT3:
		return CodecBC2, true
	case bcn.FormatDXT5:
		return CodecBC3, true
	case bcn.FormatBC4:
		return CodecBC4, true
	case bcn.FormatBC5:
		return CodecBC5, true
	default:
		return CodecBC1, false
	}
}

// CodecForFourCC maps a header FourCC to a Codec. Unlike ParseCodec it only
// accepts exact codes.
func CodecForFourCC(fourCC string) (Codec, bool) {
	switch fourCC {
	case "DXT1":
		return CodecBC1, true
	case "DXT2", "DXT3":
		return CodecBC2, true
	case "DXT4", "DXT5":
		return CodecBC3, true
	case "ATI1", "BC4U", "BC4S":
		return CodecBC4, true
	case "ATI2", "BC5U", "BC5S":
		return CodecBC5, true
	default:
		return CodecBC1, false
	}
}

// CodecForDXGI maps a DX10 extension DXGI format to a Codec.
func CodecForDXGI(dxgiFormat uint32) (Codec, bool) {
	switch dxgiFormat {
	case 70, 71, 72:
		return CodecBC1, true
	case 73, 74, 75:
		return CodecBC2, true
	case 76, 77, 78:
		return CodecBC3, true
	case 79, 80, 81:
		return CodecBC4, true
	case 82, 83, 84:
		return CodecBC5, true
	default:
		return CodecBC1, false
	}
}

func makeFourCC(s string) uint32 {
	var b [4]byte
	copy(b[:], s)

	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func fourCCString(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}
