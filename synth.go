package ytdtex

import (
	"bytes"
	"fmt"

	"github.com/woozymasta/bcn"
)

// HeaderSize is the size of the emitted header: magic plus the 124-byte DDS header.
const HeaderSize = 128

// Record is one texture as handed over by an archive reader.
type Record struct {
	// FormatTag is the archive's own format name, e.g. "D3DFMT_DXT5".
	FormatTag string
	// Payload holds the block-compressed top mip level.
	Payload []byte
	// Width and Height are the top mip dimensions in pixels.
	Width  uint32
	Height uint32
	// MipLevels is the number of levels in the source asset.
	MipLevels uint32
}

// Codec parses the record's format tag.
func (r Record) Codec() Codec {
	return ParseCodec(r.FormatTag)
}

// Synthesize wraps the record's payload into a DDS container.
func Synthesize(rec Record) ([]byte, error) {
	return SynthesizeCodec(rec, rec.Codec())
}

// SynthesizeCodec wraps the record's payload into a DDS container using an
// already resolved codec; rec.FormatTag is ignored.
func SynthesizeCodec(rec Record, codec Codec) ([]byte, error) {
	if len(rec.Payload) == 0 {
		return nil, ErrEmptySource
	}

	header, err := makeDDSHeader(rec.Width, rec.Height, rec.MipLevels, codec)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(rec.Payload))

	if err := bcn.WriteDDSMagic(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteHeader, err)
	}
	if err := bcn.WriteDDSHeader(&buf, header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteHeader, err)
	}
	if buf.Len() != HeaderSize {
		return nil, fmt.Errorf("%w: %d", ErrHeaderSize, buf.Len())
	}

	buf.Write(rec.Payload)

	return buf.Bytes(), nil
}

// LinearSize returns the value stored in the header's pitch/linear size field:
// max(1, ceil(width/4)) * block size * height. The height is in pixels, not
// block rows, which overstates the real size; existing consumers expect it.
func LinearSize(width, height uint32, codec Codec) (uint32, error) {
	blocksW := (uint64(width) + 3) / 4
	if blocksW < 1 {
		blocksW = 1
	}

	return u32FromUint64(blocksW * codec.linearBlockSize() * uint64(height))
}

// makeDDSHeader builds the header for a single block-compressed top level.
func makeDDSHeader(width, height, mipLevels uint32, codec Codec) (*bcn.DDSHeader, error) {
	linearSize, err := LinearSize(width, height, codec)
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%d %s", err, width, height, codec)
	}

	flags := uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth |
		bcn.DDSFlagPixelFormat | bcn.DDSFlagMipmapCount | bcn.DDSFlagLinearSize)

	hdr := &bcn.DDSHeader{
		Size:              bcn.DDSHeaderSize,
		Flags:             flags,
		Height:            height,
		Width:             width,
		PitchOrLinearSize: linearSize,
		MipMapCount:       mipLevels,
		Caps:              uint32(bcn.DDSCapsTexture | bcn.DDSCapsMipmap),
	}
	hdr.PixelFormat.Size = bcn.DDSPixelFormatSize
	hdr.PixelFormat.Flags = bcn.DDSPFFourCC
	hdr.PixelFormat.FourCC = makeFourCC(codec.FourCC())

	return hdr, nil
}
