package edds

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/ytdtex"
)

// ReadConfig reads EDDS file dimensions without touching level data.
func ReadConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	header, _, err := readEDDSHeaders(f)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		Width:      int(header.Width),
		Height:     int(header.Height),
		ColorModel: color.NRGBAModel,
	}, nil
}

// ReadRecord reads an EDDS file and returns its largest level as a texture record.
func ReadRecord(path string) (ytdtex.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return ytdtex.Record{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadRecordFrom(f)
}

// ReadRecordFrom reads an EDDS stream positioned at its magic. The record's
// FormatTag is the codec FourCC and MipLevels the header's level count; only
// the largest level is decompressed.
func ReadRecordFrom(r io.ReadSeeker) (ytdtex.Record, error) {
	header, dx10, err := readEDDSHeaders(r)
	if err != nil {
		return ytdtex.Record{}, err
	}

	codec, err := detectCodec(header, dx10)
	if err != nil {
		return ytdtex.Record{}, err
	}

	levels := uint32(1)
	if (header.Caps&bcn.DDSCapsMipmap) != 0 && header.MipMapCount > 0 {
		levels = header.MipMapCount
	}
	if uint64(levels) > uint64(maxMipLevels(int(header.Width), int(header.Height))) {
		return ytdtex.Record{}, fmt.Errorf("%w: %d for %dx%d", ErrTooManyLevels, levels, header.Width, header.Height)
	}

	expected, err := codec.LevelSize(header.Width, header.Height)
	if err != nil {
		return ytdtex.Record{}, fmt.Errorf("%w: %dx%d", ErrSizeOverflow, header.Width, header.Height)
	}

	payload, err := readLargestLevel(r, levels, expected)
	if err != nil {
		payload, err = readLegacySingleBlock(r, dx10, expected)
		if err != nil {
			return ytdtex.Record{}, err
		}
	}

	return ytdtex.Record{
		Width:     header.Width,
		Height:    header.Height,
		MipLevels: levels,
		FormatTag: codec.FourCC(),
		Payload:   payload,
	}, nil
}

// readLargestLevel walks the block table (smallest level first) and inflates
// only the last body.
func readLargestLevel(r io.ReadSeeker, levels uint32, expected int) ([]byte, error) {
	table, err := readBlockTable(r, levels)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadBlockTable, err)
	}

	last := len(table) - 1
	for i := 0; i < last; i++ {
		if _, err := r.Seek(int64(table[i].Size), io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("%w: block %d: %v", ErrSkipBlockBody, i, err)
		}
	}

	block, err := readBlockBody(r, table[last])
	if err != nil {
		return nil, err
	}

	data, err := decompressBlock(block, expected)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressBlock, err)
	}
	if len(data) != expected {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrLevelSizeMismatch, expected, len(data))
	}

	return data, nil
}

// readLegacySingleBlock handles older files that store one payload blob right
// after the header instead of a block table. The blob is tried as an LZ4
// stream first and accepted raw when its size already matches the top level.
func readLegacySingleBlock(r io.ReadSeeker, dx10 *bcn.DDSHeaderDX10, expected int) ([]byte, error) {
	offset := int64(ytdtex.HeaderSize)
	if dx10 != nil {
		offset += 20
	}
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeekDataStart, err)
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadRemainingData, err)
	}

	size, err := i32FromInt(len(rest))
	if err != nil {
		return nil, err
	}

	data, err := decompressBlock(&Block{Magic: BlockMagicLZ4, Size: size, Data: rest}, expected)
	if err == nil {
		return data, nil
	}
	if len(rest) == expected {
		return rest, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrParseSingleBlock, err)
}

func readEDDSHeaders(r io.Reader) (*bcn.DDSHeader, *bcn.DDSHeaderDX10, error) {
	header, err := bcn.ReadDDSHeader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDDSHeaderRead, err)
	}

	dx10, err := bcn.ReadDDSHeaderDX10(r, header)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDDSDX10Read, err)
	}

	return header, dx10, nil
}
