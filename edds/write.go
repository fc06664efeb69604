package edds

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/ytdtex"
)

// WriteRecord writes the record's top level as a single-level EDDS file.
func WriteRecord(path string, rec ytdtex.Record, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	if err := WriteRecordTo(bw, rec, compress); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteBlockData, err)
	}

	return f.Close()
}

// WriteRecordTo writes the record's top level as a single-level EDDS stream.
// Bytes past the top level in rec.Payload are ignored.
func WriteRecordTo(w io.Writer, rec ytdtex.Record, compress bool) error {
	codec := rec.Codec()
	expected, err := codec.LevelSize(rec.Width, rec.Height)
	if err != nil {
		return fmt.Errorf("%w: %dx%d", ErrSizeOverflow, rec.Width, rec.Height)
	}
	if len(rec.Payload) < expected {
		return fmt.Errorf("%w: level 0: expected %d, got %d", ErrLevelSizeMismatch, expected, len(rec.Payload))
	}

	return WriteLevels(w, codec, int(rec.Width), int(rec.Height), [][]byte{rec.Payload[:expected]}, compress)
}

// WriteLevels writes an EDDS stream from pre-encoded levels ordered from
// largest to smallest. compress=false stores COPY blocks.
func WriteLevels(w io.Writer, codec ytdtex.Codec, width, height int, levels [][]byte, compress bool) error {
	if len(levels) == 0 {
		return ErrEmptyLevels
	}
	if limit := maxMipLevels(width, height); len(levels) > limit {
		return fmt.Errorf("%w: %d for %dx%d (max %d)", ErrTooManyLevels, len(levels), width, height, limit)
	}

	w32, err := u32FromInt(width)
	if err != nil {
		return err
	}
	h32, err := u32FromInt(height)
	if err != nil {
		return err
	}
	n32, err := u32FromInt(len(levels))
	if err != nil {
		return err
	}

	blocks := make([]*Block, len(levels))
	for i, level := range levels {
		expected := codec.TopLevelSize(mipDimension(width, i), mipDimension(height, i))
		if len(level) != expected {
			return fmt.Errorf("%w: level %d: expected %d, got %d", ErrLevelSizeMismatch, i, expected, len(level))
		}

		if compress {
			blocks[i], err = compressBlock(level)
			if err != nil {
				return fmt.Errorf("%w: level %d: %v", ErrCompressLevel, i, err)
			}
		} else {
			blocks[i], err = copyBlock(level)
			if err != nil {
				return err
			}
		}
	}

	if err := bcn.WriteDDSMagic(w); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHeader, err)
	}
	if err := bcn.WriteDDSHeader(w, makeDDSHeader(w32, h32, n32, codec)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHeader, err)
	}

	// table and bodies go smallest level first
	for i := len(blocks) - 1; i >= 0; i-- {
		if _, err := io.WriteString(w, blocks[i].Magic); err != nil {
			return fmt.Errorf("%w: level %d: %v", ErrWriteBlockTable, i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, blocks[i].Size); err != nil {
			return fmt.Errorf("%w: level %d: %v", ErrWriteBlockTable, i, err)
		}
	}
	for i := len(blocks) - 1; i >= 0; i-- {
		if err := writeBlockData(w, blocks[i]); err != nil {
			return fmt.Errorf("%w: level %d: %v", ErrWriteBlockData, i, err)
		}
	}

	return nil
}
