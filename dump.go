package ytdtex

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

var ddsMagic = []byte("DDS ")

// WriteContainer writes a synthesized container to w, zstd-compressed when
// compress is set (the usual ".dds.zst" dump).
func WriteContainer(w io.Writer, container []byte, compress bool) error {
	data := container
	if compress {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrZstd, err)
		}
		data = enc.EncodeAll(container, nil)
		if err := enc.Close(); err != nil {
			return fmt.Errorf("%w: %v", ErrZstd, err)
		}
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteContainer, err)
	}

	return nil
}

// ReadContainer reads a container written by WriteContainer.
func ReadContainer(r io.Reader, compressed bool) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadContainer, err)
	}

	if compressed {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrZstd, err)
		}
		defer dec.Close()

		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrZstd, err)
		}
	}

	if len(data) < HeaderSize || !bytes.Equal(data[:4], ddsMagic) {
		return nil, ErrBadMagic
	}

	return data, nil
}
