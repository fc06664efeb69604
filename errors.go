package ytdtex

import "errors"

var (
	// ErrEmptySource indicates a record without payload bytes; there is nothing to wrap.
	ErrEmptySource = errors.New("empty texture payload")
	// ErrDecodeFailed indicates the decoder could not turn a container into pixels.
	ErrDecodeFailed = errors.New("decode failed")
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrHeaderSize indicates the emitted DDS header is not 128 bytes long.
	ErrHeaderSize = errors.New("unexpected DDS header size")
	// ErrWriteHeader indicates writing the DDS header failed.
	ErrWriteHeader = errors.New("writing DDS header failed")
	// ErrReadHeader indicates reading the DDS header failed.
	ErrReadHeader = errors.New("reading DDS header failed")
	// ErrUnsupportedFormat indicates a container codec outside BC1..BC5.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidDimensions indicates zero width or height in a container.
	ErrInvalidDimensions = errors.New("invalid dimensions")
	// ErrTruncatedPayload indicates the top-level payload is shorter than its codec requires.
	ErrTruncatedPayload = errors.New("truncated payload")
	// ErrShortPixels indicates a decoded image carries fewer bytes than its stride implies.
	ErrShortPixels = errors.New("pixel buffer too short")
	// ErrUnknownExportFormat indicates an unsupported export format name.
	ErrUnknownExportFormat = errors.New("unknown export format")
	// ErrEncodeImage indicates image encoding failed.
	ErrEncodeImage = errors.New("encode image failed")
	// ErrBadMagic indicates data that does not start with "DDS " or is shorter than a header.
	ErrBadMagic = errors.New("missing DDS magic")
	// ErrZstd indicates zstd compression or decompression failed.
	ErrZstd = errors.New("zstd failed")
	// ErrWriteContainer indicates writing a container failed.
	ErrWriteContainer = errors.New("writing container failed")
	// ErrReadContainer indicates reading a container failed.
	ErrReadContainer = errors.New("reading container failed")
)
