package edds

import "errors"

var (
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrUnsupportedFormat indicates a pixel format other than BC1..BC5.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrEmptyLevels indicates a write without mip levels.
	ErrEmptyLevels = errors.New("empty mip levels")
	// ErrTooManyLevels indicates more levels than the dimensions allow.
	ErrTooManyLevels = errors.New("too many mip levels")
	// ErrLevelSizeMismatch indicates a level payload of the wrong size.
	ErrLevelSizeMismatch = errors.New("mip level size mismatch")
	// ErrChunkTooLarge indicates a compressed chunk exceeds allowed size.
	ErrChunkTooLarge = errors.New("compressed chunk too large")
	// ErrLZ4Compress indicates LZ4 compression failed.
	ErrLZ4Compress = errors.New("LZ4 compression failed")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
	// ErrCopySizeMismatch indicates COPY block data size mismatch.
	ErrCopySizeMismatch = errors.New("COPY block size mismatch")
	// ErrUnknownBlockMagic indicates an unknown block magic.
	ErrUnknownBlockMagic = errors.New("unknown block magic")
	// ErrInvalidTargetSize indicates invalid decoded target size.
	ErrInvalidTargetSize = errors.New("invalid target size")
	// ErrChunkStreamTruncated indicates LZ4 chunk stream is truncated.
	ErrChunkStreamTruncated = errors.New("LZ4 chunk-stream truncated")
	// ErrUnknownLZ4Flags indicates unknown LZ4 chunk flags.
	ErrUnknownLZ4Flags = errors.New("unknown LZ4 flags")
	// ErrInvalidChunkSize indicates invalid LZ4 chunk size.
	ErrInvalidChunkSize = errors.New("invalid compressed chunk size")
	// ErrDecodeOverrun indicates decoded data overruns target buffer.
	ErrDecodeOverrun = errors.New("decoded LZ4 overruns target buffer")
	// ErrDecodedSizeMismatch indicates decoded size mismatch.
	ErrDecodedSizeMismatch = errors.New("LZ4 decoded size mismatch")
	// ErrBlockTableMagicRead indicates block table magic read failed.
	ErrBlockTableMagicRead = errors.New("reading block table magic failed")
	// ErrBlockTableSizeRead indicates block table size read failed.
	ErrBlockTableSizeRead = errors.New("reading block table size failed")
	// ErrBlockTableUnknownMagic indicates unknown block magic in table.
	ErrBlockTableUnknownMagic = errors.New("unknown block magic in table")
	// ErrBlockTableInvalidSize indicates invalid size in block table.
	ErrBlockTableInvalidSize = errors.New("invalid block size in table")
	// ErrBlockBodyRead indicates block body read failed.
	ErrBlockBodyRead = errors.New("reading block body failed")
	// ErrDDSHeaderRead indicates DDS header read failed.
	ErrDDSHeaderRead = errors.New("reading DDS header failed")
	// ErrDDSDX10Read indicates DDS DX10 header read failed.
	ErrDDSDX10Read = errors.New("reading DDS DX10 header failed")
	// ErrOpenFile indicates EDDS file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrReadBlockTable indicates block table read failed.
	ErrReadBlockTable = errors.New("read block table failed")
	// ErrSkipBlockBody indicates skipping block body failed.
	ErrSkipBlockBody = errors.New("skip block body failed")
	// ErrDecompressBlock indicates block decompression failed.
	ErrDecompressBlock = errors.New("decompress block failed")
	// ErrSeekDataStart indicates seek to data start failed.
	ErrSeekDataStart = errors.New("seek to data start failed")
	// ErrReadRemainingData indicates reading remaining data failed.
	ErrReadRemainingData = errors.New("reading remaining data failed")
	// ErrParseSingleBlock indicates failure parsing legacy single block.
	ErrParseSingleBlock = errors.New("failed to parse single block")
	// ErrCompressLevel indicates mip level compression failed.
	ErrCompressLevel = errors.New("compress mip level failed")
	// ErrCreateFile indicates file creation failed.
	ErrCreateFile = errors.New("create file failed")
	// ErrWriteHeader indicates DDS magic or header write failed.
	ErrWriteHeader = errors.New("writing DDS header failed")
	// ErrWriteBlockTable indicates block table write failed.
	ErrWriteBlockTable = errors.New("writing block table failed")
	// ErrWriteBlockData indicates block data write failed.
	ErrWriteBlockData = errors.New("writing block data failed")
	// ErrChunkHeaderRead indicates LZ4 chunk header read failed.
	ErrChunkHeaderRead = errors.New("reading chunk header failed")
)
