package edds

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed block.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4-compressed block.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the Enfusion chunk size for LZ4 streams.
	ChunkSize = 64 * 1024

	// chunkLast flags the final chunk of a stream.
	chunkLast = 0x80
	// minCompressSize is the smallest level worth trying LZ4 on.
	minCompressSize = 1024
	// maxCompressRatio is the output/input ratio above which COPY is kept.
	maxCompressRatio = 0.85
	// maxExpandRatio bounds LZ4 output per input byte.
	maxExpandRatio = 256
)

// Block is one mip level body as stored in the file.
type Block struct {
	Magic string
	// Data is the raw level (COPY) or the chunk stream without the size prefix (LZ4).
	Data []byte
	// Size is the block table entry: body length in bytes.
	Size int32
	// UncompressedSize is set for LZ4 blocks.
	UncompressedSize int32
}

func copyBlock(data []byte) (*Block, error) {
	size, err := i32FromInt(len(data))
	if err != nil {
		return nil, err
	}

	return &Block{Magic: BlockMagicCOPY, Size: size, Data: data}, nil
}

// compressBlock packs a level as an LZ4 chunk stream, or as COPY when that
// does not pay off.
func compressBlock(data []byte) (*Block, error) {
	if len(data) < minCompressSize {
		return copyBlock(data)
	}

	stream, ok, err := encodeChunkStream(data)
	if err != nil {
		return nil, err
	}
	body := 4 + len(stream)
	if !ok || float64(body) > float64(len(data))*maxCompressRatio {
		return copyBlock(data)
	}

	size, err := i32FromInt(body)
	if err != nil {
		return nil, err
	}
	uncompressed, err := i32FromInt(len(data))
	if err != nil {
		return nil, err
	}

	return &Block{
		Magic:            BlockMagicLZ4,
		Size:             size,
		UncompressedSize: uncompressed,
		Data:             stream,
	}, nil
}

// encodeChunkStream compresses data in ChunkSize pieces, each prefixed with a
// 24-bit length and a flags byte. ok is false when a chunk does not compress.
func encodeChunkStream(data []byte) ([]byte, bool, error) {
	var out bytes.Buffer
	buf := make([]byte, lz4.CompressBlockBound(ChunkSize))

	for start := 0; start < len(data); start += ChunkSize {
		end := min(start+ChunkSize, len(data))
		chunk := data[start:end]

		n, err := lz4.CompressBlockHC(chunk, buf, 0, nil, nil)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if n == 0 || float64(n) > float64(len(chunk))*maxCompressRatio {
			return nil, false, nil
		}
		if n > 0x7FFFFF {
			return nil, false, fmt.Errorf("%w: %d", ErrChunkTooLarge, n)
		}

		var flags byte
		if end == len(data) {
			flags = chunkLast
		}
		out.Write([]byte{byte(n), byte(n >> 8), byte(n >> 16), flags})
		out.Write(buf[:n])
	}

	return out.Bytes(), true, nil
}

// writeBlockData writes the block body (no table entry).
func writeBlockData(w io.Writer, block *Block) error {
	if block.Magic == BlockMagicLZ4 {
		if err := binary.Write(w, binary.LittleEndian, block.UncompressedSize); err != nil {
			return err
		}
	}
	_, err := w.Write(block.Data)

	return err
}

// decompressBlock inflates a block body into a level of expectedSize bytes.
func decompressBlock(block *Block, expectedSize int) ([]byte, error) {
	switch block.Magic {
	case BlockMagicCOPY:
		if len(block.Data) != expectedSize {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, expectedSize, len(block.Data))
		}
		out := make([]byte, len(block.Data))
		copy(out, block.Data)
		return out, nil
	case BlockMagicLZ4:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, block.Magic)
	}

	target := expectedSize
	if block.UncompressedSize > 0 {
		target = int(block.UncompressedSize)
	}

	data := block.Data
	// Bodies read from disk still carry the uncompressed size prefix.
	if len(data) >= 8 {
		prefix := int(binary.LittleEndian.Uint32(data[:4]))
		first := int(data[4]) | int(data[5])<<8 | int(data[6])<<16
		if (prefix == expectedSize || prefix == target) && first > 0 && first < 1<<20 {
			target = prefix
			data = data[4:]
		}
	}
	if target <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTargetSize, target)
	}

	return decodeChunkStream(data, target)
}

// decodeChunkStream inflates an Enfusion chunk stream. Each chunk may refer
// back into the previous 64 KiB of output.
func decodeChunkStream(stream []byte, targetSize int) ([]byte, error) {
	if targetSize/maxExpandRatio > len(stream) {
		return nil, fmt.Errorf("%w: %d from %d compressed bytes", ErrInvalidTargetSize, targetSize, len(stream))
	}

	target := make([]byte, targetSize)
	r := bytes.NewReader(stream)
	var dict rollingDict
	out := 0

	for {
		var hdr [4]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChunkStreamTruncated, err)
		}

		size := int(hdr[0]) | int(hdr[1])<<8 | int(hdr[2])<<16
		flags := hdr[3]
		if flags&^chunkLast != 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownLZ4Flags, flags)
		}
		if size <= 0 || size > r.Len() {
			return nil, fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, size, r.Len())
		}

		compressed := stream[len(stream)-r.Len():][:size]
		if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChunkHeaderRead, err)
		}

		if out >= targetSize {
			return nil, ErrDecodeOverrun
		}
		dst := target[out:min(out+ChunkSize, targetSize)]

		n, err := lz4.UncompressBlockWithDict(compressed, dst, dict.bytes())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		dict.push(dst[:n])
		out += n

		if flags&chunkLast != 0 {
			break
		}
	}

	if out != targetSize {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, targetSize, out)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after decode", ErrDecodedSizeMismatch, r.Len())
	}

	return target, nil
}

// rollingDict keeps the last ChunkSize bytes of decoded output.
type rollingDict struct {
	buf [ChunkSize]byte
	n   int
}

func (d *rollingDict) bytes() []byte {
	return d.buf[:d.n]
}

func (d *rollingDict) push(p []byte) {
	if len(p) >= ChunkSize {
		copy(d.buf[:], p[len(p)-ChunkSize:])
		d.n = ChunkSize
		return
	}

	if free := ChunkSize - d.n; len(p) > free {
		shift := len(p) - free
		copy(d.buf[:], d.buf[shift:d.n])
		d.n -= shift
	}
	copy(d.buf[d.n:], p)
	d.n += len(p)
}

type blockHeader struct {
	Magic string
	Size  int32
}

func readBlockTable(r io.Reader, count uint32) ([]blockHeader, error) {
	var hdrs []blockHeader
	for i := uint32(0); i < count; i++ {
		var magic [4]byte
		if _, err := io.ReadFull(r, magic[:]); err != nil {
			return nil, fmt.Errorf("%w: %d: %v", ErrBlockTableMagicRead, i, err)
		}

		var size int32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("%w: %d: %v", ErrBlockTableSizeRead, i, err)
		}

		h := blockHeader{Magic: string(magic[:]), Size: size}
		if h.Magic != BlockMagicCOPY && h.Magic != BlockMagicLZ4 {
			return nil, fmt.Errorf("%w: %d: %q", ErrBlockTableUnknownMagic, i, h.Magic)
		}
		if h.Size < 0 {
			return nil, fmt.Errorf("%w: %d: %d", ErrBlockTableInvalidSize, i, h.Size)
		}

		hdrs = append(hdrs, h)
	}

	return hdrs, nil
}

// readBlockBody grows the body as bytes arrive so a bogus table size cannot
// force a large allocation.
func readBlockBody(r io.Reader, h blockHeader) (*Block, error) {
	var body bytes.Buffer
	if _, err := io.CopyN(&body, r, int64(h.Size)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBlockBodyRead, h.Magic, err)
	}

	return &Block{Magic: h.Magic, Size: h.Size, Data: body.Bytes()}, nil
}
