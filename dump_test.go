package ytdtex

import (
	"bytes"
	"errors"
	"testing"
)

func TestContainerDumpRoundTrip(t *testing.T) {
	t.Parallel()

	container, err := Synthesize(Record{
		Width:     64,
		Height:    64,
		MipLevels: 7,
		FormatTag: "D3DFMT_DXT5",
		Payload:   bytes.Repeat([]byte{0x11, 0x22, 0x33, 0x44}, 1024),
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		if err := WriteContainer(&buf, container, compress); err != nil {
			t.Fatalf("WriteContainer(compress=%v): %v", compress, err)
		}
		if compress && buf.Len() >= len(container) {
			t.Fatalf("zstd dump not smaller: %d >= %d", buf.Len(), len(container))
		}
		if !compress && !bytes.Equal(buf.Bytes(), container) {
			t.Fatalf("plain dump differs from container")
		}

		got, err := ReadContainer(&buf, compress)
		if err != nil {
			t.Fatalf("ReadContainer(compress=%v): %v", compress, err)
		}
		if !bytes.Equal(got, container) {
			t.Fatalf("round-trip mismatch (compress=%v)", compress)
		}
	}
}

func TestReadContainerErrors(t *testing.T) {
	t.Parallel()

	if _, err := ReadContainer(bytes.NewReader([]byte("not a dds file")), false); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
	if _, err := ReadContainer(bytes.NewReader([]byte("garbage, not zstd")), true); !errors.Is(err, ErrZstd) {
		t.Fatalf("expected ErrZstd, got %v", err)
	}
}
