package ytdtex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
)

func batchItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Name: fmt.Sprintf("tex_%02d", i),
			Record: Record{
				Width:     8,
				Height:    4,
				MipLevels: 1,
				FormatTag: "D3DFMT_DXT5",
				Payload:   patternPayload(CodecBC3, 8, 4),
			},
		}
	}
	return items
}

func TestConvertBatchOrderAndIsolation(t *testing.T) {
	t.Parallel()

	items := batchItems(12)
	items[3].Record.Payload = nil
	items[7].Record.Payload = items[7].Record.Payload[:5]

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	results, err := ConvertBatch(context.Background(), items, &BatchOptions{Workers: 4, Logger: logger})
	if err != nil {
		t.Fatalf("ConvertBatch: %v", err)
	}
	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}

	for i, r := range results {
		if r.Name != items[i].Name {
			t.Fatalf("result %d name = %q, want %q", i, r.Name, items[i].Name)
		}

		switch i {
		case 3:
			if !errors.Is(r.Err, ErrEmptySource) || r.Image != nil {
				t.Fatalf("result 3: expected ErrEmptySource, got %v", r.Err)
			}
		case 7:
			if !errors.Is(r.Err, ErrDecodeFailed) || r.Image != nil {
				t.Fatalf("result 7: expected ErrDecodeFailed, got %v", r.Err)
			}
		default:
			if r.Err != nil {
				t.Fatalf("result %d: %v", i, r.Err)
			}
			if r.Image.Width != 8 || r.Image.Height != 4 {
				t.Fatalf("result %d size = %dx%d", i, r.Image.Width, r.Image.Height)
			}
		}
	}

	logged := logBuf.String()
	if !strings.Contains(logged, "tex_03") || !strings.Contains(logged, "tex_07") {
		t.Fatalf("skipped records not logged: %s", logged)
	}
}

func TestConvertBatchCustomDecoder(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	dec := DecoderFunc(func(container []byte) (*Surface, error) {
		calls.Add(1)
		return BCnDecoder{}.DecodeSurface(container)
	})

	items := batchItems(5)
	results, err := ConvertBatch(context.Background(), items, &BatchOptions{Decoder: dec})
	if err != nil {
		t.Fatalf("ConvertBatch: %v", err)
	}
	if got := calls.Load(); got != int64(len(items)) {
		t.Fatalf("decoder called %d times, want %d", got, len(items))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("result %d: %v", i, r.Err)
		}
	}
}

func TestConvertBatchEmptyAndNilOptions(t *testing.T) {
	t.Parallel()

	results, err := ConvertBatch(context.Background(), nil, nil)
	if err != nil || len(results) != 0 {
		t.Fatalf("ConvertBatch(nil) = %v, %v", results, err)
	}
}

func TestConvertBatchCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := batchItems(64)
	results, err := ConvertBatch(ctx, items, &BatchOptions{Workers: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}

	skipped := 0
	for _, r := range results {
		if errors.Is(r.Err, context.Canceled) {
			skipped++
		}
	}
	if skipped == 0 {
		t.Fatalf("expected unstarted records to carry context.Canceled")
	}
}

func BenchmarkConvertBatch(b *testing.B) {
	items := batchItems(64)
	for i := range items {
		items[i].Record.Width, items[i].Record.Height = 256, 256
		items[i].Record.Payload = patternPayload(CodecBC3, 256, 256)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		if _, err := ConvertBatch(context.Background(), items, nil); err != nil {
			b.Fatalf("batch: %v", err)
		}
	}
}
