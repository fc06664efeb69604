package ytdtex

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
)

// Item pairs a record with the caller's display name. The name is passed
// through untouched.
type Item struct {
	Name   string
	Record Record
}

// Result holds the outcome of converting one item.
type Result struct {
	Image *DecodedImage
	Err   error
	Name  string
}

// BatchOptions configures ConvertBatch.
type BatchOptions struct {
	// Decoder is used for every record; nil means BCnDecoder{}.
	Decoder Decoder
	// Logger receives one warning per skipped record; nil disables logging.
	Logger *slog.Logger
	// Workers is the number of goroutines; <= 0 means GOMAXPROCS.
	Workers int
}

// ConvertRecord synthesizes a container for rec and decodes it with dec.
func ConvertRecord(rec Record, dec Decoder) (*DecodedImage, error) {
	container, err := Synthesize(rec)
	if err != nil {
		return nil, err
	}

	return Decode(container, dec)
}

// ConvertBatch converts items over a worker pool. Results are in input order.
// A failed record only sets its Result.Err. If ctx is cancelled no further
// records are started; the returned error is ctx.Err() and unstarted results
// carry it as well.
func ConvertBatch(ctx context.Context, items []Item, opts *BatchOptions) ([]Result, error) {
	if opts == nil {
		opts = &BatchOptions{}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]Result, len(items))
	for i := range items {
		results[i].Name = items[i].Name
	}

	itemChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range itemChan {
				img, err := ConvertRecord(items[idx].Record, opts.Decoder)
				results[idx].Image = img
				results[idx].Err = err
				if err != nil && opts.Logger != nil {
					opts.Logger.Warn("texture skipped",
						slog.String("name", items[idx].Name),
						slog.Any("err", err))
				}
			}
		}()
	}

	next := 0
dispatch:
	for ; next < len(items); next++ {
		select {
		case <-ctx.Done():
			break dispatch
		case itemChan <- next:
		}
	}
	close(itemChan)

	wg.Wait()

	if err := ctx.Err(); err != nil && next < len(items) {
		for i := next; i < len(items); i++ {
			results[i].Err = err
		}
		return results, err
	}

	return results, nil
}
