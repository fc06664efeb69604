package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/woozymasta/ytdtex"
	"github.com/woozymasta/ytdtex/edds"
)

// manifestEntry describes one converted texture.
type manifestEntry struct {
	Name      string `json:"name"`
	Source    string `json:"source"`
	File      string `json:"file,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Format    string `json:"format"`
	Error     string `json:"error,omitempty"`
	Width     uint32 `json:"width"`
	Height    uint32 `json:"height"`
	MipLevels uint32 `json:"mip_levels"`
}

func main() {
	outDir := flag.String("out", ".", "output directory")
	format := flag.String("format", "png", "output format: png|webp|tga|dds|dds.zst")
	workers := flag.Int("workers", 0, "number of worker goroutines (default: GOMAXPROCS)")
	thumb := flag.Int("thumb", 0, "also write thumbnails of this size in pixels")
	manifest := flag.Bool("manifest", false, "write manifest.json into the output directory")
	verbose := flag.Bool("v", false, "log skipped textures")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: ytdtex [-out dir] [-format png|webp|tga|dds|dds.zst] <file.edds>...")
		os.Exit(2)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	entries, items, index := loadRecords(flag.Args())

	start := time.Now()
	switch *format {
	case "dds", "dds.zst":
		dumpContainers(items, index, entries, *outDir, *format == "dds.zst")
	default:
		exportFormat, err := ytdtex.ParseExportFormat(*format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		opts := &ytdtex.BatchOptions{Workers: *workers}
		if *verbose {
			opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		}

		results, err := ytdtex.ConvertBatch(ctx, items, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Interrupted: %v\n", err)
		}
		exportResults(results, index, entries, *outDir, exportFormat, *thumb)
	}

	failed := 0
	for _, e := range entries {
		if e.Error != "" {
			failed++
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}
	fmt.Printf("Converted %d/%d in %.1fs\n", len(entries)-failed, len(entries), time.Since(start).Seconds())

	if *manifest {
		path := filepath.Join(*outDir, "manifest.json")
		if err := writeManifest(path, entries); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", path)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// loadRecords reads every input file. Files that fail to load keep only
// their manifest entry; items holds the rest and index maps each item back
// to its entry.
func loadRecords(paths []string) (entries []manifestEntry, items []ytdtex.Item, index []int) {
	names := outputNames(paths)
	entries = make([]manifestEntry, len(paths))

	for i, path := range paths {
		entries[i] = manifestEntry{Name: names[i], Source: path}

		rec, err := edds.ReadRecord(path)
		if err != nil {
			entries[i].Error = err.Error()
			continue
		}

		entries[i].Width = rec.Width
		entries[i].Height = rec.Height
		entries[i].MipLevels = rec.MipLevels
		entries[i].Format = rec.FormatTag

		items = append(items, ytdtex.Item{Name: names[i], Record: rec})
		index = append(index, i)
	}

	return entries, items, index
}

// outputNames derives output base names from the input paths. Repeated base
// names get a numeric suffix so outputs do not overwrite each other.
func outputNames(paths []string) []string {
	names := make([]string, len(paths))
	used := make(map[string]bool, len(paths))

	for i, path := range paths {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		names[i] = name
	}

	return names
}

func exportResults(results []ytdtex.Result, index []int, entries []manifestEntry, outDir string, format ytdtex.ExportFormat, thumb int) {
	for j, r := range results {
		e := &entries[index[j]]
		if r.Err != nil {
			e.Error = r.Err.Error()
			continue
		}

		path := filepath.Join(outDir, r.Name+format.Ext())
		if err := writeFile(path, func(w *bufio.Writer) error { return ytdtex.Export(w, r.Image, format) }); err != nil {
			e.Error = err.Error()
			continue
		}
		e.File = path

		if thumb > 0 {
			img, err := r.Image.Image()
			if err != nil {
				e.Error = err.Error()
				continue
			}
			small := ytdtex.Thumbnail(img, thumb)
			thumbPath := filepath.Join(outDir, r.Name+".thumb"+format.Ext())
			if err := writeFile(thumbPath, func(w *bufio.Writer) error { return ytdtex.EncodeImage(w, small, format) }); err != nil {
				e.Error = err.Error()
				continue
			}
			e.Thumbnail = thumbPath
		}
	}
}

func dumpContainers(items []ytdtex.Item, index []int, entries []manifestEntry, outDir string, compress bool) {
	ext := ".dds"
	if compress {
		ext = ".dds.zst"
	}

	for j, item := range items {
		e := &entries[index[j]]

		container, err := ytdtex.Synthesize(item.Record)
		if err != nil {
			e.Error = err.Error()
			continue
		}

		path := filepath.Join(outDir, item.Name+ext)
		if err := writeFile(path, func(w *bufio.Writer) error { return ytdtex.WriteContainer(w, container, compress) }); err != nil {
			e.Error = err.Error()
			continue
		}
		e.File = path
	}
}

func writeFile(path string, write func(w *bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	return f.Close()
}

func writeManifest(path string, entries []manifestEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
