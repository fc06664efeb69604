package ytdtex

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

func exportFixture(t *testing.T) *DecodedImage {
	t.Helper()

	img, err := ConvertRecord(Record{
		Width:     16,
		Height:    8,
		MipLevels: 1,
		FormatTag: "D3DFMT_DXT1",
		Payload:   patternPayload(CodecBC1, 16, 8),
	}, nil)
	if err != nil {
		t.Fatalf("ConvertRecord: %v", err)
	}
	return img
}

func TestExportFormats(t *testing.T) {
	t.Parallel()

	decoded := exportFixture(t)
	want, err := decoded.Image()
	if err != nil {
		t.Fatalf("Image: %v", err)
	}

	tests := []struct {
		name   string
		format ExportFormat
		decode func(*bytes.Reader) (image.Image, error)
	}{
		{name: "png", format: ExportPNG, decode: func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) }},
		{name: "webp", format: ExportWebP, decode: func(r *bytes.Reader) (image.Image, error) { return webp.Decode(r) }},
		{name: "tga", format: ExportTGA, decode: func(r *bytes.Reader) (image.Image, error) { return tga.Decode(r) }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := Export(&buf, decoded, tc.format); err != nil {
				t.Fatalf("Export: %v", err)
			}

			got, err := tc.decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode %s: %v", tc.name, err)
			}
			if got.Bounds().Dx() != 16 || got.Bounds().Dy() != 8 {
				t.Fatalf("size = %v", got.Bounds())
			}

			c := color.NRGBAModel.Convert(got.At(3, 5)).(color.NRGBA)
			w := want.NRGBAAt(3, 5)
			if w.A == 255 && c != w {
				t.Fatalf("pixel = %v, want %v", c, w)
			}
		})
	}
}

func TestParseExportFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    ExportFormat
		wantExt string
		wantErr error
	}{
		{in: "png", want: ExportPNG, wantExt: ".png"},
		{in: ".WEBP", want: ExportWebP, wantExt: ".webp"},
		{in: "tga", want: ExportTGA, wantExt: ".tga"},
		{in: "bmp", wantErr: ErrUnknownExportFormat},
	}

	for _, tc := range tests {
		got, err := ParseExportFormat(tc.in)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ParseExportFormat(%q) err = %v, want %v", tc.in, err, tc.wantErr)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseExportFormat(%q) = %v, %v", tc.in, got, err)
		}
		if got.Ext() != tc.wantExt {
			t.Fatalf("Ext() = %q", got.Ext())
		}
	}
}

func TestExportShortPixels(t *testing.T) {
	t.Parallel()

	bad := &DecodedImage{Pix: make([]byte, 3), Width: 2, Height: 2, Stride: 8}
	if err := Export(&bytes.Buffer{}, bad, ExportPNG); !errors.Is(err, ErrShortPixels) {
		t.Fatalf("expected ErrShortPixels, got %v", err)
	}
}

func TestThumbnail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		w, h, size   int
		wantW, wantH int
	}{
		{name: "square-down", w: 256, h: 256, size: 20, wantW: 20, wantH: 20},
		{name: "wide", w: 512, h: 128, size: 64, wantW: 64, wantH: 16},
		{name: "tall", w: 16, h: 1024, size: 32, wantW: 1, wantH: 32},
		{name: "small-kept", w: 8, h: 4, size: 20, wantW: 8, wantH: 4},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			src := solidImage(tc.w, tc.h, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
			got := Thumbnail(src, tc.size)
			if got.Bounds().Dx() != tc.wantW || got.Bounds().Dy() != tc.wantH {
				t.Fatalf("thumbnail = %v, want %dx%d", got.Bounds(), tc.wantW, tc.wantH)
			}
			if c := got.NRGBAAt(0, 0); c.G < 190 || c.A != 255 {
				t.Fatalf("pixel = %v", c)
			}
		})
	}
}
