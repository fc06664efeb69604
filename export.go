package ytdtex

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// ExportFormat is an image file format decoded textures can be saved as.
type ExportFormat uint8

const (
	// ExportPNG writes PNG.
	ExportPNG ExportFormat = iota
	// ExportWebP writes lossless WebP.
	ExportWebP
	// ExportTGA writes Truevision TGA.
	ExportTGA
)

// ParseExportFormat resolves a format name or file extension ("png", ".webp").
func ParseExportFormat(name string) (ExportFormat, error) {
	switch strings.TrimPrefix(strings.ToLower(name), ".") {
	case "png":
		return ExportPNG, nil
	case "webp":
		return ExportWebP, nil
	case "tga":
		return ExportTGA, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownExportFormat, name)
	}
}

// Ext returns the file extension including the dot.
func (f ExportFormat) Ext() string {
	switch f {
	case ExportWebP:
		return ".webp"
	case ExportTGA:
		return ".tga"
	default:
		return ".png"
	}
}

// Export encodes a decoded texture to w.
func Export(w io.Writer, img *DecodedImage, format ExportFormat) error {
	rgba, err := img.Image()
	if err != nil {
		return err
	}

	return EncodeImage(w, rgba, format)
}

// EncodeImage encodes any image to w in the given format.
func EncodeImage(w io.Writer, img image.Image, format ExportFormat) error {
	var err error
	switch format {
	case ExportPNG:
		err = png.Encode(w, img)
	case ExportWebP:
		err = nativewebp.Encode(w, img, nil)
	case ExportTGA:
		err = tga.Encode(w, img)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownExportFormat, format)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncodeImage, format.Ext(), err)
	}

	return nil
}

// Thumbnail scales img to fit a size x size box, keeping the aspect ratio.
// Images already inside the box are copied unscaled.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if size < 1 {
		size = 1
	}

	if w > size || h > size {
		if w >= h {
			h = max(1, h*size/w)
			w = size
		} else {
			w = max(1, w*size/h)
			h = size
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}

	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	return dst
}
