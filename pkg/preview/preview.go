// Package preview renders before-upload thumbnails and scales images down to
// the width chosen in the inline resize control.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/goliatone/go-attachedimages/pkg/upload"
)

// ErrInvalidWidth is returned for non-positive target widths.
var ErrInvalidWidth = errors.New("preview: width must be positive")

const jpegQuality = 85

// Thumbnail decodes r and scales it to width keeping the aspect ratio. Images
// narrower than width are returned unscaled.
func Thumbnail(r io.Reader, width int) (image.Image, string, error) {
	if width <= 0 {
		return nil, "", ErrInvalidWidth
	}
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("preview: decode image: %w", err)
	}
	return scaleToWidth(src, width), format, nil
}

// Resize re-encodes the image read from r into w, scaled down to maxWidth.
// PNG input stays PNG; everything else is written as JPEG.
func Resize(r io.Reader, w io.Writer, maxWidth int) (string, error) {
	img, format, err := Thumbnail(r, maxWidth)
	if err != nil {
		return "", err
	}
	return encode(w, img, format)
}

func scaleToWidth(src image.Image, width int) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() <= width {
		return src
	}
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

func encode(w io.Writer, img image.Image, format string) (string, error) {
	if format == "png" {
		if err := png.Encode(w, img); err != nil {
			return "", fmt.Errorf("preview: encode png: %w", err)
		}
		return "image/png", nil
	}
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("preview: encode jpeg: %w", err)
	}
	return "image/jpeg", nil
}

// Generator renders previews and resizes upload entries.
type Generator struct{}

// NewGenerator returns a Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

var (
	_ upload.Previewer = (*Generator)(nil)
	_ upload.Resizer   = (*Generator)(nil)
)

// Preview renders a PNG thumbnail of entry.
func (g *Generator) Preview(ctx context.Context, entry upload.Entry, width int) (upload.Preview, error) {
	if err := ctx.Err(); err != nil {
		return upload.Preview{}, err
	}
	rc, err := entry.Open()
	if err != nil {
		return upload.Preview{}, err
	}
	defer rc.Close()

	img, _, err := Thumbnail(rc, width)
	if err != nil {
		return upload.Preview{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return upload.Preview{}, fmt.Errorf("preview: encode png: %w", err)
	}
	bounds := img.Bounds()
	return upload.Preview{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ContentType: "image/png",
		Data:        buf.Bytes(),
	}, nil
}

// Resize scales entry down to maxWidth.
func (g *Generator) Resize(ctx context.Context, entry upload.Entry, maxWidth int) (upload.Entry, error) {
	if err := ctx.Err(); err != nil {
		return upload.Entry{}, err
	}
	rc, err := entry.Open()
	if err != nil {
		return upload.Entry{}, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	contentType, err := Resize(rc, &buf, maxWidth)
	if err != nil {
		return upload.Entry{}, err
	}
	resized := entry.WithContent(buf.Bytes())
	resized.ContentType = contentType
	return resized, nil
}
