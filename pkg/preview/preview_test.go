package preview_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/goliatone/go-attachedimages/pkg/preview"
	"github.com/goliatone/go-attachedimages/pkg/upload"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestThumbnailKeepsAspectRatio(t *testing.T) {
	img, format, err := preview.Thumbnail(bytes.NewReader(pngBytes(t, 400, 100)), 200)
	if err != nil {
		t.Fatalf("thumbnail: %v", err)
	}
	if format != "png" {
		t.Fatalf("unexpected format %q", format)
	}
	if got := img.Bounds().Size(); got != (image.Point{X: 200, Y: 50}) {
		t.Fatalf("unexpected size %v", got)
	}
}

func TestThumbnailNeverUpscales(t *testing.T) {
	img, _, err := preview.Thumbnail(bytes.NewReader(pngBytes(t, 80, 60)), 200)
	if err != nil {
		t.Fatalf("thumbnail: %v", err)
	}
	if got := img.Bounds().Size(); got != (image.Point{X: 80, Y: 60}) {
		t.Fatalf("unexpected size %v", got)
	}
}

func TestThumbnailRejectsBadInput(t *testing.T) {
	if _, _, err := preview.Thumbnail(bytes.NewReader(nil), 0); !errors.Is(err, preview.ErrInvalidWidth) {
		t.Fatalf("expected ErrInvalidWidth, got %v", err)
	}
	if _, _, err := preview.Thumbnail(bytes.NewReader([]byte("not an image")), 10); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestGeneratorResizeAndPreview(t *testing.T) {
	gen := preview.NewGenerator()
	entry := upload.FromBytes("wide.png", "image/png", pngBytes(t, 300, 150))

	resized, err := gen.Resize(context.Background(), entry, 100)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if resized.ID != entry.ID || resized.ContentType != "image/png" {
		t.Fatalf("unexpected resized entry %+v", resized)
	}

	rc, err := resized.Open()
	if err != nil {
		t.Fatalf("open resized: %v", err)
	}
	defer rc.Close()
	cfg, err := png.DecodeConfig(rc)
	if err != nil {
		t.Fatalf("decode resized: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Fatalf("unexpected resized size %dx%d", cfg.Width, cfg.Height)
	}

	thumb, err := gen.Preview(context.Background(), resized, 40)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if thumb.Width != 40 || thumb.Height != 20 || len(thumb.Data) == 0 {
		t.Fatalf("unexpected preview %+v", thumb)
	}
}
