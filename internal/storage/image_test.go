package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDownscaleImagePassThrough(t *testing.T) {
	data := encodePNG(t, 100, 60)

	out, contentType, err := DownscaleImage(data, "image/png", ImageProcessOptions{MaxDim: 2048})
	if err != nil {
		t.Fatalf("DownscaleImage: %v", err)
	}
	if contentType != "image/png" {
		t.Errorf("content type = %q, want image/png (unchanged)", contentType)
	}
	if !bytes.Equal(out, data) {
		t.Error("small image should be returned unchanged")
	}
}

func TestDownscaleImageScalesDown(t *testing.T) {
	data := encodePNG(t, 300, 120)

	out, contentType, err := DownscaleImage(data, "image/png", ImageProcessOptions{MaxDim: 100, JPEGQuality: 85})
	if err != nil {
		t.Fatalf("DownscaleImage: %v", err)
	}
	if contentType != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg after rescale", contentType)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 100 {
		t.Errorf("width = %d, want 100", bounds.Dx())
	}
	if bounds.Dy() != 40 {
		t.Errorf("height = %d, want 40 (aspect preserved)", bounds.Dy())
	}
}

func TestDownscaleImageNonRasterPassThrough(t *testing.T) {
	data := []byte("GIF89a not actually decoded")
	out, contentType, err := DownscaleImage(data, "image/gif", ImageProcessOptions{MaxDim: 10})
	if err != nil {
		t.Fatalf("DownscaleImage: %v", err)
	}
	if contentType != "image/gif" || !bytes.Equal(out, data) {
		t.Error("gif should pass through untouched")
	}
}

func TestDownscaleImageInvalidData(t *testing.T) {
	if _, _, err := DownscaleImage([]byte("not an image"), "image/png", ImageProcessOptions{}); err == nil {
		t.Error("expected error for undecodable image data")
	}
}
