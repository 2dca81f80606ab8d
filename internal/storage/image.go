package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

var ErrInvalidImage = errors.New("invalid image")

type ImageProcessOptions struct {
	MaxDim      int
	JPEGQuality int
}

func DefaultAttachmentImageOptions() ImageProcessOptions {
	return ImageProcessOptions{
		MaxDim:      2048,
		JPEGQuality: 85,
	}
}

// DownscaleImage decodes a raster image attachment and, if either dimension
// exceeds MaxDim, scales it down to fit (preserving aspect, never upscaling)
// and re-encodes as JPEG. Images already within bounds are returned
// unchanged with their original content type.
func DownscaleImage(data []byte, contentType string, opts ImageProcessOptions) ([]byte, string, error) {
	if opts.MaxDim <= 0 {
		opts.MaxDim = 2048
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = 85
	}

	var img image.Image
	var err error
	switch contentType {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	case "image/webp":
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		// Not a raster type we rescale (e.g. gif); pass through.
		return data, contentType, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, "", ErrInvalidImage
	}
	if w <= opts.MaxDim && h <= opts.MaxDim {
		return data, contentType, nil
	}

	// Fit within MaxDim, preserve aspect.
	tw, th := w, h
	if w >= h {
		tw = opts.MaxDim
		th = int(float64(h) * (float64(opts.MaxDim) / float64(w)))
	} else {
		th = opts.MaxDim
		tw = int(float64(w) * (float64(opts.MaxDim) / float64(h)))
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
		return nil, "", fmt.Errorf("encode: %w", err)
	}
	return out.Bytes(), "image/jpeg", nil
}
