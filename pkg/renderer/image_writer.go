package renderer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ImageSink receives rendered pixels. WritePixel is called exactly once per
// pixel, possibly from several goroutines but never twice for the same
// pixel; Flush is called once after every pixel has been written.
type ImageSink interface {
	Size() (width, height int)
	WritePixel(col, row int, color core.Color)
	Flush() error
}

// ImageWriter collects pixels in memory and encodes them as a PNG file on Flush
type ImageWriter struct {
	path string
	img  *image.RGBA
}

// NewImageWriter creates a width x height image that will be written to path
func NewImageWriter(path string, width, height int) (*ImageWriter, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image size %dx%d: %w", width, height, ErrInvalidConfig)
	}
	return &ImageWriter{
		path: path,
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// Size returns the image resolution
func (iw *ImageWriter) Size() (int, int) {
	b := iw.img.Bounds()
	return b.Dx(), b.Dy()
}

// WritePixel stores the color clamped to 8 bits per channel. Distinct
// pixels occupy distinct bytes, so concurrent writes need no lock.
func (iw *ImageWriter) WritePixel(col, row int, color core.Color) {
	iw.img.SetRGBA(col, row, color.RGBA())
}

// Image returns the underlying image
func (iw *ImageWriter) Image() *image.RGBA {
	return iw.img
}

// Flush encodes the image as PNG, creating parent directories as needed
func (iw *ImageWriter) Flush() error {
	if dir := filepath.Dir(iw.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	file, err := os.Create(iw.path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	if err := png.Encode(file, iw.img); err != nil {
		file.Close()
		return fmt.Errorf("error saving PNG: %w", err)
	}
	return file.Close()
}
