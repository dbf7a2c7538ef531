package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// ErrWorkerPanic wraps a panic raised while computing a pixel
var ErrWorkerPanic = errors.New("render worker panicked")

// Renderer drives a camera and a ray tracer over every pixel of a sink
type Renderer struct {
	camera *Camera
	tracer integrator.RayTracer
	sink   ImageSink
	logger core.Logger
}

// NewRenderer checks that every collaborator is present. A nil logger
// discards output.
func NewRenderer(camera *Camera, tracer integrator.RayTracer, sink ImageSink, logger core.Logger) (*Renderer, error) {
	var errs []error
	if camera == nil {
		errs = append(errs, fmt.Errorf("camera: %w", ErrMissingField))
	}
	if tracer == nil {
		errs = append(errs, fmt.Errorf("ray tracer: %w", ErrMissingField))
	}
	if sink == nil {
		errs = append(errs, fmt.Errorf("image sink: %w", ErrMissingField))
	} else if w, h := sink.Size(); w <= 0 || h <= 0 {
		errs = append(errs, fmt.Errorf("image size %dx%d: %w", w, h, ErrInvalidConfig))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Renderer{camera: camera, tracer: tracer, sink: sink, logger: logger}, nil
}

// PrintGrid overwrites every pixel on a multiple of interval, in either
// direction, with color
func PrintGrid(sink ImageSink, interval int, color core.Color) error {
	if interval <= 0 {
		return fmt.Errorf("grid interval %d must be positive: %w", interval, ErrInvalidConfig)
	}
	width, height := sink.Size()
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if col%interval == 0 || row%interval == 0 {
				sink.WritePixel(col, row, color)
			}
		}
	}
	return nil
}
