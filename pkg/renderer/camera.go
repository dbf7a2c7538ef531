package renderer

import (
	"errors"
	"fmt"
	"math/bits"
	"runtime"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var (
	// ErrMissingField is returned when a required configuration field is unset
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidConfig is returned when a configuration field has an unusable value
	ErrInvalidConfig = errors.New("invalid configuration")
)

const (
	// ThreadsAllButSpare renders with every CPU but spareThreads, at least one
	ThreadsAllButSpare = -2
	spareThreads       = 2

	// DefaultAdaptiveDepth is the subdivision depth used for adaptive
	// supersampling when no ray budget is given (down to 1/8 of a pixel)
	DefaultAdaptiveDepth = 3
)

// CameraConfig describes a pinhole camera and how it samples pixels.
// The zero Position is the origin; every other geometric field is required.
type CameraConfig struct {
	Position core.Vec3
	To       core.Vec3 // Viewing direction
	Up       core.Vec3 // Must be perpendicular to To

	Width    float64 // View plane size in scene units
	Height   float64
	Distance float64 // View plane distance from Position

	Threads          int           // 0 renders sequentially, n > 0 uses n workers, ThreadsAllButSpare
	SuperSampling    int           // Rays per pixel side; 0 or 1 casts a single ray
	Adaptive         bool          // Subdivide only where samples disagree, up to the SuperSampling grid
	ProgressInterval time.Duration // Minimum time between progress reports; 0 disables them
}

// NewCameraConfig places the camera where the scene's view suggests, with
// sequential single-ray sampling
func NewCameraConfig(view scene.View) CameraConfig {
	return CameraConfig{
		Position: view.Position,
		To:       view.To,
		Up:       view.Up,
		Width:    view.Width,
		Height:   view.Height,
		Distance: view.Distance,
	}
}

// Camera generates rays for rendering. It is immutable once built and safe
// to share between render workers.
type Camera struct {
	position core.Vec3
	to       core.Vec3
	up       core.Vec3
	right    core.Vec3
	center   core.Vec3 // View plane center

	width    float64
	height   float64
	distance float64

	threads          int
	superSampling    int
	adaptive         bool
	adaptiveDepth    int
	progressInterval time.Duration
}

// Build validates the configuration and creates a camera. All problems are
// reported together; the first one names the first failing field.
func (cfg CameraConfig) Build() (*Camera, error) {
	var errs []error

	to, toErr := cfg.To.Unit()
	up, upErr := cfg.Up.Unit()
	switch {
	case toErr != nil && upErr != nil:
		errs = append(errs, fmt.Errorf("direction vectors (To and Up): %w", ErrMissingField))
	case toErr != nil:
		errs = append(errs, fmt.Errorf("direction vector To: %w", ErrMissingField))
	case upErr != nil:
		errs = append(errs, fmt.Errorf("direction vector Up: %w", ErrMissingField))
	case to.Cross(up).IsZero():
		errs = append(errs, fmt.Errorf("direction vectors %v and %v are parallel: %w", cfg.To, cfg.Up, ErrInvalidConfig))
	case !core.IsZero(to.Dot(up)):
		errs = append(errs, fmt.Errorf("direction vectors %v and %v are not perpendicular: %w", cfg.To, cfg.Up, ErrInvalidConfig))
	}

	switch {
	case cfg.Width == 0 || cfg.Height == 0:
		errs = append(errs, fmt.Errorf("view plane size (Width and Height): %w", ErrMissingField))
	case core.AlignZero(cfg.Width) <= 0 || core.AlignZero(cfg.Height) <= 0:
		errs = append(errs, fmt.Errorf("view plane size %gx%g must be positive: %w", cfg.Width, cfg.Height, ErrInvalidConfig))
	}

	switch {
	case cfg.Distance == 0:
		errs = append(errs, fmt.Errorf("view plane distance (Distance): %w", ErrMissingField))
	case core.AlignZero(cfg.Distance) <= 0:
		errs = append(errs, fmt.Errorf("view plane distance %g must be positive: %w", cfg.Distance, ErrInvalidConfig))
	}

	if cfg.Threads < 0 && cfg.Threads != ThreadsAllButSpare {
		errs = append(errs, fmt.Errorf("threads %d: must be 0, positive or %d: %w", cfg.Threads, ThreadsAllButSpare, ErrInvalidConfig))
	}
	if cfg.SuperSampling < 0 {
		errs = append(errs, fmt.Errorf("super sampling %d must not be negative: %w", cfg.SuperSampling, ErrInvalidConfig))
	}
	if cfg.ProgressInterval < 0 {
		errs = append(errs, fmt.Errorf("progress interval %v must not be negative: %w", cfg.ProgressInterval, ErrInvalidConfig))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Camera{
		position:         cfg.Position,
		to:               to,
		up:               up,
		right:            to.Cross(up).Normalize(),
		center:           cfg.Position.Add(to.Multiply(cfg.Distance)),
		width:            cfg.Width,
		height:           cfg.Height,
		distance:         cfg.Distance,
		threads:          resolveThreads(cfg.Threads),
		superSampling:    max(1, cfg.SuperSampling),
		adaptive:         cfg.Adaptive,
		adaptiveDepth:    adaptiveDepth(cfg.SuperSampling),
		progressInterval: cfg.ProgressInterval,
	}, nil
}

// resolveThreads maps the thread setting to a worker count, 0 meaning sequential
func resolveThreads(threads int) int {
	if threads != ThreadsAllButSpare {
		return threads
	}
	return max(1, runtime.NumCPU()-spareThreads)
}

// adaptiveDepth is the number of halvings needed to reach an n x n grid
func adaptiveDepth(n int) int {
	if n <= 1 {
		return DefaultAdaptiveDepth
	}
	return bits.Len(uint(n - 1))
}

// Position returns the camera location
func (c *Camera) Position() core.Vec3 { return c.position }

// To returns the unit viewing direction
func (c *Camera) To() core.Vec3 { return c.to }

// Up returns the unit up direction
func (c *Camera) Up() core.Vec3 { return c.up }

// Right returns the unit right direction, To × Up
func (c *Camera) Right() core.Vec3 { return c.right }

// Threads returns the resolved worker count, 0 for sequential rendering
func (c *Camera) Threads() int { return c.threads }

// Clone returns an independent copy of the camera
func (c *Camera) Clone() *Camera {
	clone := *c
	return &clone
}

// WithThreads returns a copy rendering with a different thread setting
func (c *Camera) WithThreads(threads int) (*Camera, error) {
	if threads < 0 && threads != ThreadsAllButSpare {
		return nil, fmt.Errorf("threads %d: %w", threads, ErrInvalidConfig)
	}
	clone := c.Clone()
	clone.threads = resolveThreads(threads)
	return clone, nil
}

// RayThroughPixel constructs the ray from the camera through the center of
// pixel (col, row) of an nX by nY image. Row 0 is the top of the image.
func (c *Camera) RayThroughPixel(nX, nY, col, row int) core.Ray {
	return c.rayThroughPoint(nX, nY, float64(col)+0.5, float64(row)+0.5)
}

// rayThroughPoint constructs the ray through a point given in pixel units
// from the top-left corner of the view plane, so (col+0.5, row+0.5) is the
// center of pixel (col, row)
func (c *Camera) rayThroughPoint(nX, nY int, x, y float64) core.Ray {
	rX := c.width / float64(nX)
	rY := c.height / float64(nY)
	xJ := (x - float64(nX)/2) * rX
	yI := -(y - float64(nY)/2) * rY

	p := c.center
	if !core.IsZero(xJ) {
		p = p.Add(c.right.Multiply(xJ))
	}
	if !core.IsZero(yI) {
		p = p.Add(c.up.Multiply(yI))
	}
	return core.NewRay(c.position, p.Subtract(c.position))
}
