package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// RayTracer defines the interface for computing the color seen along a ray
type RayTracer interface {
	// TraceRay returns the color carried back along ray. Implementations must
	// be safe for concurrent use; the scene is only read.
	TraceRay(ray core.Ray) core.Color
}

// Config bounds the recursive evaluation of a ray
type Config struct {
	MaxLevel int     // Maximum recursion depth, counting the primary hit
	MinK     float64 // Cumulative attenuation below which a branch is dropped
	Delta    float64 // Secondary ray origin offset along the surface normal
}

// DefaultConfig returns the standard recursion limits
func DefaultConfig() Config {
	return Config{
		MaxLevel: 10,
		MinK:     0.001,
		Delta:    core.Delta,
	}
}
