package lights

import (
	"errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidLight is returned by light constructors given unusable parameters
var ErrInvalidLight = errors.New("invalid light")

type LightType string

const (
	LightTypeDirectional LightType = "directional"
	LightTypePoint       LightType = "point"
	LightTypeSpot        LightType = "spot"
	LightTypeArea        LightType = "area"
)

// Sample is one shadow-ray target: the light -> p direction and the
// distance from p to the sampled point on the light (+Inf at infinity)
type Sample struct {
	L        core.Vec3
	Distance float64
}

// LightSource is a light the shader queries at a surface point
type LightSource interface {
	Type() LightType

	// Intensity returns the light arriving at p, before shadowing
	Intensity(p core.Vec3) core.Color

	// L returns the unit direction the light travels to reach p (light -> p)
	L(p core.Vec3) core.Vec3

	// Samples returns L(p) and Distance(p) for hard shadows, or a fan of
	// sampled points on the light for soft shadows. The shader averages over
	// the result and cuts each shadow ray off at its sample's distance.
	Samples(p core.Vec3) []Sample

	// Distance from the light centre to p; +Inf for lights at infinity
	Distance(p core.Vec3) float64
}
