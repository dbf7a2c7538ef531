package lights

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DefaultAreaSamples is the number of directions sampled over an area light
const DefaultAreaSamples = 81

// AreaLight is a rectangle of constant intensity centered at position,
// spanning ±width/2 along u and ±height/2 along v
type AreaLight struct {
	intensity core.Color
	position  core.Vec3
	u, v      core.Vec3 // Full edge vectors
	samples   int
	sampler   core.Sampler
}

// NewAreaLight creates a rectangular light. u and v must be orthogonal and
// width and height positive. A nil sampler gives a regular grid.
func NewAreaLight(intensity core.Color, position core.Vec3, width, height float64, u, v core.Vec3, samples int, sampler core.Sampler) (*AreaLight, error) {
	if core.AlignZero(width) <= 0 || core.AlignZero(height) <= 0 {
		return nil, fmt.Errorf("area light size %gx%g: %w", width, height, ErrInvalidLight)
	}
	uu, err := u.Unit()
	if err != nil {
		return nil, fmt.Errorf("area light u: %w: %w", ErrInvalidLight, err)
	}
	vv, err := v.Unit()
	if err != nil {
		return nil, fmt.Errorf("area light v: %w: %w", ErrInvalidLight, err)
	}
	if !core.IsZero(uu.Dot(vv)) {
		return nil, fmt.Errorf("area light edges %v and %v are not orthogonal: %w", u, v, ErrInvalidLight)
	}
	if samples <= 0 {
		samples = DefaultAreaSamples
	}
	if sampler == nil {
		sampler = core.CenterSampler{}
	}
	return &AreaLight{
		intensity: intensity,
		position:  position,
		u:         uu.Multiply(width),
		v:         vv.Multiply(height),
		samples:   samples,
		sampler:   sampler,
	}, nil
}

func (al *AreaLight) Type() LightType {
	return LightTypeArea
}

// Intensity is constant over distance
func (al *AreaLight) Intensity(core.Vec3) core.Color {
	return al.intensity
}

// L returns the direction from the light centre to p
func (al *AreaLight) L(p core.Vec3) core.Vec3 {
	l, ok := p.Subtract(al.position).TryNormalize()
	if !ok {
		return al.u.Cross(al.v).Normalize()
	}
	return l
}

// Samples returns a jittered grid of points over the rectangle
func (al *AreaLight) Samples(p core.Vec3) []Sample {
	return sampleRectangle(p, al.position, al.u, al.v, al.samples, al.sampler)
}

// Distance from the light centre to p
func (al *AreaLight) Distance(p core.Vec3) float64 {
	return al.position.Distance(p)
}
