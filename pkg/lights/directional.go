package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DirectionalLight is a light at infinite distance shining along a fixed direction
type DirectionalLight struct {
	intensity core.Color
	direction core.Vec3
}

// NewDirectionalLight creates a light travelling along direction
func NewDirectionalLight(intensity core.Color, direction core.Vec3) (*DirectionalLight, error) {
	d, err := direction.Unit()
	if err != nil {
		return nil, fmt.Errorf("directional light: %w: %w", ErrInvalidLight, err)
	}
	return &DirectionalLight{intensity: intensity, direction: d}, nil
}

func (dl *DirectionalLight) Type() LightType {
	return LightTypeDirectional
}

// Intensity is the same everywhere
func (dl *DirectionalLight) Intensity(core.Vec3) core.Color {
	return dl.intensity
}

// L is the fixed light direction
func (dl *DirectionalLight) L(core.Vec3) core.Vec3 {
	return dl.direction
}

// Samples returns the single light direction; directional lights cast hard shadows
func (dl *DirectionalLight) Samples(core.Vec3) []Sample {
	return []Sample{{L: dl.direction, Distance: math.Inf(1)}}
}

// Distance is infinite
func (dl *DirectionalLight) Distance(core.Vec3) float64 {
	return math.Inf(1)
}
