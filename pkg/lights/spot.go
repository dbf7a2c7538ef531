package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// SpotLight is a point light whose intensity falls off with the cosine of
// the angle between its axis and the direction to the point
type SpotLight struct {
	*PointLight
	direction  core.Vec3
	narrowness float64
}

// NewSpotLight creates a spot light aimed along direction
func NewSpotLight(intensity core.Color, position, direction core.Vec3) (*SpotLight, error) {
	d, err := direction.Unit()
	if err != nil {
		return nil, fmt.Errorf("spot light: %w: %w", ErrInvalidLight, err)
	}
	return &SpotLight{
		PointLight: NewPointLight(intensity, position),
		direction:  d,
		narrowness: 1,
	}, nil
}

// SetNarrowness raises the cosine falloff to the given power (>= 1) for a tighter beam
func (sl *SpotLight) SetNarrowness(n float64) error {
	if n < 1 {
		return fmt.Errorf("spot narrowness %g: %w", n, ErrInvalidLight)
	}
	sl.narrowness = n
	return nil
}

func (sl *SpotLight) Type() LightType {
	return LightTypeSpot
}

// Intensity scales the point-light intensity by max(0, dir·l)^narrowness
func (sl *SpotLight) Intensity(p core.Vec3) core.Color {
	cos := math.Max(0, sl.direction.Dot(sl.L(p)))
	if sl.narrowness != 1 {
		cos = math.Pow(cos, sl.narrowness)
	}
	return sl.PointLight.Intensity(p).Scale(cos)
}
