package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

// AmbientLight is a uniform fill term added once per traced pixel ray
type AmbientLight struct {
	intensity core.Color
}

// NoAmbient contributes nothing
var NoAmbient = AmbientLight{}

// NewAmbientLight scales the base color iA by the attenuation kA
func NewAmbientLight(iA core.Color, kA float64) AmbientLight {
	return AmbientLight{intensity: iA.Scale(kA)}
}

// NewAmbientLightRGB scales the base color iA per channel
func NewAmbientLightRGB(iA core.Color, kA core.Vec3) AmbientLight {
	return AmbientLight{intensity: iA.ScaleVec(kA)}
}

// Intensity returns the ambient intensity
func (a AmbientLight) Intensity() core.Color {
	return a.intensity
}
