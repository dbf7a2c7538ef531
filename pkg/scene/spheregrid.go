package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to a 0..255 RGB color
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	// Convert hue from degrees to radians
	hRad := h * math.Pi / 180.0

	// Convert from OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// Convert from OKLAB to linear RGB
	// Using simplified approximation for OKLAB to RGB conversion
	// This is not perfectly accurate but good enough for our purposes

	// First convert to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	// Cube the values
	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// Convert LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	// Clamp to [0, 1] range
	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewColor(r*255, g*255, blue*255)
}

// NewSphereGridScene creates a scene with a 10x10 grid of glossy spheres
// whose emission sweeps hue across one axis and chroma across the other
func NewSphereGridScene(opts Options) (*Scene, error) {
	s := NewScene("sphere-grid")
	s.Background = core.NewColor(128, 178, 255)
	s.Ambient = lights.NewAmbientLight(core.NewColor(255, 255, 255), 0.05)
	s.View = View{
		Position: core.NewVec3(4.5, 6, 18),
		To:       core.NewVec3(0, -5.2, -13.5), // Towards the grid center, slightly lower
		Up:       core.NewVec3(0, 13.5, -5.2),
		Width:    128,
		Height:   72,
		Distance: 100,
	}

	a := &assembler{s: s}

	// Ground plane
	a.plane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewColor(40, 40, 40), material.NewMatte(0.5))

	gridSize := 10

	// Fit the grid into a 9x9 area centered on x=z=4.5
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	// OKLCH parameters for color variation
	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z)

			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			// Alternate glossiness and reflectivity across the grid
			kr := 0.1 + 0.2*float64((i+j)%3)/2.0
			m := material.NewPlastic(0.4, 0.4, 80).WithKR(kr)

			a.sphere(position, sphereRadius, oklchToRGB(lightness, chroma, hue).Scale(0.4), m)
		}
	}

	// Sun-like light high and to the side
	sun := lights.NewPointLight(core.NewColor(300, 290, 260), core.NewVec3(20, 25, 20))
	if opts.SoftShadows {
		a.keep(sun.SetSoftShadows(8, 0, opts.Sampler))
	}
	s.AddLight(sun)

	return a.result()
}
