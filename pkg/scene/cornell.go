package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewCornellScene creates a classic Cornell box with a mirror sphere and a
// glass sphere. With soft shadows the ceiling light is an area light;
// otherwise it is a single point light.
func NewCornellScene(opts Options) (*Scene, error) {
	s := NewScene("cornell-box")
	s.Ambient = lights.NewAmbientLight(core.NewColor(255, 255, 255), 0.05)

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0

	s.View = View{
		Position: core.NewVec3(278, 278, -800),
		To:       core.NewVec3(0, 0, 1),
		Up:       core.NewVec3(0, 1, 0),
		Width:    580,
		Height:   580,
		Distance: 800,
	}

	white := material.NewMatte(0.73)
	whiteColor := core.NewColor(40, 40, 40)
	redColor := core.NewColor(120, 10, 10)
	greenColor := core.NewColor(20, 90, 25)

	a := &assembler{s: s}

	// Floor - XZ plane at y=0
	a.quad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), whiteColor, white)
	// Ceiling - XZ plane at y=boxSize
	a.quad(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), whiteColor, white)
	// Back wall - XY plane at z=boxSize
	a.quad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), whiteColor, white)
	// Left wall - YZ plane at x=0
	a.quad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), redColor, white)
	// Right wall - YZ plane at x=boxSize
	a.quad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), greenColor, white)

	// Left sphere (mirror) and right sphere (glass)
	a.sphere(core.NewVec3(185, 82.5, 169), 82.5, core.NewColor(5, 5, 8), material.NewMirror(0.8))
	a.sphere(core.NewVec3(370, 90, 351), 90, core.NewColor(10, 20, 30), material.NewGlass(0.7))

	// Short block in front of the glass sphere
	a.box(core.NewVec3(400, 40, 140), core.NewVec3(50, 40, 50), core.NewColor(60, 60, 20), material.NewPlastic(0.5, 0.3, 40))

	lightSize := 130.0
	lightCenter := core.NewVec3(boxSize/2, boxSize-1, boxSize/2)
	intensity := core.NewColor(230, 230, 230)
	if opts.SoftShadows {
		a.light(lights.NewAreaLight(intensity, lightCenter, lightSize, lightSize,
			core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), lights.DefaultAreaSamples, opts.Sampler))
	} else {
		point := lights.NewPointLight(intensity, lightCenter)
		a.keep(point.SetAttenuation(1, 0.0005, 0.000001))
		s.AddLight(point)
	}

	return a.result()
}
