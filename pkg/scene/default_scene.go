package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates a scene with a transparent sphere holding a smaller
// one, a mirror sphere and a triangle over a reflective floor, lit by a spot,
// a point and a directional light
func NewDefaultScene(opts Options) (*Scene, error) {
	s := NewScene("default")
	s.Background = core.NewColor(20, 25, 40)
	s.Ambient = lights.NewAmbientLight(core.NewColor(255, 191, 191), 0.1)
	s.View = View{
		Position: core.NewVec3(0, 40, 1000),
		To:       core.NewVec3(0, -0.04, -1),
		Up:       core.NewVec3(0, 1, -0.04),
		Width:    200,
		Height:   200,
		Distance: 1000,
	}

	a := &assembler{s: s}

	// Floor
	a.plane(core.NewVec3(0, -50, 0), core.NewVec3(0, 1, 0),
		core.NewColor(15, 15, 15), material.NewMatte(0.5).WithKR(0.25))

	// Transparent shell with an opaque core
	a.sphere(core.NewVec3(0, 0, -100), 50,
		core.NewColor(0, 0, 100), material.NewPlastic(0.4, 0.3, 100).WithKT(0.5))
	a.sphere(core.NewVec3(0, 0, -100), 25,
		core.NewColor(100, 20, 20), material.NewPlastic(0.5, 0.5, 100))

	// Mirror sphere to the left
	a.sphere(core.NewVec3(-110, -10, -60), 40,
		core.NewColor(10, 10, 10), material.NewMirror(0.7))

	// Green triangle at the back right
	a.triangle(core.NewVec3(60, -50, -250), core.NewVec3(200, -50, -200), core.NewVec3(120, 90, -240),
		core.NewColor(20, 80, 30), material.NewPlastic(0.6, 0.2, 30))

	spot, err := lights.NewSpotLight(core.NewColor(700, 400, 400), core.NewVec3(-100, 100, 500), core.NewVec3(1, -1, -3))
	if a.keep(err) {
		a.keep(spot.SetAttenuation(1, 0.0004, 0.0000006))
		a.keep(spot.SetNarrowness(2))
		if opts.SoftShadows {
			a.keep(spot.SetSoftShadows(25, 0, opts.Sampler))
		}
		s.AddLight(spot)
	}

	point := lights.NewPointLight(core.NewColor(500, 300, 0), core.NewVec3(150, 150, 100))
	a.keep(point.SetAttenuation(1, 0.00001, 0.000005))
	if opts.SoftShadows {
		a.keep(point.SetSoftShadows(25, 0, opts.Sampler))
	}
	s.AddLight(point)

	a.light(lights.NewDirectionalLight(core.NewColor(60, 60, 60), core.NewVec3(0.5, -1, -1)))

	return a.result()
}
