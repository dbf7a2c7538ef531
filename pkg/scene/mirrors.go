package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewMirrorsScene places a sphere between two facing mirrors, producing a
// corridor of reflections that only the recursion limits stop
func NewMirrorsScene(opts Options) (*Scene, error) {
	s := NewScene("mirrors")
	s.Background = core.NewColor(10, 10, 30)
	s.Ambient = lights.NewAmbientLight(core.NewColor(255, 255, 255), 0.05)
	s.View = View{
		Position: core.NewVec3(0, 60, 400),
		To:       core.NewVec3(0, -0.15, -1),
		Up:       core.NewVec3(0, 1, -0.15),
		Width:    250,
		Height:   250,
		Distance: 400,
	}

	mirror := material.Material{
		KD:        core.Uniform(0.05),
		KR:        core.Uniform(0.95),
		KS:        core.Uniform(0.2),
		Shininess: 200,
	}

	a := &assembler{s: s}

	// Facing mirrors at x = ±150
	a.quad(core.NewVec3(-150, -50, 150), core.NewVec3(0, 0, -400), core.NewVec3(0, 250, 0), core.Black, mirror)
	a.quad(core.NewVec3(150, -50, -250), core.NewVec3(0, 0, 400), core.NewVec3(0, 250, 0), core.Black, mirror)

	// Checker-free floor
	a.plane(core.NewVec3(0, -50, 0), core.NewVec3(0, 1, 0), core.NewColor(30, 30, 30), material.NewMatte(0.4))

	a.sphere(core.NewVec3(0, 0, -50), 50, core.NewColor(120, 40, 0), material.NewPlastic(0.5, 0.5, 60))
	a.sphere(core.NewVec3(60, -30, 40), 20, core.NewColor(0, 60, 120), material.NewGlass(0.6))

	point := lights.NewPointLight(core.NewColor(400, 400, 400), core.NewVec3(0, 180, 100))
	a.keep(point.SetAttenuation(1, 0.0002, 0.000002))
	if opts.SoftShadows {
		a.keep(point.SetSoftShadows(30, 0, opts.Sampler))
	}
	s.AddLight(point)

	return a.result()
}
