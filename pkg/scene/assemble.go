package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// assembler builds surfaces for a scene, keeping the first constructor error
// so scene code can read as a flat list of objects
type assembler struct {
	s   *Scene
	err error
}

func (a *assembler) keep(err error) bool {
	if err != nil && a.err == nil {
		a.err = err
	}
	return err == nil
}

func (a *assembler) sphere(center core.Vec3, radius float64, emission core.Color, m material.Material) {
	if sp, err := geometry.NewSphere(center, radius); a.keep(err) {
		a.s.Add(geometry.With(sp, emission, m))
	}
}

func (a *assembler) plane(point, normal core.Vec3, emission core.Color, m material.Material) {
	if pl, err := geometry.NewPlane(point, normal); a.keep(err) {
		a.s.Add(geometry.With(pl, emission, m))
	}
}

func (a *assembler) triangle(v0, v1, v2 core.Vec3, emission core.Color, m material.Material) {
	if tr, err := geometry.NewTriangle(v0, v1, v2); a.keep(err) {
		a.s.Add(geometry.With(tr, emission, m))
	}
}

func (a *assembler) quad(corner, u, v core.Vec3, emission core.Color, m material.Material) {
	if q, err := geometry.NewQuad(corner, u, v); a.keep(err) {
		a.s.Add(geometry.With(q, emission, m))
	}
}

func (a *assembler) box(center, size core.Vec3, emission core.Color, m material.Material) {
	if b, err := geometry.NewAxisAlignedBox(center, size, emission, m); a.keep(err) {
		a.s.Add(b)
	}
}

func (a *assembler) light(l lights.LightSource, err error) {
	if a.keep(err) {
		a.s.AddLight(l)
	}
}

// result returns the scene, or the first error met while assembling it
func (a *assembler) result() (*Scene, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.s, nil
}
