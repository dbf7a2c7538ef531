package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering.
// It is assembled once and only read while rendering.
type Scene struct {
	Name       string
	Background core.Color
	Ambient    lights.AmbientLight
	Geometries *geometry.Geometries
	Lights     []lights.LightSource
	View       View // Suggested camera placement
}

// View is the camera placement a scene was composed for
type View struct {
	Position core.Vec3
	To       core.Vec3 // Forward direction
	Up       core.Vec3
	Width    float64 // View plane size
	Height   float64
	Distance float64 // View plane distance
}

// Options control how built-in scenes are assembled
type Options struct {
	SoftShadows bool
	Sampler     core.Sampler // Jitter source for soft shadows; nil gives regular grids
}

// NewScene creates an empty scene with a black background and no ambient light
func NewScene(name string) *Scene {
	return &Scene{
		Name:       name,
		Background: core.Black,
		Ambient:    lights.NoAmbient,
		Geometries: geometry.NewGeometries(),
		View: View{
			Position: core.NewVec3(0, 0, 0),
			To:       core.NewVec3(0, 0, -1),
			Up:       core.NewVec3(0, 1, 0),
			Width:    3,
			Height:   3,
			Distance: 1,
		},
	}
}

// Add appends surfaces to the scene
func (s *Scene) Add(items ...geometry.Intersectable) {
	s.Geometries.Add(items...)
}

// AddLight appends light sources to the scene
func (s *Scene) AddLight(ls ...lights.LightSource) {
	s.Lights = append(s.Lights, ls...)
}

// GetPrimitiveCount returns the number of top-level surfaces in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.Geometries.Len()
}

// NewGroundQuad creates a large horizontal quad centered at the given point,
// facing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, emission core.Color, m material.Material) (*geometry.Polygon, error) {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) = (0,size²,0)
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	q, err := geometry.NewQuad(corner, u, v)
	if err != nil {
		return nil, err
	}
	return geometry.With(q, emission, m), nil
}
