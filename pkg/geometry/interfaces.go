package geometry

import (
	"errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ErrInvalidGeometry is returned by constructors given degenerate input
var ErrInvalidGeometry = errors.New("invalid geometry")

// Intersectable is anything a ray can be tested against.
// FindGeoIntersections returns nil when the ray misses; only hits at a
// strictly positive ray parameter are reported, in no particular order.
type Intersectable interface {
	FindGeoIntersections(ray core.Ray) []GeoPoint
}

// Geometry is a single surface with a normal, emission and material
type Geometry interface {
	Intersectable
	Normal(point core.Vec3) core.Vec3
	Emission() core.Color
	Material() material.Material
}

// GeoPoint is a hit record: the intersection point and the surface it lies on.
// It refers to the surface without owning it.
type GeoPoint struct {
	Geometry Geometry
	Point    core.Vec3
}

// Surface carries the emission and material shared by every geometry variant
type Surface struct {
	emission core.Color
	material material.Material
}

// Emission returns the light emitted by the surface
func (s *Surface) Emission() core.Color {
	return s.emission
}

// Material returns the surface material
func (s *Surface) Material() material.Material {
	return s.material
}

// SetEmission sets the emitted color; only call while assembling a scene
func (s *Surface) SetEmission(emission core.Color) {
	s.emission = emission
}

// SetMaterial sets the material; only call while assembling a scene
func (s *Surface) SetMaterial(m material.Material) {
	s.material = m
}

type styled interface {
	Geometry
	SetEmission(core.Color)
	SetMaterial(material.Material)
}

// With sets emission and material on g and returns it, for compact scene assembly
func With[T styled](g T, emission core.Color, m material.Material) T {
	g.SetEmission(emission)
	g.SetMaterial(m)
	return g
}
