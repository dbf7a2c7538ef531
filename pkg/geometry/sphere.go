package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Surface
	center        core.Vec3
	radius        float64
	radiusSquared float64
}

// NewSphere creates a new sphere; the radius must be positive
func NewSphere(center core.Vec3, radius float64) (*Sphere, error) {
	if core.AlignZero(radius) <= 0 {
		return nil, fmt.Errorf("sphere radius %g: %w", radius, ErrInvalidGeometry)
	}
	return &Sphere{center: center, radius: radius, radiusSquared: radius * radius}, nil
}

// Center returns the sphere centre
func (s *Sphere) Center() core.Vec3 { return s.center }

// Radius returns the sphere radius
func (s *Sphere) Radius() float64 { return s.radius }

// Normal returns the outward unit normal at a point on the sphere
func (s *Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.center).Normalize()
}

// FindGeoIntersections projects the centre onto the ray and solves for the
// two crossings. Tangent rays and crossings at t <= 0 are not reported.
func (s *Sphere) FindGeoIntersections(ray core.Ray) []GeoPoint {
	if ray.Origin.Equals(s.center) {
		return []GeoPoint{{Geometry: s, Point: ray.At(s.radius)}}
	}

	u := s.center.Subtract(ray.Origin)
	tm := ray.Direction.Dot(u)
	dSquared := u.LengthSquared() - tm*tm
	thSquared := core.AlignZero(s.radiusSquared - dSquared)
	if thSquared <= 0 {
		return nil
	}

	th := math.Sqrt(thSquared)
	var hits []GeoPoint
	if t1 := core.AlignZero(tm - th); t1 > 0 {
		hits = append(hits, GeoPoint{Geometry: s, Point: ray.At(t1)})
	}
	if t2 := core.AlignZero(tm + th); t2 > 0 {
		hits = append(hits, GeoPoint{Geometry: s, Point: ray.At(t2)})
	}
	return hits
}
