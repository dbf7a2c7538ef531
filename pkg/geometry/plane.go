package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Surface
	point  core.Vec3
	normal core.Vec3
}

// NewPlane creates a plane through point with the given normal (normalized here)
func NewPlane(point, normal core.Vec3) (*Plane, error) {
	n, err := normal.Unit()
	if err != nil {
		return nil, fmt.Errorf("plane normal: %w: %w", ErrInvalidGeometry, err)
	}
	return &Plane{point: point, normal: n}, nil
}

// NewPlaneFromPoints creates the plane through three points. The normal is
// (p2-p1)×(p3-p1); coincident or collinear points fail.
func NewPlaneFromPoints(p1, p2, p3 core.Vec3) (*Plane, error) {
	v1 := p2.Subtract(p1)
	v2 := p3.Subtract(p1)
	if v1.IsZero() || v2.IsZero() {
		return nil, fmt.Errorf("plane through %v, %v, %v: coincident points: %w", p1, p2, p3, ErrInvalidGeometry)
	}
	n, ok := v1.Cross(v2).TryNormalize()
	if !ok {
		return nil, fmt.Errorf("plane through %v, %v, %v: collinear points: %w", p1, p2, p3, ErrInvalidGeometry)
	}
	return &Plane{point: p1, normal: n}, nil
}

// Normal returns the plane normal, the same at every point
func (p *Plane) Normal(core.Vec3) core.Vec3 {
	return p.normal
}

// Point returns the reference point of the plane
func (p *Plane) Point() core.Vec3 {
	return p.point
}

// FindGeoIntersections solves t = N·(P0-O) / N·D
func (p *Plane) FindGeoIntersections(ray core.Ray) []GeoPoint {
	if ray.Origin.Equals(p.point) {
		return nil
	}

	denominator := p.normal.Dot(ray.Direction)
	// Ray parallel to the plane
	if core.IsZero(denominator) {
		return nil
	}

	t := core.AlignZero(p.normal.Dot(p.point.Subtract(ray.Origin)) / denominator)
	if t <= 0 {
		return nil
	}
	return []GeoPoint{{Geometry: p, Point: ray.At(t)}}
}
