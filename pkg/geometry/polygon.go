package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Polygon is a flat convex polygon given by its vertices in winding order
type Polygon struct {
	Surface
	vertices []core.Vec3
	plane    *Plane
}

// NewPolygon validates and creates a polygon. The vertices must be at least
// three, coplanar, ordered along the edge path, and form a convex polygon
// with no vertex lying on another edge.
func NewPolygon(vertices ...core.Vec3) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d: %w", len(vertices), ErrInvalidGeometry)
	}

	plane, err := NewPlaneFromPoints(vertices[0], vertices[1], vertices[2])
	if err != nil {
		return nil, err
	}
	p := &Polygon{
		vertices: append([]core.Vec3(nil), vertices...),
		plane:    plane,
	}
	if len(vertices) == 3 {
		return p, nil
	}

	n := plane.normal
	size := len(vertices)
	edge1 := vertices[size-1].Subtract(vertices[size-2])
	edge2 := vertices[0].Subtract(vertices[size-1])
	turn, ok := edgeTurn(edge1, edge2, n)
	if !ok {
		return nil, fmt.Errorf("polygon vertex %d: on an edge or repeated: %w", size-1, ErrInvalidGeometry)
	}
	for i := 1; i < size; i++ {
		if !core.IsZero(vertices[i].Subtract(vertices[0]).Dot(n)) {
			return nil, fmt.Errorf("polygon vertex %d: not in the plane of the first three: %w", i, ErrInvalidGeometry)
		}
		edge1 = edge2
		edge2 = vertices[i].Subtract(vertices[i-1])
		t, ok := edgeTurn(edge1, edge2, n)
		if !ok {
			return nil, fmt.Errorf("polygon vertex %d: on an edge or repeated: %w", i, ErrInvalidGeometry)
		}
		if t != turn {
			return nil, fmt.Errorf("polygon vertex %d: not convex or inconsistent winding: %w", i, ErrInvalidGeometry)
		}
	}
	return p, nil
}

// edgeTurn reports on which side of n two consecutive edges turn, failing
// when an edge is empty or the edges are parallel
func edgeTurn(edge1, edge2, n core.Vec3) (bool, bool) {
	if edge1.IsZero() || edge2.IsZero() {
		return false, false
	}
	cross := edge1.Cross(edge2)
	if cross.IsZero() {
		return false, false
	}
	return cross.Dot(n) > 0, true
}

// NewQuad creates a parallelogram from a corner and two edge vectors
func NewQuad(corner, u, v core.Vec3) (*Polygon, error) {
	return NewPolygon(corner, corner.Add(u), corner.Add(u).Add(v), corner.Add(v))
}

// Vertices returns a copy of the vertex list
func (p *Polygon) Vertices() []core.Vec3 {
	return append([]core.Vec3(nil), p.vertices...)
}

// Normal returns the normal of the supporting plane
func (p *Polygon) Normal(core.Vec3) core.Vec3 {
	return p.plane.normal
}

// FindGeoIntersections intersects the supporting plane, then requires the
// ray to pass strictly inside every edge plane spanned by the ray origin and
// an edge. Hits on an edge or vertex are misses.
func (p *Polygon) FindGeoIntersections(ray core.Ray) []GeoPoint {
	planeHits := p.plane.FindGeoIntersections(ray)
	if planeHits == nil {
		return nil
	}

	sign := 0
	size := len(p.vertices)
	for i := 0; i < size; i++ {
		vi := p.vertices[i].Subtract(ray.Origin)
		vNext := p.vertices[(i+1)%size].Subtract(ray.Origin)
		edgeNormal := vi.Cross(vNext)
		if edgeNormal.IsZero() {
			return nil
		}
		s := core.Sign(ray.Direction.Dot(edgeNormal.Normalize()))
		if s == 0 || (sign != 0 && s != sign) {
			return nil
		}
		sign = s
	}
	return []GeoPoint{{Geometry: p, Point: planeHits[0].Point}}
}
