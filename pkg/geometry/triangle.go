package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// Triangle is a three-vertex polygon
type Triangle struct {
	Polygon
}

// NewTriangle creates a triangle, failing for coincident or collinear vertices
func NewTriangle(v0, v1, v2 core.Vec3) (*Triangle, error) {
	p, err := NewPolygon(v0, v1, v2)
	if err != nil {
		return nil, err
	}
	return &Triangle{Polygon: *p}, nil
}

// FindGeoIntersections reports hits with the triangle itself as the geometry
func (t *Triangle) FindGeoIntersections(ray core.Ray) []GeoPoint {
	hits := t.Polygon.FindGeoIntersections(ray)
	for i := range hits {
		hits[i].Geometry = t
	}
	return hits
}
