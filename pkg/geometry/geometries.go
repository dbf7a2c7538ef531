package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// Geometries is a composite of intersectables, tested linearly
type Geometries struct {
	items []Intersectable
}

// NewGeometries creates an aggregate holding items
func NewGeometries(items ...Intersectable) *Geometries {
	g := &Geometries{}
	g.Add(items...)
	return g
}

// Add appends items to the aggregate
func (g *Geometries) Add(items ...Intersectable) {
	g.items = append(g.items, items...)
}

// Len returns the number of direct children
func (g *Geometries) Len() int {
	return len(g.items)
}

// FindGeoIntersections unions the hits of every child without sorting or
// deduplicating. It returns nil if every child misses.
func (g *Geometries) FindGeoIntersections(ray core.Ray) []GeoPoint {
	var hits []GeoPoint
	for _, item := range g.items {
		hits = append(hits, item.FindGeoIntersections(ray)...)
	}
	return hits
}
