package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// ClosestPoint picks the hit nearest to the ray origin by squared distance.
// It reports false for an empty set.
func ClosestPoint(ray core.Ray, points []GeoPoint) (GeoPoint, bool) {
	if len(points) == 0 {
		return GeoPoint{}, false
	}
	closest := points[0]
	closestDistance := ray.Origin.DistanceSquared(closest.Point)
	for _, gp := range points[1:] {
		if d := ray.Origin.DistanceSquared(gp.Point); d < closestDistance {
			closest = gp
			closestDistance = d
		}
	}
	return closest, true
}

// FindClosestIntersection intersects the ray with i and returns the nearest hit
func FindClosestIntersection(i Intersectable, ray core.Ray) (GeoPoint, bool) {
	return ClosestPoint(ray, i.FindGeoIntersections(ray))
}

// FindIntersections returns only the intersection points, nil on a miss
func FindIntersections(i Intersectable, ray core.Ray) []core.Vec3 {
	geoPoints := i.FindGeoIntersections(ray)
	if geoPoints == nil {
		return nil
	}
	points := make([]core.Vec3, len(geoPoints))
	for idx, gp := range geoPoints {
		points[idx] = gp.Point
	}
	return points
}
