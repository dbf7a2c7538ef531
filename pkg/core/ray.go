package core

// Delta is the default distance secondary ray origins are pushed off a surface
const Delta = 0.1

// Ray represents a ray with an origin and a unit direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray, normalizing the direction
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// NewOffsetRay creates a ray whose origin is moved by delta along the normal,
// towards the side the direction points into. Secondary rays use this to
// avoid re-hitting the surface they start on.
func NewOffsetRay(point, direction, normal Vec3, delta float64) Ray {
	nd := AlignZero(normal.Dot(direction))
	origin := point
	if nd > 0 {
		origin = point.Add(normal.Multiply(delta))
	} else if nd < 0 {
		origin = point.Add(normal.Multiply(-delta))
	}
	return NewRay(origin, direction)
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	if IsZero(t) {
		return r.Origin
	}
	return r.Origin.Add(r.Direction.Multiply(t))
}
