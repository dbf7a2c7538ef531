package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrZeroVector is returned (or panicked with) when a direction is built from a zero-length vector
var ErrZeroVector = errors.New("zero vector")

// Vec3 represents a 3D point or vector
type Vec3 struct {
	X, Y, Z float64
}

// Zero is the origin point
var Zero = Vec3{}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// NewVector creates a direction vector, failing for the zero vector
func NewVector(x, y, z float64) (Vec3, error) {
	v := Vec3{X: x, Y: y, Z: z}
	if v.IsZero() {
		return Vec3{}, fmt.Errorf("vector (%g, %g, %g): %w", x, y, z, ErrZeroVector)
	}
	return v, nil
}

// Uniform returns a vector with all three components set to k
func Uniform(k float64) Vec3 {
	return Vec3{k, k, k}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// MultiplyVec returns component-wise multiplication of two vectors
func (v Vec3) MultiplyVec(other Vec3) Vec3 {
	return Vec3{
		X: v.X * other.X,
		Y: v.Y * other.Y,
		Z: v.Z * other.Z,
	}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// DistanceSquared returns the squared distance between two points
func (v Vec3) DistanceSquared(other Vec3) float64 {
	return v.Subtract(other).LengthSquared()
}

// Distance returns the distance between two points
func (v Vec3) Distance(other Vec3) float64 {
	return math.Sqrt(v.DistanceSquared(other))
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// IsZero reports whether every component is within tolerance of zero
func (v Vec3) IsZero() bool {
	return IsZero(v.X) && IsZero(v.Y) && IsZero(v.Z)
}

// Normalize returns a unit vector in the same direction.
// Normalizing a zero vector panics with ErrZeroVector; use TryNormalize where
// degeneracy is a numerical edge case rather than a programming error.
func (v Vec3) Normalize() Vec3 {
	n, ok := v.TryNormalize()
	if !ok {
		panic(fmt.Errorf("normalize %v: %w", v, ErrZeroVector))
	}
	return n
}

// TryNormalize returns the unit vector and true, or false for a zero vector
func (v Vec3) TryNormalize() (Vec3, bool) {
	length := v.Length()
	if IsZero(length) {
		return Vec3{}, false
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}, true
}

// Unit is the checked form of Normalize for construction-time validation
func (v Vec3) Unit() (Vec3, error) {
	n, ok := v.TryNormalize()
	if !ok {
		return Vec3{}, fmt.Errorf("normalize %v: %w", v, ErrZeroVector)
	}
	return n, nil
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{
		X: -v.X,
		Y: -v.Y,
		Z: -v.Z,
	}
}

// Reflect returns v mirrored about the unit normal n: v - 2(n·v)n
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Subtract(n.Multiply(2 * n.Dot(v)))
}

// AllBelow reports whether every component is strictly below threshold
func (v Vec3) AllBelow(threshold float64) bool {
	return v.X < threshold && v.Y < threshold && v.Z < threshold
}

// Equals compares two vectors within tolerance
func (v Vec3) Equals(other Vec3) bool {
	return v.Subtract(other).IsZero()
}

// Orthonormal returns two unit vectors perpendicular to the unit vector n and to each other
func Orthonormal(n Vec3) (Vec3, Vec3) {
	var helper Vec3
	if math.Abs(n.X) > 0.1 {
		helper = NewVec3(0, 1, 0)
	} else {
		helper = NewVec3(1, 0, 0)
	}
	tangent := helper.Cross(n).Normalize()
	bitangent := n.Cross(tangent)
	return tangent, bitangent
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
