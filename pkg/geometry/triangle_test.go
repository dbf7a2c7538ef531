package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestNewTriangle_Degenerate(t *testing.T) {
	tests := []struct {
		name       string
		v0, v1, v2 core.Vec3
	}{
		{"zero area collinear", core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), core.NewVec3(2, 2, 2)},
		{"repeated vertex", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTriangle(tt.v0, tt.v1, tt.v2); !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("Expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}

func TestTriangle_Normal(t *testing.T) {
	triangle, err := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	if err != nil {
		t.Fatalf("NewTriangle: %v", err)
	}

	n := triangle.Normal(core.NewVec3(0.2, 0.2, 0))
	if !n.Equals(core.NewVec3(0, 0, 1)) && !n.Equals(core.NewVec3(0, 0, -1)) {
		t.Errorf("Expected normal along the z axis, got %v", n)
	}
	if math.Abs(n.Length()-1) > 1e-9 {
		t.Errorf("Expected unit normal, got length %f", n.Length())
	}
}

func TestTriangle_FindGeoIntersections(t *testing.T) {
	triangle, err := NewTriangle(core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 1), core.NewVec3(0, 1, 1))
	if err != nil {
		t.Fatalf("NewTriangle: %v", err)
	}

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		expected  []core.Vec3
	}{
		{"inside the triangle", core.NewVec3(0, 0, 0), core.NewVec3(0.25, 0.25, 1), []core.Vec3{core.NewVec3(0.25, 0.25, 1)}},
		{"outside opposite an edge", core.NewVec3(1.5, 0.5, 0), core.NewVec3(0, 0, 1), nil},
		{"outside opposite a vertex", core.NewVec3(1, 1, 0), core.NewVec3(0, 0, 1), nil},
		{"on an edge", core.NewVec3(0.5, 0, 0), core.NewVec3(0, 0, 1), nil},
		{"on a vertex", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), nil},
		{"on the continuation of an edge", core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 1), nil},
		{"parallel to the triangle", core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 0), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := triangle.FindGeoIntersections(core.NewRay(tt.origin, tt.direction))
			if len(hits) != len(tt.expected) {
				t.Fatalf("Expected %d intersections, got %d", len(tt.expected), len(hits))
			}
			for i, gp := range hits {
				if !gp.Point.Equals(tt.expected[i]) {
					t.Errorf("Expected %v, got %v", tt.expected[i], gp.Point)
				}
				if gp.Geometry != Geometry(triangle) {
					t.Errorf("Expected hit record to reference the triangle, got %T", gp.Geometry)
				}
			}
		})
	}
}
