package core

import (
	"math"
	"testing"
)

func TestNewRay_NormalizesDirection(t *testing.T) {
	ray := NewRay(NewVec3(1, 1, 1), NewVec3(0, 0, -7))
	if !ray.Direction.Equals(NewVec3(0, 0, -1)) {
		t.Errorf("Expected unit direction (0,0,-1), got %v", ray.Direction)
	}
	if p := ray.At(2); !p.Equals(NewVec3(1, 1, -1)) {
		t.Errorf("Expected point (1,1,-1), got %v", p)
	}
}

func TestNewOffsetRay(t *testing.T) {
	point := NewVec3(0, 0, 0)
	normal := NewVec3(0, 0, 1)

	tests := []struct {
		name      string
		direction Vec3
		expectedZ float64
	}{
		{"same side as normal", NewVec3(1, 0, 1), Delta},
		{"opposite side", NewVec3(1, 0, -1), -Delta},
		{"tangent keeps origin", NewVec3(1, 0, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := NewOffsetRay(point, tt.direction, normal, Delta)
			if math.Abs(ray.Origin.Z-tt.expectedZ) > 1e-12 {
				t.Errorf("Expected origin z=%f, got %f", tt.expectedZ, ray.Origin.Z)
			}
			if math.Abs(ray.Direction.Length()-1) > 1e-12 {
				t.Errorf("Expected unit direction, got length %f", ray.Direction.Length())
			}
		})
	}
}

func TestStratifiedGrid(t *testing.T) {
	samples := StratifiedGrid(3, CenterSampler{})
	if len(samples) != 9 {
		t.Fatalf("Expected 9 samples, got %d", len(samples))
	}
	if math.Abs(samples[4][0]) > 1e-12 || math.Abs(samples[4][1]) > 1e-12 {
		t.Errorf("Expected middle cell centred at origin, got %v", samples[4])
	}

	for _, s := range StratifiedGrid(4, NewRandomSampler(7)) {
		if s[0] < -0.5 || s[0] >= 0.5 || s[1] < -0.5 || s[1] >= 0.5 {
			t.Errorf("Sample %v outside the unit square", s)
		}
	}
}
