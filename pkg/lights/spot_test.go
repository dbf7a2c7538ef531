package lights

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestSpotLight_Intensity(t *testing.T) {
	light, err := NewSpotLight(core.NewColor(100, 100, 100), core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	if err != nil {
		t.Fatalf("NewSpotLight: %v", err)
	}

	tests := []struct {
		name     string
		point    core.Vec3
		expected float64
	}{
		{"directly below", core.NewVec3(0, 1, 0), 100},
		{"at 45 degrees", core.NewVec3(4, 1, 0), 100 * math.Cos(math.Pi/4)},
		{"level with the light", core.NewVec3(4, 5, 0), 0},
		{"behind the light", core.NewVec3(0, 9, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := light.Intensity(tt.point)
			if math.Abs(got.R-tt.expected) > 1e-9 {
				t.Errorf("Expected intensity %f, got %f", tt.expected, got.R)
			}
		})
	}
}

func TestSpotLight_Narrowness(t *testing.T) {
	light, err := NewSpotLight(core.NewColor(100, 100, 100), core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	if err != nil {
		t.Fatalf("NewSpotLight: %v", err)
	}
	if err := light.SetNarrowness(0.5); !errors.Is(err, ErrInvalidLight) {
		t.Errorf("Expected ErrInvalidLight, got %v", err)
	}
	if err := light.SetNarrowness(4); err != nil {
		t.Fatalf("SetNarrowness: %v", err)
	}

	expected := 100 * math.Pow(math.Cos(math.Pi/4), 4)
	if got := light.Intensity(core.NewVec3(4, 1, 0)); math.Abs(got.R-expected) > 1e-9 {
		t.Errorf("Expected intensity %f, got %f", expected, got.R)
	}
}

func TestSpotLight_ZeroDirection(t *testing.T) {
	_, err := NewSpotLight(core.NewColor(1, 1, 1), core.Zero, core.Zero)
	if !errors.Is(err, ErrInvalidLight) || !errors.Is(err, core.ErrZeroVector) {
		t.Errorf("Expected ErrInvalidLight wrapping ErrZeroVector, got %v", err)
	}
}
