package renderer

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func testCameraConfig() CameraConfig {
	return CameraConfig{
		Position: core.NewVec3(0, 0, 0),
		To:       core.NewVec3(0, 0, -1),
		Up:       core.NewVec3(0, 1, 0),
		Width:    3,
		Height:   3,
		Distance: 1,
	}
}

func mustCamera(t *testing.T, cfg CameraConfig) *Camera {
	t.Helper()
	camera, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return camera
}

func TestCameraConfig_Build(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*CameraConfig)
		wantErr error
	}{
		{"valid", func(*CameraConfig) {}, nil},
		{"valid at origin with all-but-spare threads", func(c *CameraConfig) { c.Threads = ThreadsAllButSpare }, nil},
		{"missing To", func(c *CameraConfig) { c.To = core.Zero }, ErrMissingField},
		{"missing Up", func(c *CameraConfig) { c.Up = core.Zero }, ErrMissingField},
		{"parallel directions", func(c *CameraConfig) { c.Up = core.NewVec3(0, 0, 2) }, ErrInvalidConfig},
		{"equal directions", func(c *CameraConfig) { c.Up = c.To }, ErrInvalidConfig},
		{"not perpendicular", func(c *CameraConfig) { c.Up = core.NewVec3(0, 1, 1) }, ErrInvalidConfig},
		{"missing width", func(c *CameraConfig) { c.Width = 0 }, ErrMissingField},
		{"missing height", func(c *CameraConfig) { c.Height = 0 }, ErrMissingField},
		{"negative width", func(c *CameraConfig) { c.Width = -1 }, ErrInvalidConfig},
		{"missing distance", func(c *CameraConfig) { c.Distance = 0 }, ErrMissingField},
		{"negative distance", func(c *CameraConfig) { c.Distance = -2 }, ErrInvalidConfig},
		{"threads -1", func(c *CameraConfig) { c.Threads = -1 }, ErrInvalidConfig},
		{"threads -3", func(c *CameraConfig) { c.Threads = -3 }, ErrInvalidConfig},
		{"negative super sampling", func(c *CameraConfig) { c.SuperSampling = -4 }, ErrInvalidConfig},
		{"negative progress interval", func(c *CameraConfig) { c.ProgressInterval = -1 }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testCameraConfig()
			tt.modify(&cfg)
			camera, err := cfg.Build()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				if camera == nil {
					t.Fatal("Expected a camera")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if camera != nil {
				t.Error("Expected no camera on error")
			}
		})
	}
}

func TestCameraConfig_BuildReportsAllFields(t *testing.T) {
	_, err := CameraConfig{Threads: -1}.Build()
	if err == nil {
		t.Fatal("Expected an error for an empty configuration")
	}
	if !errors.Is(err, ErrMissingField) || !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected both missing and invalid fields reported, got %v", err)
	}

	lines := strings.Split(err.Error(), "\n")
	if len(lines) != 4 {
		t.Errorf("Expected 4 problems (direction, size, distance, threads), got %d: %v", len(lines), err)
	}
	if !strings.Contains(lines[0], "direction") {
		t.Errorf("Expected the first problem to name the direction vectors, got %q", lines[0])
	}
}

func TestCamera_Basis(t *testing.T) {
	camera := mustCamera(t, testCameraConfig())
	if !camera.Right().Equals(core.NewVec3(1, 0, 0)) {
		t.Errorf("Expected right (1,0,0), got %v", camera.Right())
	}

	cfg := testCameraConfig()
	cfg.To = core.NewVec3(0, 0, -5)
	cfg.Up = core.NewVec3(0, 3, 0)
	camera = mustCamera(t, cfg)
	if !camera.To().Equals(core.NewVec3(0, 0, -1)) || !camera.Up().Equals(core.NewVec3(0, 1, 0)) {
		t.Errorf("Expected normalized basis, got to=%v up=%v", camera.To(), camera.Up())
	}
}

func TestCamera_RayThroughPixel(t *testing.T) {
	camera := mustCamera(t, testCameraConfig())

	tests := []struct {
		name     string
		nX, nY   int
		col, row int
		expected core.Vec3
	}{
		{"center of 3x3", 3, 3, 1, 1, core.NewVec3(0, 0, -1)},
		{"top-left of 3x3", 3, 3, 0, 0, core.NewVec3(-1, 1, -1)},
		{"bottom-right of 3x3", 3, 3, 2, 2, core.NewVec3(1, -1, -1)},
		{"top-right of 4x4", 4, 4, 3, 0, core.NewVec3(1.125, 1.125, -1)},
		{"wide image middle row", 6, 3, 0, 1, core.NewVec3(-1.25, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.RayThroughPixel(tt.nX, tt.nY, tt.col, tt.row)
			if !ray.Origin.Equals(core.Zero) {
				t.Errorf("Expected ray from the camera position, got %v", ray.Origin)
			}
			expected := tt.expected.Normalize()
			if !ray.Direction.Equals(expected) {
				t.Errorf("Expected direction %v, got %v", expected, ray.Direction)
			}
		})
	}
}

func TestCamera_CloneIsIndependent(t *testing.T) {
	camera := mustCamera(t, testCameraConfig())
	other, err := camera.WithThreads(3)
	if err != nil {
		t.Fatalf("WithThreads: %v", err)
	}
	if camera.Threads() != 0 || other.Threads() != 3 {
		t.Errorf("Expected original 0 and copy 3 threads, got %d and %d", camera.Threads(), other.Threads())
	}
	if _, err := camera.WithThreads(-1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestCamera_ThreadsAllButSpare(t *testing.T) {
	cfg := testCameraConfig()
	cfg.Threads = ThreadsAllButSpare
	if threads := mustCamera(t, cfg).Threads(); threads < 1 {
		t.Errorf("Expected at least one worker, got %d", threads)
	}
}

func TestAdaptiveDepth(t *testing.T) {
	tests := []struct{ n, depth int }{
		{0, DefaultAdaptiveDepth},
		{1, DefaultAdaptiveDepth},
		{2, 1},
		{4, 2},
		{8, 3},
		{9, 4},
		{16, 4},
	}
	for _, tt := range tests {
		if got := adaptiveDepth(tt.n); got != tt.depth {
			t.Errorf("adaptiveDepth(%d): expected %d, got %d", tt.n, tt.depth, got)
		}
	}
}

// countIntersections casts a ray through every pixel of a 3x3 image and
// counts the intersection points with the given geometry
func countIntersections(t *testing.T, camera *Camera, g geometry.Intersectable) int {
	t.Helper()
	count := 0
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			count += len(geometry.FindIntersections(g, camera.RayThroughPixel(3, 3, col, row)))
		}
	}
	return count
}

func TestCamera_IntegrationWithGeometry(t *testing.T) {
	atOrigin := mustCamera(t, testCameraConfig())
	cfg := testCameraConfig()
	cfg.Position = core.NewVec3(0, 0, 0.5)
	pulledBack := mustCamera(t, cfg)

	sphere := func(center core.Vec3, r float64) geometry.Intersectable {
		s, err := geometry.NewSphere(center, r)
		if err != nil {
			t.Fatalf("NewSphere: %v", err)
		}
		return s
	}
	plane := func(point, normal core.Vec3) geometry.Intersectable {
		p, err := geometry.NewPlane(point, normal)
		if err != nil {
			t.Fatalf("NewPlane: %v", err)
		}
		return p
	}
	triangle := func(a, b, c core.Vec3) geometry.Intersectable {
		tr, err := geometry.NewTriangle(a, b, c)
		if err != nil {
			t.Fatalf("NewTriangle: %v", err)
		}
		return tr
	}

	tests := []struct {
		name     string
		camera   *Camera
		geometry geometry.Intersectable
		expected int
	}{
		{"small sphere in front", atOrigin, sphere(core.NewVec3(0, 0, -3), 1), 2},
		{"big sphere in front", pulledBack, sphere(core.NewVec3(0, 0, -2.5), 2.5), 18},
		{"medium sphere in front", pulledBack, sphere(core.NewVec3(0, 0, -2), 2), 10},
		{"camera inside sphere", atOrigin, sphere(core.NewVec3(0, 0, -1), 4), 9},
		{"sphere behind camera", atOrigin, sphere(core.NewVec3(0, 0, 1), 0.5), 0},
		{"plane facing camera", atOrigin, plane(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)), 9},
		{"slightly tilted plane", atOrigin, plane(core.NewVec3(0, 0, -5), core.NewVec3(0, -0.5, 1)), 9},
		{"plane parallel to top rays", atOrigin, plane(core.NewVec3(0, 0, -5), core.NewVec3(0, 1, 1)), 6},
		{"small triangle", atOrigin, triangle(core.NewVec3(0, 1, -2), core.NewVec3(1, -1, -2), core.NewVec3(-1, -1, -2)), 1},
		{"tall triangle", atOrigin, triangle(core.NewVec3(0, 20, -2), core.NewVec3(1, -1, -2), core.NewVec3(-1, -1, -2)), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countIntersections(t, tt.camera, tt.geometry); got != tt.expected {
				t.Errorf("Expected %d intersections, got %d", tt.expected, got)
			}
		})
	}
}

func TestCamera_RayThroughPixelIsUnit(t *testing.T) {
	cfg := testCameraConfig()
	cfg.Width, cfg.Height, cfg.Distance = 200, 100, 50
	camera := mustCamera(t, cfg)
	for _, px := range [][2]int{{0, 0}, {399, 0}, {0, 199}, {200, 100}} {
		ray := camera.RayThroughPixel(400, 200, px[0], px[1])
		if math.Abs(ray.Direction.Length()-1) > 1e-9 {
			t.Errorf("Expected unit direction for pixel %v, got length %f", px, ray.Direction.Length())
		}
	}
}

func TestNewCameraConfig_FromSceneView(t *testing.T) {
	for _, info := range scene.ListBuiltinScenes() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := scene.NewBuiltinScene(info.ID, scene.Options{})
			if err != nil {
				t.Fatalf("NewBuiltinScene: %v", err)
			}
			camera := mustCamera(t, NewCameraConfig(s.View))
			if !camera.Position().Equals(s.View.Position) {
				t.Errorf("Expected position %v, got %v", s.View.Position, camera.Position())
			}
		})
	}
}
