package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestBuiltinScenes_Build(t *testing.T) {
	for _, info := range ListBuiltinScenes() {
		for _, soft := range []bool{false, true} {
			name := info.ID
			if soft {
				name += "/soft"
			}
			t.Run(name, func(t *testing.T) {
				s, err := NewBuiltinScene(info.ID, Options{SoftShadows: soft, Sampler: core.NewRandomSampler(7)})
				if err != nil {
					t.Fatalf("Expected scene to build, got %v", err)
				}
				if s.GetPrimitiveCount() == 0 {
					t.Error("Expected scene to contain surfaces")
				}
				if len(s.Lights) == 0 {
					t.Error("Expected scene to contain lights")
				}
				if !core.IsZero(s.View.To.Dot(s.View.Up)) {
					t.Errorf("Expected perpendicular view vectors, got %v and %v", s.View.To, s.View.Up)
				}
			})
		}
	}
}

func TestNewBuiltinScene_Unknown(t *testing.T) {
	_, err := NewBuiltinScene("no-such-scene", Options{})
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestListSceneFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"two-spheres.json", "a_room.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	scenes, err := ListSceneFiles(dir)
	if err != nil {
		t.Fatalf("ListSceneFiles: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scene files, got %d", len(scenes))
	}
	if scenes[0].Name != "A Room" || scenes[1].Name != "Two Spheres" {
		t.Errorf("Expected sorted title-cased names, got %q and %q", scenes[0].Name, scenes[1].Name)
	}
	if scenes[1].Type != "file" || scenes[1].FilePath != filepath.Join(dir, "two-spheres.json") {
		t.Errorf("Unexpected scene info %+v", scenes[1])
	}

	missing, err := ListSceneFiles(filepath.Join(dir, "missing"))
	if err != nil || len(missing) != 0 {
		t.Errorf("Expected empty list for a missing directory, got %v, %v", missing, err)
	}
}

func TestNewScene_Defaults(t *testing.T) {
	s := NewScene("empty")
	if s.Background != core.Black {
		t.Errorf("Expected black background, got %v", s.Background)
	}
	if s.Ambient.Intensity() != core.Black {
		t.Errorf("Expected no ambient light, got %v", s.Ambient.Intensity())
	}
	if s.GetPrimitiveCount() != 0 || len(s.Lights) != 0 {
		t.Error("Expected an empty scene")
	}
}
