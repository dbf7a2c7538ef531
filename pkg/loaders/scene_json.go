package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ErrInvalidScene is returned for scene files that decode but describe an
// unusable scene
var ErrInvalidScene = errors.New("invalid scene description")

// SceneFile is the JSON layout of a scene description
type SceneFile struct {
	Name       string       `json:"name,omitempty"`
	Background []float64    `json:"background,omitempty"` // RGB on a 0..255 scale
	Ambient    *AmbientCfg  `json:"ambient,omitempty"`
	Camera     *CameraCfg   `json:"camera,omitempty"`
	Surfaces   []SurfaceCfg `json:"surfaces"`
	Lights     []LightCfg   `json:"lights"`
}

type AmbientCfg struct {
	Intensity []float64 `json:"intensity"`
	KA        []float64 `json:"ka,omitempty"` // One value or one per channel; defaults to 1
}

type CameraCfg struct {
	Position []float64 `json:"position"`
	To       []float64 `json:"to"`
	Up       []float64 `json:"up"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Distance float64   `json:"distance"`
}

type MaterialCfg struct {
	KD        []float64 `json:"kd,omitempty"`
	KS        []float64 `json:"ks,omitempty"`
	Shininess int       `json:"shininess,omitempty"`
	KT        []float64 `json:"kt,omitempty"`
	KR        []float64 `json:"kr,omitempty"`
}

// SurfaceCfg describes one geometry. Which fields apply depends on Type:
// sphere (center, radius), plane (point, normal), triangle and polygon
// (vertices), quad (corner, u, v), box (center, size as half-extents) and
// mesh (a PLY file relative to the scene file, scale, translate).
type SurfaceCfg struct {
	Type      string       `json:"type"`
	Center    []float64    `json:"center,omitempty"`
	Radius    float64      `json:"radius,omitempty"`
	Point     []float64    `json:"point,omitempty"`
	Normal    []float64    `json:"normal,omitempty"`
	Vertices  [][]float64  `json:"vertices,omitempty"`
	Corner    []float64    `json:"corner,omitempty"`
	U         []float64    `json:"u,omitempty"`
	V         []float64    `json:"v,omitempty"`
	Size      []float64    `json:"size,omitempty"`
	File      string       `json:"file,omitempty"`
	Scale     float64      `json:"scale,omitempty"`
	Translate []float64    `json:"translate,omitempty"`
	Emission  []float64    `json:"emission,omitempty"`
	Material  *MaterialCfg `json:"material,omitempty"`
}

// LightCfg describes one light source: directional (direction), point
// (position, attenuation, soft shadows), spot (point plus direction and
// narrowness) or area (position, u, v, width, height, samples).
type LightCfg struct {
	Type           string    `json:"type"`
	Intensity      []float64 `json:"intensity"`
	Position       []float64 `json:"position,omitempty"`
	Direction      []float64 `json:"direction,omitempty"`
	Attenuation    []float64 `json:"attenuation,omitempty"` // kC, kL, kQ
	Narrowness     float64   `json:"narrowness,omitempty"`
	SoftShadowSize float64   `json:"softShadowSize,omitempty"`
	SoftShadowRays int       `json:"softShadowRays,omitempty"`
	U              []float64 `json:"u,omitempty"`
	V              []float64 `json:"v,omitempty"`
	Width          float64   `json:"width,omitempty"`
	Height         float64   `json:"height,omitempty"`
	Samples        int       `json:"samples,omitempty"`
}

// LoadScene reads a JSON scene description from path
func LoadScene(path string, opts scene.Options) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()

	s, err := parseScene(f, opts, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// ParseScene decodes a JSON scene description. Unknown fields are rejected
// so misspelled keys do not silently fall back to defaults. Point light
// soft shadows are only applied when opts.SoftShadows is set.
func ParseScene(r io.Reader, opts scene.Options) (*scene.Scene, error) {
	return parseScene(r, opts, ".")
}

// parseScene resolves mesh files relative to baseDir
func parseScene(r io.Reader, opts scene.Options, baseDir string) (*scene.Scene, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var file SceneFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return file.Build(opts, baseDir)
}

// Build assembles the described scene, reading mesh files relative to baseDir
func (f *SceneFile) Build(opts scene.Options, baseDir string) (*scene.Scene, error) {
	s := scene.NewScene(f.Name)

	if f.Background != nil {
		bg, err := color(f.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		s.Background = bg
	}

	if f.Ambient != nil {
		ambient, err := f.Ambient.build()
		if err != nil {
			return nil, fmt.Errorf("ambient: %w", err)
		}
		s.Ambient = ambient
	}

	if f.Camera != nil {
		view, err := f.Camera.build()
		if err != nil {
			return nil, fmt.Errorf("camera: %w", err)
		}
		s.View = view
	}

	for i, sc := range f.Surfaces {
		surface, err := sc.build(baseDir)
		if err != nil {
			return nil, fmt.Errorf("surface %d (%s): %w", i, sc.Type, err)
		}
		s.Add(surface)
	}

	for i, lc := range f.Lights {
		light, err := lc.build(opts)
		if err != nil {
			return nil, fmt.Errorf("light %d (%s): %w", i, lc.Type, err)
		}
		s.AddLight(light)
	}

	return s, nil
}

func (a *AmbientCfg) build() (lights.AmbientLight, error) {
	iA, err := color(a.Intensity)
	if err != nil {
		return lights.AmbientLight{}, err
	}
	switch len(a.KA) {
	case 0:
		return lights.NewAmbientLight(iA, 1), nil
	case 1:
		if a.KA[0] < 0 {
			return lights.AmbientLight{}, fmt.Errorf("ka %g must not be negative: %w", a.KA[0], ErrInvalidScene)
		}
		return lights.NewAmbientLight(iA, a.KA[0]), nil
	default:
		kA, err := vec3("ka", a.KA)
		if err != nil {
			return lights.AmbientLight{}, err
		}
		if kA.X < 0 || kA.Y < 0 || kA.Z < 0 {
			return lights.AmbientLight{}, fmt.Errorf("ka %v must not be negative: %w", kA, ErrInvalidScene)
		}
		return lights.NewAmbientLightRGB(iA, kA), nil
	}
}

// build converts the camera block. Validation of the directions and view
// plane happens when the renderer builds the camera.
func (c *CameraCfg) build() (scene.View, error) {
	view := scene.View{Width: c.Width, Height: c.Height, Distance: c.Distance}
	var err error
	if c.Position != nil {
		if view.Position, err = vec3("position", c.Position); err != nil {
			return view, err
		}
	}
	if view.To, err = vec3("to", c.To); err != nil {
		return view, err
	}
	if view.Up, err = vec3("up", c.Up); err != nil {
		return view, err
	}
	return view, nil
}

func (m *MaterialCfg) build() (material.Material, error) {
	if m == nil {
		return material.Material{}, nil
	}
	var coeffs [4]core.Vec3
	for i, field := range []struct {
		name  string
		value []float64
	}{{"kd", m.KD}, {"ks", m.KS}, {"kt", m.KT}, {"kr", m.KR}} {
		if field.value == nil {
			continue
		}
		v, err := coefficient(field.name, field.value)
		if err != nil {
			return material.Material{}, err
		}
		coeffs[i] = v
	}
	return material.New(coeffs[0], coeffs[1], m.Shininess, coeffs[2], coeffs[3])
}

func (sc *SurfaceCfg) build(baseDir string) (geometry.Intersectable, error) {
	emission := core.Black
	if sc.Emission != nil {
		var err error
		if emission, err = color(sc.Emission); err != nil {
			return nil, fmt.Errorf("emission: %w", err)
		}
	}
	m, err := sc.Material.build()
	if err != nil {
		return nil, fmt.Errorf("material: %w", err)
	}

	switch sc.Type {
	case "sphere":
		center, err := vec3("center", sc.Center)
		if err != nil {
			return nil, err
		}
		sp, err := geometry.NewSphere(center, sc.Radius)
		if err != nil {
			return nil, err
		}
		return geometry.With(sp, emission, m), nil

	case "plane":
		if sc.Vertices != nil {
			points, err := vertices(sc.Vertices)
			if err != nil {
				return nil, err
			}
			if len(points) != 3 {
				return nil, fmt.Errorf("plane needs 3 points, got %d: %w", len(points), ErrInvalidScene)
			}
			pl, err := geometry.NewPlaneFromPoints(points[0], points[1], points[2])
			if err != nil {
				return nil, err
			}
			return geometry.With(pl, emission, m), nil
		}
		point, err := vec3("point", sc.Point)
		if err != nil {
			return nil, err
		}
		normal, err := vec3("normal", sc.Normal)
		if err != nil {
			return nil, err
		}
		pl, err := geometry.NewPlane(point, normal)
		if err != nil {
			return nil, err
		}
		return geometry.With(pl, emission, m), nil

	case "triangle":
		points, err := vertices(sc.Vertices)
		if err != nil {
			return nil, err
		}
		if len(points) != 3 {
			return nil, fmt.Errorf("triangle needs 3 vertices, got %d: %w", len(points), ErrInvalidScene)
		}
		tr, err := geometry.NewTriangle(points[0], points[1], points[2])
		if err != nil {
			return nil, err
		}
		return geometry.With(tr, emission, m), nil

	case "polygon":
		points, err := vertices(sc.Vertices)
		if err != nil {
			return nil, err
		}
		pg, err := geometry.NewPolygon(points...)
		if err != nil {
			return nil, err
		}
		return geometry.With(pg, emission, m), nil

	case "quad":
		corner, err := vec3("corner", sc.Corner)
		if err != nil {
			return nil, err
		}
		u, err := vec3("u", sc.U)
		if err != nil {
			return nil, err
		}
		v, err := vec3("v", sc.V)
		if err != nil {
			return nil, err
		}
		q, err := geometry.NewQuad(corner, u, v)
		if err != nil {
			return nil, err
		}
		return geometry.With(q, emission, m), nil

	case "box":
		center, err := vec3("center", sc.Center)
		if err != nil {
			return nil, err
		}
		size, err := vec3("size", sc.Size)
		if err != nil {
			return nil, err
		}
		return geometry.NewAxisAlignedBox(center, size, emission, m)

	case "mesh":
		if sc.File == "" {
			return nil, fmt.Errorf("mesh needs a file: %w", ErrInvalidScene)
		}
		meshOpts := MeshOptions{Scale: sc.Scale}
		if sc.Translate != nil {
			if meshOpts.Translate, err = vec3("translate", sc.Translate); err != nil {
				return nil, err
			}
		}
		path := sc.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		mesh, _, err := LoadMesh(path, meshOpts, emission, m)
		if err != nil {
			return nil, err
		}
		return mesh, nil

	default:
		return nil, fmt.Errorf("unknown surface type %q: %w", sc.Type, ErrInvalidScene)
	}
}

func (lc *LightCfg) build(opts scene.Options) (lights.LightSource, error) {
	intensity, err := color(lc.Intensity)
	if err != nil {
		return nil, fmt.Errorf("intensity: %w", err)
	}

	switch lc.Type {
	case "directional":
		direction, err := vec3("direction", lc.Direction)
		if err != nil {
			return nil, err
		}
		return lights.NewDirectionalLight(intensity, direction)

	case "point":
		position, err := vec3("position", lc.Position)
		if err != nil {
			return nil, err
		}
		pl := lights.NewPointLight(intensity, position)
		if err := lc.configurePoint(pl, opts); err != nil {
			return nil, err
		}
		return pl, nil

	case "spot":
		position, err := vec3("position", lc.Position)
		if err != nil {
			return nil, err
		}
		direction, err := vec3("direction", lc.Direction)
		if err != nil {
			return nil, err
		}
		sl, err := lights.NewSpotLight(intensity, position, direction)
		if err != nil {
			return nil, err
		}
		if lc.Narrowness != 0 {
			if err := sl.SetNarrowness(lc.Narrowness); err != nil {
				return nil, err
			}
		}
		if err := lc.configurePoint(sl.PointLight, opts); err != nil {
			return nil, err
		}
		return sl, nil

	case "area":
		position, err := vec3("position", lc.Position)
		if err != nil {
			return nil, err
		}
		u, err := vec3("u", lc.U)
		if err != nil {
			return nil, err
		}
		v, err := vec3("v", lc.V)
		if err != nil {
			return nil, err
		}
		return lights.NewAreaLight(intensity, position, lc.Width, lc.Height, u, v, lc.Samples, opts.Sampler)

	default:
		return nil, fmt.Errorf("unknown light type %q: %w", lc.Type, ErrInvalidScene)
	}
}

// configurePoint applies attenuation and, when enabled, soft shadows
func (lc *LightCfg) configurePoint(pl *lights.PointLight, opts scene.Options) error {
	if lc.Attenuation != nil {
		k, err := vec3("attenuation", lc.Attenuation)
		if err != nil {
			return err
		}
		if err := pl.SetAttenuation(k.X, k.Y, k.Z); err != nil {
			return err
		}
	}
	if opts.SoftShadows && lc.SoftShadowSize > 0 {
		return pl.SetSoftShadows(lc.SoftShadowSize, lc.SoftShadowRays, opts.Sampler)
	}
	return nil
}

func vec3(name string, v []float64) (core.Vec3, error) {
	if len(v) != 3 {
		return core.Vec3{}, fmt.Errorf("%s needs 3 components, got %d: %w", name, len(v), ErrInvalidScene)
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

// coefficient accepts a single value for all channels or one per channel
func coefficient(name string, v []float64) (core.Vec3, error) {
	if len(v) == 1 {
		return core.Uniform(v[0]), nil
	}
	return vec3(name, v)
}

func color(v []float64) (core.Color, error) {
	c, err := vec3("color", v)
	if err != nil {
		return core.Black, err
	}
	if c.X < 0 || c.Y < 0 || c.Z < 0 {
		return core.Black, fmt.Errorf("color %v must not be negative: %w", c, ErrInvalidScene)
	}
	return core.NewColor(c.X, c.Y, c.Z), nil
}

func vertices(vs [][]float64) ([]core.Vec3, error) {
	points := make([]core.Vec3, len(vs))
	for i, v := range vs {
		p, err := vec3(fmt.Sprintf("vertex %d", i), v)
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return points, nil
}
