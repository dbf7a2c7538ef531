package loaders

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// MeshOptions places a mesh in the scene
type MeshOptions struct {
	Scale     float64   // Uniform scale; 0 means 1
	Translate core.Vec3 // Applied after scaling
}

// LoadMesh loads a PLY file as a group of triangles sharing emission and
// material. Faces with more than three vertices are fan-triangulated;
// degenerate triangles are skipped and counted.
func LoadMesh(filename string, opts MeshOptions, emission core.Color, m material.Material) (*geometry.Geometries, int, error) {
	data, err := LoadPLY(filename)
	if err != nil {
		return nil, 0, err
	}
	return NewMesh(data, opts, emission, m)
}

// NewMesh builds triangles from PLY data
func NewMesh(data *PLYData, opts MeshOptions, emission core.Color, m material.Material) (*geometry.Geometries, int, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 0 {
		return nil, 0, fmt.Errorf("mesh scale %g must be positive: %w", scale, ErrInvalidScene)
	}

	vertices := make([]core.Vec3, len(data.Vertices))
	for i, v := range data.Vertices {
		vertices[i] = v.Multiply(scale).Add(opts.Translate)
	}

	mesh := geometry.NewGeometries()
	skipped := 0
	for i, face := range data.Faces {
		if len(face) < 3 {
			return nil, 0, fmt.Errorf("face %d has %d vertices: %w", i, len(face), ErrInvalidPLY)
		}
		for k := 1; k+1 < len(face); k++ {
			tr, err := geometry.NewTriangle(vertices[face[0]], vertices[face[k]], vertices[face[k+1]])
			if errors.Is(err, geometry.ErrInvalidGeometry) {
				skipped++
				continue
			}
			if err != nil {
				return nil, 0, fmt.Errorf("face %d: %w", i, err)
			}
			mesh.Add(geometry.With(tr, emission, m))
		}
	}
	if mesh.Len() == 0 {
		return nil, skipped, fmt.Errorf("mesh has no usable triangles: %w", ErrInvalidScene)
	}
	return mesh, skipped, nil
}
