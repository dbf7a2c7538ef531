package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewAxisAlignedBox builds a box from six quads. Size holds half-extents, so
// a size of (1,1,1) creates a 2x2x2 box. All faces share emission and material.
func NewAxisAlignedBox(center, size core.Vec3, emission core.Color, m material.Material) (*Geometries, error) {
	// Corners of a unit box centered at origin
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}
	for i := range corners {
		corners[i] = corners[i].MultiplyVec(size).Add(center)
	}

	// Each face is wound counter-clockwise seen from outside
	faces := [6][4]int{
		{4, 5, 6, 7}, // front (Z+)
		{1, 0, 3, 2}, // back (Z-)
		{0, 4, 7, 3}, // left (X-)
		{5, 1, 2, 6}, // right (X+)
		{7, 6, 2, 3}, // top (Y+)
		{0, 1, 5, 4}, // bottom (Y-)
	}

	box := NewGeometries()
	for _, f := range faces {
		face, err := NewPolygon(corners[f[0]], corners[f[1]], corners[f[2]], corners[f[3]])
		if err != nil {
			return nil, err
		}
		box.Add(With(face, emission, m))
	}
	return box, nil
}
