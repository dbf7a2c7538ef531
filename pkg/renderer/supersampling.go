package renderer

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// pixelColor computes the color of pixel (col, row) with the camera's
// sampling strategy and returns it with the number of rays traced
func (c *Camera) pixelColor(tracer integrator.RayTracer, nX, nY, col, row int) (core.Color, int) {
	switch {
	case c.adaptive:
		return c.adaptiveColor(tracer, nX, nY, col, row)
	case c.superSampling > 1:
		return c.beamColor(tracer, nX, nY, col, row), c.superSampling * c.superSampling
	default:
		return tracer.TraceRay(c.RayThroughPixel(nX, nY, col, row)), 1
	}
}

// beamColor averages an n x n grid of rays through the sub-pixel cell centers
func (c *Camera) beamColor(tracer integrator.RayTracer, nX, nY, col, row int) core.Color {
	n := c.superSampling
	cell := 1.0 / float64(n)
	colors := make([]core.Color, 0, n*n)
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			x := float64(col) + (float64(a)+0.5)*cell
			y := float64(row) + (float64(b)+0.5)*cell
			colors = append(colors, tracer.TraceRay(c.rayThroughPoint(nX, nY, x, y)))
		}
	}
	return core.Average(colors)
}

// adaptiveColor traces the four pixel corners and the center. A pixel whose
// corners all match the center takes the center color; otherwise each
// mismatching quadrant is subdivided and every distinct sample is averaged.
func (c *Camera) adaptiveColor(tracer integrator.RayTracer, nX, nY, col, row int) (core.Color, int) {
	s := &adaptiveSampler{
		camera:  c,
		tracer:  tracer,
		nX:      nX,
		nY:      nY,
		visited: make(map[[2]float64]core.Color, 9),
	}
	center, uniform := s.subdivide(float64(col), float64(row), 1, c.adaptiveDepth)
	if uniform {
		return center, len(s.order)
	}
	return core.Average(s.order), len(s.order)
}

// adaptiveSampler caches the samples of one pixel so shared corners are
// traced once
type adaptiveSampler struct {
	camera  *Camera
	tracer  integrator.RayTracer
	nX, nY  int
	visited map[[2]float64]core.Color
	order   []core.Color // Distinct samples in tracing order
}

func (s *adaptiveSampler) sample(x, y float64) core.Color {
	key := [2]float64{x, y}
	if color, ok := s.visited[key]; ok {
		return color
	}
	color := s.tracer.TraceRay(s.camera.rayThroughPoint(s.nX, s.nY, x, y))
	s.visited[key] = color
	s.order = append(s.order, color)
	return color
}

// subdivide samples the square at (x0, y0) with the given side and recurses
// into the quadrants whose corner differs from the center. It returns the
// center color and whether all four corners were similar to it.
func (s *adaptiveSampler) subdivide(x0, y0, size float64, depth int) (core.Color, bool) {
	half := size / 2
	corners := [4][2]float64{
		{x0, y0},
		{x0 + size, y0},
		{x0, y0 + size},
		{x0 + size, y0 + size},
	}
	var colors [4]core.Color
	for i, p := range corners {
		colors[i] = s.sample(p[0], p[1])
	}
	cx, cy := x0+half, y0+half
	center := s.sample(cx, cy)

	uniform := true
	for i, p := range corners {
		if colors[i].Similar(center) {
			continue
		}
		uniform = false
		if depth > 1 {
			s.subdivide(min(p[0], cx), min(p[1], cy), half, depth-1)
		}
	}
	return center, uniform
}
