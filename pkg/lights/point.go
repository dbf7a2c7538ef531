package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DefaultSoftShadowRays is the number of shadow directions sampled per soft light
const DefaultSoftShadowRays = 36

// PointLight radiates from a position, attenuated by 1/(kC + kL·d + kQ·d²)
type PointLight struct {
	intensity core.Color
	position  core.Vec3
	kC        float64
	kL        float64
	kQ        float64

	// Soft shadows: a square of side softSize centered on the light,
	// facing the shaded point, sampled on a jittered grid
	softSize float64
	softRays int
	sampler  core.Sampler
}

// NewPointLight creates a point light with kC=1, kL=0, kQ=0 and hard shadows
func NewPointLight(intensity core.Color, position core.Vec3) *PointLight {
	return &PointLight{intensity: intensity, position: position, kC: 1}
}

// SetAttenuation sets the constant, linear and quadratic attenuation factors
func (pl *PointLight) SetAttenuation(kC, kL, kQ float64) error {
	if kC < 0 || kL < 0 || kQ < 0 || core.IsZero(kC+kL+kQ) {
		return fmt.Errorf("attenuation (%g, %g, %g): %w", kC, kL, kQ, ErrInvalidLight)
	}
	pl.kC, pl.kL, pl.kQ = kC, kL, kQ
	return nil
}

// SetSoftShadows enables soft shadows over a square of the given side length
// sampled with about rays directions. A size of 0 restores hard shadows.
func (pl *PointLight) SetSoftShadows(size float64, rays int, sampler core.Sampler) error {
	if size < 0 || rays < 0 {
		return fmt.Errorf("soft shadows size %g rays %d: %w", size, rays, ErrInvalidLight)
	}
	if rays == 0 {
		rays = DefaultSoftShadowRays
	}
	if sampler == nil {
		sampler = core.CenterSampler{}
	}
	pl.softSize, pl.softRays, pl.sampler = size, rays, sampler
	return nil
}

func (pl *PointLight) Type() LightType {
	return LightTypePoint
}

// Position returns the light position
func (pl *PointLight) Position() core.Vec3 {
	return pl.position
}

// Intensity returns the distance-attenuated intensity at p. A point on an
// unattenuated light with kC=0 receives nothing.
func (pl *PointLight) Intensity(p core.Vec3) core.Color {
	d := pl.position.Distance(p)
	denominator := pl.kC + pl.kL*d + pl.kQ*d*d
	if core.IsZero(denominator) {
		return core.Black
	}
	return pl.intensity.Scale(1 / denominator)
}

// L returns the direction from the light to p
func (pl *PointLight) L(p core.Vec3) core.Vec3 {
	l, ok := p.Subtract(pl.position).TryNormalize()
	if !ok {
		// p coincides with the light; any direction is as good as another
		return core.NewVec3(0, 0, -1)
	}
	return l
}

// Samples returns L(p), or a jittered grid of points on the light's square
// for soft shadows
func (pl *PointLight) Samples(p core.Vec3) []Sample {
	if pl.softSize == 0 {
		return []Sample{{L: pl.L(p), Distance: pl.Distance(p)}}
	}
	u, v := core.Orthonormal(pl.L(p))
	return sampleRectangle(p, pl.position, u.Multiply(pl.softSize), v.Multiply(pl.softSize), pl.softRays, pl.sampler)
}

// Distance from the light to p
func (pl *PointLight) Distance(p core.Vec3) float64 {
	return pl.position.Distance(p)
}

// sampleRectangle returns light -> p samples from a jittered grid of about
// rays points over the rectangle center ± u/2 ± v/2
func sampleRectangle(p, center, u, v core.Vec3, rays int, sampler core.Sampler) []Sample {
	n := max(1, int(math.Round(math.Sqrt(float64(rays)))))
	grid := core.StratifiedGrid(n, sampler)
	samples := make([]Sample, 0, len(grid))
	for _, s := range grid {
		samplePoint := center.Add(u.Multiply(s[0])).Add(v.Multiply(s[1]))
		if d, ok := p.Subtract(samplePoint).TryNormalize(); ok {
			samples = append(samples, Sample{L: d, Distance: samplePoint.Distance(p)})
		}
	}
	if len(samples) == 0 {
		if d, ok := p.Subtract(center).TryNormalize(); ok {
			samples = append(samples, Sample{L: d, Distance: center.Distance(p)})
		}
	}
	return samples
}
