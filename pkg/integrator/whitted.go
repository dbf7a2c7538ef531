package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// WhittedTracer implements recursive Whitted-style ray tracing: emission plus
// Phong local lighting with transparency-weighted shadows, plus reflected and
// refracted rays traced recursively until MaxLevel or MinK stops them
type WhittedTracer struct {
	scene  *scene.Scene
	config Config
}

// NewWhittedTracer creates a tracer over a fully assembled scene.
// Non-positive config fields fall back to DefaultConfig values.
func NewWhittedTracer(s *scene.Scene, config Config) *WhittedTracer {
	defaults := DefaultConfig()
	if config.MaxLevel <= 0 {
		config.MaxLevel = defaults.MaxLevel
	}
	if config.MinK <= 0 {
		config.MinK = defaults.MinK
	}
	if config.Delta <= 0 {
		config.Delta = defaults.Delta
	}
	return &WhittedTracer{scene: s, config: config}
}

// TraceRay returns the background on a miss. On a hit it returns the
// recursive color plus the scene's ambient light, added once.
func (wt *WhittedTracer) TraceRay(ray core.Ray) core.Color {
	gp, ok := geometry.FindClosestIntersection(wt.scene.Geometries, ray)
	if !ok {
		return wt.scene.Background
	}
	return wt.calcColor(gp, ray, wt.config.MaxLevel, core.Uniform(1)).Add(wt.scene.Ambient.Intensity())
}

// calcColor shades a hit at the given remaining level under cumulative attenuation k
func (wt *WhittedTracer) calcColor(gp geometry.GeoPoint, ray core.Ray, level int, k core.Vec3) core.Color {
	n := gp.Geometry.Normal(gp.Point)
	nv := core.AlignZero(n.Dot(ray.Direction))
	if nv == 0 {
		// Grazing ray: nothing but the surface's own light is visible
		return gp.Geometry.Emission()
	}

	color := gp.Geometry.Emission().Add(wt.calcLocalEffects(gp, ray.Direction, n, nv, k))
	if level == 1 {
		return color
	}
	return color.Add(wt.calcGlobalEffects(gp, ray.Direction, n, level, k))
}

// calcLocalEffects sums the diffuse and specular light from every source,
// averaged over the source's shadow directions
func (wt *WhittedTracer) calcLocalEffects(gp geometry.GeoPoint, v, n core.Vec3, nv float64, k core.Vec3) core.Color {
	mat := gp.Geometry.Material()
	color := core.Black
	for _, light := range wt.scene.Lights {
		samples := light.Samples(gp.Point)
		if len(samples) == 0 {
			continue
		}
		intensity := light.Intensity(gp.Point)

		sum := core.Black
		for _, sample := range samples {
			l := sample.L
			nl := core.AlignZero(n.Dot(l))
			if nl*nv <= 0 {
				// Light and viewer on opposite sides of the surface
				continue
			}
			ktr := wt.transparency(gp, sample, n)
			if ktr.MultiplyVec(k).AllBelow(wt.config.MinK) {
				continue
			}
			il := intensity.ScaleVec(ktr)
			sum = sum.Add(il.ScaleVec(diffuse(mat.KD, nl).Add(specular(mat.KS, mat.Shininess, n, l, nl, v))))
		}
		color = color.Add(sum.Reduce(len(samples)))
	}
	return color
}

// diffuse returns kD·|n·l|
func diffuse(kd core.Vec3, nl float64) core.Vec3 {
	return kd.Multiply(math.Abs(nl))
}

// specular returns kS·max(0, -v·r)^shininess with r the reflection of l about n
func specular(ks core.Vec3, shininess int, n, l core.Vec3, nl float64, v core.Vec3) core.Vec3 {
	r := l.Subtract(n.Multiply(2 * nl))
	minusVR := core.AlignZero(-v.Dot(r))
	if minusVR <= 0 {
		return core.Zero
	}
	return ks.Multiply(math.Pow(minusVR, float64(shininess)))
}

// transparency multiplies the kT of every surface between the point and the
// sampled point on the light. It returns zero as soon as the product is below
// MinK on every channel.
func (wt *WhittedTracer) transparency(gp geometry.GeoPoint, sample lights.Sample, n core.Vec3) core.Vec3 {
	lightRay := core.NewOffsetRay(gp.Point, sample.L.Negate(), n, wt.config.Delta)
	hits := wt.scene.Geometries.FindGeoIntersections(lightRay)
	ktr := core.Uniform(1)
	if hits == nil {
		return ktr
	}

	for _, hit := range hits {
		if core.AlignZero(hit.Point.Distance(gp.Point)-sample.Distance) >= 0 {
			continue
		}
		ktr = ktr.MultiplyVec(hit.Geometry.Material().KT)
		if ktr.AllBelow(wt.config.MinK) {
			return core.Zero
		}
	}
	return ktr
}

// calcGlobalEffects traces the reflected and the refracted ray
func (wt *WhittedTracer) calcGlobalEffects(gp geometry.GeoPoint, v, n core.Vec3, level int, k core.Vec3) core.Color {
	mat := gp.Geometry.Material()

	reflected := core.NewOffsetRay(gp.Point, v.Reflect(n), n, wt.config.Delta)
	refracted := core.NewOffsetRay(gp.Point, v, n, wt.config.Delta)

	return wt.calcGlobalEffect(reflected, level, k, mat.KR).
		Add(wt.calcGlobalEffect(refracted, level, k, mat.KT))
}

// calcGlobalEffect traces one secondary ray weighted by kx, dropping it
// when the cumulative attenuation k·kx is below MinK
func (wt *WhittedTracer) calcGlobalEffect(ray core.Ray, level int, k, kx core.Vec3) core.Color {
	kkx := k.MultiplyVec(kx)
	if kkx.AllBelow(wt.config.MinK) {
		return core.Black
	}
	gp, ok := geometry.FindClosestIntersection(wt.scene.Geometries, ray)
	if !ok {
		return wt.scene.Background.ScaleVec(kx)
	}
	return wt.calcColor(gp, ray, level-1, kkx).ScaleVec(kx)
}
