package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrNegativeCoefficient is returned when a material coefficient is below zero
var ErrNegativeCoefficient = errors.New("negative material coefficient")

// Material holds the Phong reflectance coefficients of a surface.
// Every coefficient is a per-channel triple, practically in [0,1].
type Material struct {
	KD        core.Vec3 // Diffuse
	KS        core.Vec3 // Specular
	Shininess int       // Specular exponent
	KT        core.Vec3 // Transparency
	KR        core.Vec3 // Reflectivity
}

// New creates a material after validating that no coefficient is negative
func New(kd, ks core.Vec3, shininess int, kt, kr core.Vec3) (Material, error) {
	m := Material{KD: kd, KS: ks, Shininess: shininess, KT: kt, KR: kr}
	if err := m.Validate(); err != nil {
		return Material{}, err
	}
	return m, nil
}

// Validate checks every coefficient channel and the shininess exponent
func (m Material) Validate() error {
	fields := []struct {
		name  string
		value core.Vec3
	}{
		{"kD", m.KD},
		{"kS", m.KS},
		{"kT", m.KT},
		{"kR", m.KR},
	}
	for _, f := range fields {
		if f.value.X < 0 || f.value.Y < 0 || f.value.Z < 0 {
			return fmt.Errorf("%s %v: %w", f.name, f.value, ErrNegativeCoefficient)
		}
	}
	if m.Shininess < 0 {
		return fmt.Errorf("shininess %d: %w", m.Shininess, ErrNegativeCoefficient)
	}
	return nil
}

// WithKD returns a copy with a uniform diffuse coefficient
func (m Material) WithKD(kd float64) Material {
	m.KD = core.Uniform(kd)
	return m
}

// WithKS returns a copy with a uniform specular coefficient
func (m Material) WithKS(ks float64) Material {
	m.KS = core.Uniform(ks)
	return m
}

// WithShininess returns a copy with the given specular exponent
func (m Material) WithShininess(n int) Material {
	m.Shininess = n
	return m
}

// WithKT returns a copy with a uniform transparency coefficient
func (m Material) WithKT(kt float64) Material {
	m.KT = core.Uniform(kt)
	return m
}

// WithKR returns a copy with a uniform reflectivity coefficient
func (m Material) WithKR(kr float64) Material {
	m.KR = core.Uniform(kr)
	return m
}

// NewMatte creates a purely diffuse material
func NewMatte(kd float64) Material {
	return Material{KD: core.Uniform(kd)}
}

// NewPlastic creates a diffuse material with a specular highlight
func NewPlastic(kd, ks float64, shininess int) Material {
	return Material{KD: core.Uniform(kd), KS: core.Uniform(ks), Shininess: shininess}
}

// NewMirror creates a reflective material with a faint diffuse base
func NewMirror(kr float64) Material {
	return Material{KD: core.Uniform(0.05), KS: core.Uniform(0.5), Shininess: 300, KR: core.Uniform(kr)}
}

// NewGlass creates a mostly transparent material
func NewGlass(kt float64) Material {
	return Material{KD: core.Uniform(0.1), KS: core.Uniform(0.4), Shininess: 100, KT: core.Uniform(kt)}
}
