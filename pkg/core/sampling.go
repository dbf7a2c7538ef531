package core

import (
	"math/rand"
	"sync"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() (float64, float64)
}

// RandomSampler wraps a seeded Go random generator. It is safe for concurrent use
// so a single instance can be shared by all render workers.
type RandomSampler struct {
	mu     sync.Mutex
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a seed
func NewRandomSampler(seed int64) *RandomSampler {
	return &RandomSampler{random: rand.New(rand.NewSource(seed))}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Float64(), r.random.Float64()
}

// CenterSampler always returns the middle of the unit interval, turning
// jittered sampling patterns into regular grids
type CenterSampler struct{}

func (CenterSampler) Get1D() float64            { return 0.5 }
func (CenterSampler) Get2D() (float64, float64) { return 0.5, 0.5 }

// StratifiedGrid returns n*n jittered sample coordinates in [-0.5, 0.5)^2, one per grid cell
func StratifiedGrid(n int, sampler Sampler) [][2]float64 {
	if n < 1 {
		n = 1
	}
	cell := 1.0 / float64(n)
	samples := make([][2]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			u, v := sampler.Get2D()
			samples = append(samples, [2]float64{
				-0.5 + (float64(i)+u)*cell,
				-0.5 + (float64(j)+v)*cell,
			})
		}
	}
	return samples
}
