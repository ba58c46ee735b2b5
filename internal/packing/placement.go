package packing

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// PlacementSampler draws particle centres uniformly inside a region shrunk
// by the particle radius.
type PlacementSampler struct {
	rng     *rand.Rand
	quantum float64
}

// NewPlacementSampler returns a sampler using rng. With quantum > 0 the
// centres are lattice points k·quantum; with quantum 0 they are continuous.
func NewPlacementSampler(rng *rand.Rand, quantum float64) *PlacementSampler {
	return &PlacementSampler{rng: rng, quantum: quantum}
}

// Sample returns a centre in [radius, extent-radius] on every axis.
// The caller guarantees region.Fits(radius).
func (s *PlacementSampler) Sample(region Region, radius float64) r3.Vec {
	var c [3]float64
	for axis, e := range region.Extents() {
		c[axis] = s.axis(radius, e-radius)
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}
}

func (s *PlacementSampler) axis(lo, hi float64) float64 {
	if s.quantum > 0 {
		klo := int64(math.Ceil(lo / s.quantum))
		khi := int64(math.Floor(hi / s.quantum))
		if khi >= klo {
			return float64(klo+s.rng.Int64N(khi-klo+1)) * s.quantum
		}
		// No lattice point in range (radius not on the lattice); fall back
		// to a continuous draw.
	}
	return lo + s.rng.Float64()*(hi-lo)
}
