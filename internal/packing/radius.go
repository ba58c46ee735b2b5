package packing

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// MaxRadiusDraws is the hard cap on normal draws per radius (or per batch
// in SampleBatch) before the sampler gives up with ErrRetryExhausted.
const MaxRadiusDraws = 1000

// DefaultQuantum rounds radii and positions to whole pixels.
const DefaultQuantum = 1.0

// RadiusSampler draws positive radii from a normal distribution.
type RadiusSampler struct {
	src     rand.Source
	quantum float64
}

// NewRadiusSampler returns a sampler reading from src. Radii are rounded to
// the nearest multiple of quantum (half to even); quantum 0 disables rounding.
func NewRadiusSampler(src rand.Source, quantum float64) *RadiusSampler {
	return &RadiusSampler{src: src, quantum: quantum}
}

// Sample draws a single radius. Draws that round to zero or below are
// discarded and redrawn, up to MaxRadiusDraws times.
//
// mean = 0 with stdDev = 0 never succeeds; callers should validate their
// parameters rather than rely on the retry cap.
func (s *RadiusSampler) Sample(mean, stdDev float64) (float64, error) {
	dist := distuv.Normal{Mu: mean, Sigma: stdDev, Src: s.src}
	for i := 0; i < MaxRadiusDraws; i++ {
		if r := s.round(dist.Rand()); r > 0 {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: mean=%v stddev=%v after %d draws", ErrRetryExhausted, mean, stdDev, MaxRadiusDraws)
}

// SampleBatch draws n radii together. If any of them is non-positive the
// whole batch is redrawn; after MaxRadiusDraws batches it fails.
func (s *RadiusSampler) SampleBatch(mean, stdDev float64, n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: batch size %d", ErrInvalidParameters, n)
	}
	dist := distuv.Normal{Mu: mean, Sigma: stdDev, Src: s.src}
	radii := make([]float64, n)
	for try := 0; try < MaxRadiusDraws; try++ {
		ok := true
		for i := range radii {
			radii[i] = s.round(dist.Rand())
			if radii[i] <= 0 {
				ok = false
			}
		}
		if ok {
			return radii, nil
		}
	}
	return nil, fmt.Errorf("%w: batch of %d, mean=%v stddev=%v", ErrRetryExhausted, n, mean, stdDev)
}

func (s *RadiusSampler) round(x float64) float64 {
	if s.quantum <= 0 {
		return x
	}
	return math.RoundToEven(x/s.quantum) * s.quantum
}
