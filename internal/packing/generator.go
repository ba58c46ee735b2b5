package packing

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/banshee-data/particle.pack/internal/monitoring"
)

const (
	// DefaultMaxAttempts bounds the candidate iterations of one Generate call.
	DefaultMaxAttempts = 10_000_000

	// FeasibilitySigmas is the number of standard deviations above the mean
	// radius that every region extent must exceed.
	FeasibilitySigmas = 4

	// cancelCheckInterval is how often (in attempts) the loop polls ctx.
	cancelCheckInterval = 1024
)

// Config controls a Generator. The zero value is usable: a time-based seed,
// whole-pixel quantum, linear index and DefaultMaxAttempts.
type Config struct {
	// Seed for the PCG source. 0 picks a time-based seed.
	Seed uint64
	// Quantum is the rounding unit for radii and positions. Nil means
	// DefaultQuantum; a pointer to 0 disables rounding.
	Quantum *float64
	// Strategy selects the overlap index.
	Strategy Strategy
	// CellSize for StrategyGrid. 0 uses twice the requested mean radius.
	CellSize float64
	// MaxAttempts caps candidate iterations per call. 0 means
	// DefaultMaxAttempts; negative means unbounded.
	MaxAttempts int
}

// Request describes one packing run.
type Request struct {
	Region     Region
	RadiusMean float64
	RadiusStd  float64
	Count      int
	// Exclusion is an optional read-only group the new particles must not
	// fully overlap.
	Exclusion *Group
}

// Validate runs the eager checks performed before any sampling.
func (r Request) Validate() error {
	if err := r.Region.Validate(); err != nil {
		return err
	}
	if !(r.RadiusMean > 0) {
		return fmt.Errorf("%w: radius mean %v must be positive", ErrInvalidParameters, r.RadiusMean)
	}
	if !(r.RadiusStd >= 0) {
		return fmt.Errorf("%w: radius stddev %v must be non-negative", ErrInvalidParameters, r.RadiusStd)
	}
	if r.Count < 0 {
		return fmt.Errorf("%w: count %d must not be negative", ErrInvalidParameters, r.Count)
	}
	if r.Exclusion != nil && r.Exclusion.Len() > 0 && r.Exclusion.Dims() != r.Region.Dims() {
		return fmt.Errorf("%w: %dD exclusion group for a %dD region",
			ErrInvalidParameters, r.Exclusion.Dims(), r.Region.Dims())
	}
	limit := r.RadiusMean + FeasibilitySigmas*r.RadiusStd
	for _, e := range r.Region.Extents() {
		if !(e > limit) {
			return fmt.Errorf("%w: extent %v does not exceed mean+%d·stddev = %v",
				ErrImpossiblePacking, e, FeasibilitySigmas, limit)
		}
	}
	return nil
}

// Generator runs rejection-sampling packings from its own random source.
type Generator struct {
	cfg    Config
	radii  *RadiusSampler
	placer *PlacementSampler
}

// NewGenerator creates a Generator. Two generators with the same non-zero
// seed produce identical groups for identical requests.
func NewGenerator(cfg Config) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	quantum := DefaultQuantum
	if cfg.Quantum != nil {
		quantum = *cfg.Quantum
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return &Generator{
		cfg:    cfg,
		radii:  NewRadiusSampler(rng, quantum),
		placer: NewPlacementSampler(rng, quantum),
	}
}

// Generate fills req.Count non-overlapping particles into req.Region.
//
// Each iteration draws a radius and a centre, rejects the candidate if it
// fully overlaps any exclusion-group member or partially overlaps any
// accepted particle, and otherwise appends it. Radius retry exhaustion and
// radii too large for the region only cost an iteration.
//
// The loop stops with ErrPackingSaturated after the attempt budget, or with
// the context error if ctx is cancelled. With a negative budget and no
// deadline it runs until the count is reached, which may be never when the
// density is too high. No group is returned on any error.
func (g *Generator) Generate(ctx context.Context, req Request) (*Group, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	group := &Group{dims: req.Region.Dims(), exclusion: req.Exclusion}
	if req.Count == 0 {
		return group, nil
	}
	group.particles = make([]Particle, 0, req.Count)

	cellSize := g.cfg.CellSize
	if cellSize <= 0 {
		cellSize = 2 * req.RadiusMean
	}
	accepted := NewIndex(g.cfg.Strategy, cellSize)
	var excluded Index
	if req.Exclusion.Len() > 0 {
		excluded = IndexOf(req.Exclusion, g.cfg.Strategy, cellSize)
	}

	budget := g.cfg.MaxAttempts
	if budget == 0 {
		budget = DefaultMaxAttempts
	}

	rep := &group.report
	for len(group.particles) < req.Count {
		if budget > 0 && rep.Attempts >= budget {
			monitoring.Logf("packing: saturated after %d attempts with %d/%d placed", rep.Attempts, len(group.particles), req.Count)
			return nil, fmt.Errorf("%w: placed %d of %d in %d attempts",
				ErrPackingSaturated, len(group.particles), req.Count, rep.Attempts)
		}
		rep.Attempts++
		if rep.Attempts%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("packing cancelled after %d attempts: %w", rep.Attempts, err)
			}
		}

		radius, err := g.radii.Sample(req.RadiusMean, req.RadiusStd)
		if err != nil {
			rep.RadiusFailures++
			continue
		}
		if !req.Region.Fits(radius) {
			rep.OversizedRadii++
			continue
		}
		candidate := Particle{Position: g.placer.Sample(req.Region, radius), Radius: radius}

		if excluded != nil && excluded.AnyFull(candidate) {
			rep.ExclusionRejects++
			continue
		}
		if accepted.AnyPartial(candidate) {
			rep.OverlapRejects++
			continue
		}

		accepted.Insert(candidate)
		group.particles = append(group.particles, candidate)
	}

	monitoring.Debugf("packing: placed %d particles in %d attempts", len(group.particles), rep.Attempts)
	return group, nil
}
