package packing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// Region is the packable volume. Depth == 0 selects a 2D region.
// x spans Width, y spans Height, z spans Depth.
type Region struct {
	Width, Height, Depth float64
}

// Region2D returns a planar region of the given height and width.
func Region2D(height, width float64) Region {
	return Region{Width: width, Height: height}
}

// Region3D returns a box region.
func Region3D(height, width, depth float64) Region {
	return Region{Width: width, Height: height, Depth: depth}
}

// Dims returns 2 or 3.
func (r Region) Dims() int {
	if r.Depth != 0 {
		return 3
	}
	return 2
}

// Extents returns the per-axis extents in x, y[, z] order.
func (r Region) Extents() []float64 {
	if r.Dims() == 3 {
		return []float64{r.Width, r.Height, r.Depth}
	}
	return []float64{r.Width, r.Height}
}

// Validate checks every extent is strictly positive.
func (r Region) Validate() error {
	if r.Depth < 0 || math.IsNaN(r.Depth) {
		return fmt.Errorf("%w: depth %v", ErrInvalidParameters, r.Depth)
	}
	for _, e := range r.Extents() {
		if !(e > 0) || math.IsInf(e, 1) {
			return fmt.Errorf("%w: region extent %v must be positive and finite", ErrInvalidParameters, e)
		}
	}
	return nil
}

// Fits reports whether a particle of the given radius can lie fully inside
// the region on every axis.
func (r Region) Fits(radius float64) bool {
	for _, e := range r.Extents() {
		if 2*radius > e {
			return false
		}
	}
	return true
}

// Contains reports whether p lies fully inside the region.
func (r Region) Contains(p Particle) bool {
	coords := [3]float64{p.Position.X, p.Position.Y, p.Position.Z}
	for axis, e := range r.Extents() {
		if coords[axis] < p.Radius || coords[axis] > e-p.Radius {
			return false
		}
	}
	return true
}

// Volume returns the area (2D) or volume (3D) of the region.
func (r Region) Volume() float64 {
	v := 1.0
	for _, e := range r.Extents() {
		v *= e
	}
	return v
}

// Particle is a disk or sphere. Position.Z is zero for 2D particles.
type Particle struct {
	Position r3.Vec
	Radius   float64
}

// Report counts what happened to the candidates drawn during a Generate call.
type Report struct {
	Attempts         int // candidate iterations, including failed radius draws
	RadiusFailures   int // ErrRetryExhausted from the radius sampler
	OversizedRadii   int // radius too large to fit the region on some axis
	ExclusionRejects int // fully overlapped an exclusion-group member
	OverlapRejects   int // partially overlapped an accepted particle
}

// Group is an ordered, read-only set of accepted particles.
// Insertion order is acceptance order.
type Group struct {
	dims      int
	particles []Particle
	exclusion *Group
	report    Report
}

// NewGroup wraps existing particles, for example ones loaded by a caller,
// so they can be used as an exclusion group. The slice is copied.
func NewGroup(dims int, particles []Particle) (*Group, error) {
	if dims != 2 && dims != 3 {
		return nil, fmt.Errorf("%w: dims must be 2 or 3, got %d", ErrInvalidParameters, dims)
	}
	for i, p := range particles {
		if !(p.Radius > 0) {
			return nil, fmt.Errorf("%w: particle %d has radius %v", ErrInvalidParameters, i, p.Radius)
		}
		if dims == 2 && p.Position.Z != 0 {
			return nil, fmt.Errorf("%w: particle %d has a z coordinate in a 2D group", ErrInvalidParameters, i)
		}
	}
	return &Group{dims: dims, particles: append([]Particle(nil), particles...)}, nil
}

// Len returns the number of particles. A nil group has none.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.particles)
}

// Dims returns 2 or 3.
func (g *Group) Dims() int { return g.dims }

// At returns the i-th accepted particle.
func (g *Group) At(i int) Particle { return g.particles[i] }

// Particles returns a copy of the members in acceptance order.
func (g *Group) Particles() []Particle {
	if g == nil {
		return nil
	}
	return append([]Particle(nil), g.particles...)
}

// Exclusion returns the group this one was generated against, or nil.
func (g *Group) Exclusion() *Group { return g.exclusion }

// Report returns the generation counters. Groups built with NewGroup
// return a zero Report.
func (g *Group) Report() Report { return g.report }

// Radii returns the member radii in acceptance order.
func (g *Group) Radii() []float64 {
	if g == nil {
		return nil
	}
	radii := make([]float64, len(g.particles))
	for i, p := range g.particles {
		radii[i] = p.Radius
	}
	return radii
}

// MeanRadius returns the mean radius, or 0 for an empty group.
func (g *Group) MeanRadius() float64 {
	if g.Len() == 0 {
		return 0
	}
	return stat.Mean(g.Radii(), nil)
}

// StdDevRadius returns the sample standard deviation of the radii,
// or 0 for groups with fewer than two members.
func (g *Group) StdDevRadius() float64 {
	if g.Len() < 2 {
		return 0
	}
	return stat.StdDev(g.Radii(), nil)
}
