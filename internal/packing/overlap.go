package packing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// PartialOverlap reports whether a and b touch or intersect:
// |a-b| <= ra + rb. Touching counts as overlapping.
func PartialOverlap(a, b Particle) bool {
	sum := a.Radius + b.Radius
	d := r3.Sub(a.Position, b.Position)
	if math.Abs(d.X) > sum || math.Abs(d.Y) > sum || math.Abs(d.Z) > sum {
		return false
	}
	return r3.Norm2(d) <= sum*sum
}

// FullOverlap reports whether either particle lies strictly inside the
// other: |ra-rb| > |a-b|. A particle touching the inside of the other's
// boundary is not contained.
func FullOverlap(a, b Particle) bool {
	diff := math.Abs(a.Radius - b.Radius)
	d := r3.Sub(a.Position, b.Position)
	if math.Abs(d.X) >= diff || math.Abs(d.Y) >= diff || math.Abs(d.Z) >= diff {
		return false
	}
	return r3.Norm2(d) < diff*diff
}

// Index answers overlap queries against a growing set of particles.
// Implementations differ only in speed, never in answers.
type Index interface {
	Insert(p Particle)
	// AnyPartial reports whether c partially overlaps any member.
	AnyPartial(c Particle) bool
	// AnyFull reports whether c fully overlaps any member.
	AnyFull(c Particle) bool
	Len() int
}

// Strategy names an Index implementation.
type Strategy string

const (
	// StrategyLinear scans every member with a per-axis short-circuit.
	StrategyLinear Strategy = "linear"
	// StrategyGrid buckets members in a uniform hash grid.
	StrategyGrid Strategy = "grid"
)

// ParseStrategy converts a config string to a Strategy. Empty means linear.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyLinear:
		return StrategyLinear, nil
	case StrategyGrid:
		return StrategyGrid, nil
	}
	return "", fmt.Errorf("unknown index strategy %q", s)
}

// NewIndex builds an empty index. cellSize is only used by StrategyGrid.
func NewIndex(strategy Strategy, cellSize float64) Index {
	if strategy == StrategyGrid && cellSize > 0 {
		return newGridIndex(cellSize)
	}
	return &linearIndex{}
}

// IndexOf returns an index pre-filled with the members of g.
func IndexOf(g *Group, strategy Strategy, cellSize float64) Index {
	idx := NewIndex(strategy, cellSize)
	for i := 0; i < g.Len(); i++ {
		idx.Insert(g.At(i))
	}
	return idx
}

type linearIndex struct {
	members []Particle
}

func (l *linearIndex) Insert(p Particle) { l.members = append(l.members, p) }
func (l *linearIndex) Len() int          { return len(l.members) }

func (l *linearIndex) AnyPartial(c Particle) bool {
	for _, m := range l.members {
		if PartialOverlap(c, m) {
			return true
		}
	}
	return false
}

func (l *linearIndex) AnyFull(c Particle) bool {
	for _, m := range l.members {
		if FullOverlap(c, m) {
			return true
		}
	}
	return false
}

type cellKey struct{ x, y, z int64 }

// gridIndex is a uniform hash grid. A query for c visits every cell within
// c.Radius + maxRadius of the centre, which covers both predicates: partial
// overlap needs d <= rc+rm and containment needs d < |rc-rm|.
type gridIndex struct {
	cellSize  float64
	cells     map[cellKey][]Particle
	maxRadius float64
	n         int
}

func newGridIndex(cellSize float64) *gridIndex {
	return &gridIndex{
		cellSize: cellSize,
		cells:    make(map[cellKey][]Particle),
	}
}

func (g *gridIndex) cell(v float64) int64 { return int64(math.Floor(v / g.cellSize)) }

func (g *gridIndex) Insert(p Particle) {
	k := cellKey{g.cell(p.Position.X), g.cell(p.Position.Y), g.cell(p.Position.Z)}
	g.cells[k] = append(g.cells[k], p)
	if p.Radius > g.maxRadius {
		g.maxRadius = p.Radius
	}
	g.n++
}

func (g *gridIndex) Len() int { return g.n }

func (g *gridIndex) AnyPartial(c Particle) bool { return g.any(c, PartialOverlap) }
func (g *gridIndex) AnyFull(c Particle) bool    { return g.any(c, FullOverlap) }

func (g *gridIndex) any(c Particle, pred func(a, b Particle) bool) bool {
	if g.n == 0 {
		return false
	}
	reach := c.Radius + g.maxRadius
	x0, x1 := g.cell(c.Position.X-reach), g.cell(c.Position.X+reach)
	y0, y1 := g.cell(c.Position.Y-reach), g.cell(c.Position.Y+reach)
	z0, z1 := g.cell(c.Position.Z-reach), g.cell(c.Position.Z+reach)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for z := z0; z <= z1; z++ {
				for _, m := range g.cells[cellKey{x, y, z}] {
					if pred(c, m) {
						return true
					}
				}
			}
		}
	}
	return false
}
