package packing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestRegion(t *testing.T) {
	t.Parallel()

	flat := Region2D(40, 60)
	assert.Equal(t, 2, flat.Dims())
	assert.Equal(t, []float64{60, 40}, flat.Extents())
	assert.Equal(t, 2400.0, flat.Volume())

	box := Region3D(10, 20, 30)
	assert.Equal(t, 3, box.Dims())
	assert.Equal(t, []float64{20, 10, 30}, box.Extents())
	assert.Equal(t, 6000.0, box.Volume())
}

func TestRegion_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		region Region
		ok     bool
	}{
		{"2d", Region2D(10, 10), true},
		{"3d", Region3D(10, 10, 10), true},
		{"zero height", Region2D(0, 10), false},
		{"negative width", Region2D(10, -1), false},
		{"negative depth", Region{Width: 10, Height: 10, Depth: -5}, false},
		{"empty", Region{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.region.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidParameters), "got %v", err)
			}
		})
	}
}

func TestRegion_FitsAndContains(t *testing.T) {
	t.Parallel()

	r := Region2D(20, 30)
	assert.True(t, r.Fits(10))
	assert.False(t, r.Fits(10.5))

	assert.True(t, r.Contains(Particle{Position: r3.Vec{X: 5, Y: 5}, Radius: 5}))
	assert.True(t, r.Contains(Particle{Position: r3.Vec{X: 25, Y: 15}, Radius: 5}))
	assert.False(t, r.Contains(Particle{Position: r3.Vec{X: 4.9, Y: 10}, Radius: 5}))
	assert.False(t, r.Contains(Particle{Position: r3.Vec{X: 10, Y: 15.1}, Radius: 5}))

	box := Region3D(20, 20, 8)
	assert.False(t, box.Fits(5))
	assert.False(t, box.Contains(Particle{Position: r3.Vec{X: 10, Y: 10, Z: 2}, Radius: 3}))
	assert.True(t, box.Contains(Particle{Position: r3.Vec{X: 10, Y: 10, Z: 4}, Radius: 3}))
}

func TestNewGroup(t *testing.T) {
	t.Parallel()

	src := []Particle{
		{Position: r3.Vec{X: 1, Y: 1}, Radius: 1},
		{Position: r3.Vec{X: 5, Y: 5}, Radius: 3},
	}
	g, err := NewGroup(2, src)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 2, g.Dims())
	assert.Nil(t, g.Exclusion())
	assert.Equal(t, Report{}, g.Report())

	src[0].Radius = 99
	assert.Equal(t, 1.0, g.At(0).Radius, "NewGroup must copy its input")

	out := g.Particles()
	out[1].Radius = 42
	assert.Equal(t, 3.0, g.At(1).Radius, "Particles must return a copy")

	_, err = NewGroup(4, nil)
	assert.ErrorIs(t, err, ErrInvalidParameters)
	_, err = NewGroup(2, []Particle{{Radius: 0}})
	assert.ErrorIs(t, err, ErrInvalidParameters)
	_, err = NewGroup(2, []Particle{{Position: r3.Vec{Z: 1}, Radius: 1}})
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestGroup_Statistics(t *testing.T) {
	t.Parallel()

	g, err := NewGroup(2, []Particle{
		{Position: r3.Vec{X: 10, Y: 10}, Radius: 8},
		{Position: r3.Vec{X: 40, Y: 10}, Radius: 10},
		{Position: r3.Vec{X: 70, Y: 10}, Radius: 12},
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{8, 10, 12}, g.Radii())
	assert.InDelta(t, 10.0, g.MeanRadius(), 1e-12)
	assert.InDelta(t, 2.0, g.StdDevRadius(), 1e-12)

	single, err := NewGroup(2, []Particle{{Position: r3.Vec{X: 1, Y: 1}, Radius: 4}})
	require.NoError(t, err)
	assert.Equal(t, 4.0, single.MeanRadius())
	assert.Zero(t, single.StdDevRadius())
}

func TestGroup_NilIsEmpty(t *testing.T) {
	t.Parallel()

	var g *Group
	assert.Zero(t, g.Len())
	assert.Nil(t, g.Particles())
	assert.Nil(t, g.Radii())
	assert.Zero(t, g.MeanRadius())
	assert.Zero(t, g.StdDevRadius())
}
