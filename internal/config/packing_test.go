package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/particle.pack/internal/packing"
	"github.com/banshee-data/particle.pack/internal/testutil"
)

func TestDefaultPackingConfig(t *testing.T) {
	cfg := DefaultPackingConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, packing.Region2D(1000, 1000), cfg.GetRegion())
	assert.Equal(t, 1.0, cfg.GetQuantum())
	assert.Equal(t, packing.StrategyGrid, cfg.GetStrategy())
	assert.Equal(t, packing.DefaultMaxAttempts, cfg.GetMaxAttempts())
	require.Len(t, cfg.Populations, 2)
	assert.Equal(t, "ap", cfg.Populations[1].Exclude)
}

func TestDefaultsFileMatchesBuiltins(t *testing.T) {
	loaded := MustLoadDefaultConfig()
	if diff := cmp.Diff(DefaultPackingConfig(), loaded); diff != "" {
		t.Errorf("config/packing.defaults.json differs from DefaultPackingConfig (-want +got):\n%s", diff)
	}
}

func TestLoadPackingConfig(t *testing.T) {
	path := testutil.WriteTempFile(t, "run.json", `{
  "region": {"height": 200, "width": 300, "depth": 50},
  "seed": 42,
  "quantum": 0,
  "strategy": "linear",
  "max_attempts": -1,
  "populations": [
    {"name": "big", "radius_mean": 10, "radius_std_dev": 1, "count": 3},
    {"name": "small", "radius_mean": 2, "radius_std_dev": 0.5, "count": 20, "exclude": "big"}
  ]
}`)

	cfg, err := LoadPackingConfig(path)
	require.NoError(t, err)

	region := cfg.GetRegion()
	assert.Equal(t, 3, region.Dims())
	assert.Equal(t, []float64{300, 200, 50}, region.Extents())
	assert.Equal(t, uint64(42), cfg.GetSeed())
	assert.Equal(t, 0.0, cfg.GetQuantum())
	assert.Equal(t, -1, cfg.GetMaxAttempts())

	gc := cfg.GeneratorConfig()
	require.NotNil(t, gc.Quantum)
	assert.Equal(t, 0.0, *gc.Quantum)
	assert.Equal(t, packing.StrategyLinear, gc.Strategy)
	assert.Equal(t, uint64(42), gc.Seed)

	req := cfg.Populations[1].Request(region, nil)
	assert.Equal(t, 2.0, req.RadiusMean)
	assert.Equal(t, 0.5, req.RadiusStd)
	assert.Equal(t, 20, req.Count)
}

func TestLoadPackingConfig_Defaults(t *testing.T) {
	path := testutil.WriteTempFile(t, "minimal.json", `{"populations": [{"name": "a", "radius_mean": 5, "count": 1}]}`)

	cfg, err := LoadPackingConfig(path)
	require.NoError(t, err)

	assert.Equal(t, packing.Region2D(1000, 1000), cfg.GetRegion())
	assert.Equal(t, uint64(0), cfg.GetSeed())
	assert.Equal(t, packing.DefaultQuantum, cfg.GetQuantum())
	assert.Equal(t, packing.StrategyLinear, cfg.GetStrategy())
	assert.Equal(t, 0.0, cfg.GetCellSize())
	assert.Equal(t, packing.DefaultMaxAttempts, cfg.GetMaxAttempts())
}

func TestLoadPackingConfig_Errors(t *testing.T) {
	t.Run("wrong extension", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "run.yaml", `{}`)
		_, err := LoadPackingConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".json extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPackingConfig(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "big.json", `{"pad":"`+strings.Repeat("x", 1024*1024)+`"}`)
		_, err := LoadPackingConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too large")
	})

	t.Run("bad json", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "bad.json", `{"populations": [`)
		_, err := LoadPackingConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse")
	})
}

func TestValidate(t *testing.T) {
	pop := func(name string) PopulationConfig {
		return PopulationConfig{Name: name, RadiusMean: 5, RadiusStdDev: 1, Count: 3}
	}

	tests := []struct {
		name    string
		mutate  func(c *PackingConfig)
		wantErr string
	}{
		{"valid", func(c *PackingConfig) {}, ""},
		{"no populations", func(c *PackingConfig) { c.Populations = nil }, "at least one population"},
		{"negative width", func(c *PackingConfig) { c.Region = &RegionConfig{Height: 10, Width: -1} }, "region"},
		{"negative depth", func(c *PackingConfig) { c.Region = &RegionConfig{Height: 10, Width: 10, Depth: -1} }, "region"},
		{"negative quantum", func(c *PackingConfig) { c.Quantum = ptrFloat64(-0.5) }, "quantum"},
		{"unknown strategy", func(c *PackingConfig) { c.Strategy = ptrString("kdtree") }, "unknown index strategy"},
		{"negative cell size", func(c *PackingConfig) { c.CellSize = ptrFloat64(-1) }, "cell_size"},
		{"unnamed", func(c *PackingConfig) { c.Populations[0].Name = "" }, "name is required"},
		{"duplicate", func(c *PackingConfig) { c.Populations[1].Name = "a" }, "duplicate"},
		{"zero mean", func(c *PackingConfig) { c.Populations[0].RadiusMean = 0 }, "radius_mean"},
		{"negative std", func(c *PackingConfig) { c.Populations[0].RadiusStdDev = -1 }, "radius_std_dev"},
		{"negative count", func(c *PackingConfig) { c.Populations[0].Count = -2 }, "count"},
		{"forward exclude", func(c *PackingConfig) { c.Populations[0].Exclude = "b" }, "earlier population"},
		{"unknown exclude", func(c *PackingConfig) { c.Populations[1].Exclude = "zzz" }, "earlier population"},
		{"self exclude", func(c *PackingConfig) { c.Populations[1].Exclude = "b" }, "earlier population"},
		{"bad color", func(c *PackingConfig) { c.Populations[0].Color = []int{1, 2} }, "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &PackingConfig{Populations: []PopulationConfig{pop("a"), pop("b")}}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetStrategy_FallsBackOnInvalid(t *testing.T) {
	cfg := &PackingConfig{Strategy: ptrString("bogus")}
	assert.Equal(t, packing.StrategyLinear, cfg.GetStrategy())
}
