package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/particle.pack/internal/packing"
)

// DefaultConfigPath is the path to the canonical packing defaults file.
const DefaultConfigPath = "config/packing.defaults.json"

// PackingConfig is the root configuration for a packing run: one region
// and an ordered list of particle populations generated into it.
type PackingConfig struct {
	Region *RegionConfig `json:"region,omitempty"`

	// Generator params
	Seed        *uint64  `json:"seed,omitempty"`
	Quantum     *float64 `json:"quantum,omitempty"` // 0 disables rounding
	Strategy    *string  `json:"strategy,omitempty"`
	CellSize    *float64 `json:"cell_size,omitempty"`
	MaxAttempts *int     `json:"max_attempts,omitempty"` // negative = unbounded

	Populations []PopulationConfig `json:"populations"`
}

// RegionConfig holds the bounding extents. Depth 0 means a 2D region.
type RegionConfig struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth,omitempty"`
}

// PopulationConfig describes one group of particles.
type PopulationConfig struct {
	Name         string  `json:"name"`
	RadiusMean   float64 `json:"radius_mean"`
	RadiusStdDev float64 `json:"radius_std_dev"`
	Count        int     `json:"count"`
	// Exclude names an earlier population used as the exclusion group.
	Exclude string `json:"exclude,omitempty"`
	// Color is passed through untouched for the downstream rasterizer.
	Color []int `json:"color,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultPackingConfig returns the built-in defaults: a 1000×1000 frame with
// a sparse population of large particles and a denser one of small particles
// that must not be swallowed by the first.
func DefaultPackingConfig() *PackingConfig {
	return &PackingConfig{
		Region:      &RegionConfig{Height: 1000, Width: 1000},
		Quantum:     ptrFloat64(packing.DefaultQuantum),
		Strategy:    ptrString(string(packing.StrategyGrid)),
		MaxAttempts: ptrInt(packing.DefaultMaxAttempts),
		Populations: []PopulationConfig{
			{Name: "ap", RadiusMean: 35, RadiusStdDev: 5, Count: 10, Color: []int{201, 27, 18}},
			{Name: "void", RadiusMean: 15, RadiusStdDev: 10, Count: 25, Exclude: "ap", Color: []int{53, 26, 232}},
		},
	}
}

// LoadPackingConfig loads a PackingConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Omitted
// generator fields fall back to the Get* defaults.
func LoadPackingConfig(path string) (*PackingConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &PackingConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded; intended
// for test setup.
func MustLoadDefaultConfig() *PackingConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadPackingConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid. Feasibility of
// each population against the region is left to packing.Request.Validate.
func (c *PackingConfig) Validate() error {
	if c.Region != nil {
		if err := c.GetRegion().Validate(); err != nil {
			return fmt.Errorf("region: %w", err)
		}
	}

	if c.Quantum != nil && *c.Quantum < 0 {
		return fmt.Errorf("quantum must be non-negative, got %f", *c.Quantum)
	}

	if c.Strategy != nil {
		if _, err := packing.ParseStrategy(*c.Strategy); err != nil {
			return err
		}
	}

	if c.CellSize != nil && *c.CellSize < 0 {
		return fmt.Errorf("cell_size must be non-negative, got %f", *c.CellSize)
	}

	if len(c.Populations) == 0 {
		return fmt.Errorf("at least one population is required")
	}
	seen := make(map[string]bool, len(c.Populations))
	for i, p := range c.Populations {
		if p.Name == "" {
			return fmt.Errorf("population %d: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("population %q: duplicate name", p.Name)
		}
		if p.RadiusMean <= 0 {
			return fmt.Errorf("population %q: radius_mean must be positive, got %f", p.Name, p.RadiusMean)
		}
		if p.RadiusStdDev < 0 {
			return fmt.Errorf("population %q: radius_std_dev must be non-negative, got %f", p.Name, p.RadiusStdDev)
		}
		if p.Count < 0 {
			return fmt.Errorf("population %q: count must be non-negative, got %d", p.Name, p.Count)
		}
		if p.Exclude != "" && !seen[p.Exclude] {
			return fmt.Errorf("population %q: exclude %q must name an earlier population", p.Name, p.Exclude)
		}
		if len(p.Color) != 0 && len(p.Color) != 3 {
			return fmt.Errorf("population %q: color must have 3 channels, got %d", p.Name, len(p.Color))
		}
		seen[p.Name] = true
	}

	return nil
}

// GetRegion returns the configured region or the 1000×1000 default.
func (c *PackingConfig) GetRegion() packing.Region {
	if c.Region == nil {
		return packing.Region2D(1000, 1000)
	}
	return packing.Region3D(c.Region.Height, c.Region.Width, c.Region.Depth)
}

// GetSeed returns the seed value or 0 (time-based).
func (c *PackingConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return 0
	}
	return *c.Seed
}

// GetQuantum returns the quantum value or the default.
func (c *PackingConfig) GetQuantum() float64 {
	if c.Quantum == nil {
		return packing.DefaultQuantum
	}
	return *c.Quantum
}

// GetStrategy returns the index strategy or linear. Invalid names are
// rejected by Validate and fall back to linear here.
func (c *PackingConfig) GetStrategy() packing.Strategy {
	if c.Strategy == nil {
		return packing.StrategyLinear
	}
	s, err := packing.ParseStrategy(*c.Strategy)
	if err != nil {
		return packing.StrategyLinear
	}
	return s
}

// GetCellSize returns the grid cell size or 0 (derived from the mean radius).
func (c *PackingConfig) GetCellSize() float64 {
	if c.CellSize == nil {
		return 0
	}
	return *c.CellSize
}

// GetMaxAttempts returns the attempt budget or the default.
func (c *PackingConfig) GetMaxAttempts() int {
	if c.MaxAttempts == nil {
		return packing.DefaultMaxAttempts
	}
	return *c.MaxAttempts
}

// GeneratorConfig converts the generator fields into a packing.Config.
func (c *PackingConfig) GeneratorConfig() packing.Config {
	q := c.GetQuantum()
	return packing.Config{
		Seed:        c.GetSeed(),
		Quantum:     &q,
		Strategy:    c.GetStrategy(),
		CellSize:    c.GetCellSize(),
		MaxAttempts: c.GetMaxAttempts(),
	}
}

// Request builds the packing request for a population. exclusion may be nil.
func (p PopulationConfig) Request(region packing.Region, exclusion *packing.Group) packing.Request {
	return packing.Request{
		Region:     region,
		RadiusMean: p.RadiusMean,
		RadiusStd:  p.RadiusStdDev,
		Count:      p.Count,
		Exclusion:  exclusion,
	}
}
