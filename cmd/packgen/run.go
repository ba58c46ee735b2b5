package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/particle.pack/internal/config"
	"github.com/banshee-data/particle.pack/internal/monitoring"
	"github.com/banshee-data/particle.pack/internal/packing"
	"github.com/banshee-data/particle.pack/internal/report"
	"github.com/banshee-data/particle.pack/internal/timeutil"
	"github.com/banshee-data/particle.pack/internal/version"
)

type options struct {
	configPath string
	seed       uint64
	output     string
	histogram  string
	runs       int
	verbose    bool
	clock      timeutil.Clock
}

// Layout is the document handed to the rasterizer.
type Layout struct {
	RunID       string          `json:"run_id"`
	Generator   string          `json:"generator"`
	GeneratedAt time.Time       `json:"generated_at"`
	Seed        uint64          `json:"seed"`
	Region      regionDoc       `json:"region"`
	Populations []populationDoc `json:"populations"`
}

type regionDoc struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth,omitempty"`
}

type populationDoc struct {
	Name      string         `json:"name"`
	Color     []int          `json:"color,omitempty"`
	Exclude   string         `json:"exclude,omitempty"`
	Summary   report.Summary `json:"summary"`
	Particles []particleDoc  `json:"particles"`
}

type particleDoc struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
	R float64 `json:"r"`
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	monitoring.SetVerbose(opts.verbose)
	clock := opts.clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	started := clock.Now()

	cfg, err := config.LoadPackingConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", opts.runs)
	}

	seed := opts.seed
	if seed == 0 {
		seed = cfg.GetSeed()
	}
	if seed == 0 {
		seed = timeutil.SeedFrom(clock)
	}

	region := cfg.GetRegion()
	pooled := make([][]*packing.Group, len(cfg.Populations))
	var first []*packing.Group

	for i := 0; i < opts.runs; i++ {
		gc := cfg.GeneratorConfig()
		gc.Seed = seed + uint64(i)
		groups, err := generateAll(ctx, packing.NewGenerator(gc), region, cfg.Populations)
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		if i == 0 {
			first = groups
		}
		for p, g := range groups {
			pooled[p] = append(pooled[p], g)
		}
		monitoring.Debugf("run %d/%d complete", i+1, opts.runs)
	}

	monitoring.Debugf("generated %d run(s) in %s", opts.runs, clock.Since(started))

	layout := buildLayout(uuid.NewString(), seed, cfg, first)
	layout.GeneratedAt = started.UTC()

	if err := writeLayout(opts.output, layout, stdout); err != nil {
		return err
	}

	sums := make([]report.Summary, len(layout.Populations))
	for i, p := range layout.Populations {
		sums[i] = p.Summary
	}
	if err := report.WriteSummaries(stderr, sums); err != nil {
		return err
	}
	if opts.runs > 1 {
		for i, pop := range cfg.Populations {
			mean, sd := report.PooledRadiusStats(pooled[i])
			fmt.Fprintf(stderr, "%s over %d runs: mean r %.3f (want %.3f), std r %.3f (want %.3f)\n",
				pop.Name, opts.runs, mean, pop.RadiusMean, sd, pop.RadiusStdDev)
		}
	}

	if opts.histogram != "" {
		series := make([]report.HistogramSeries, len(cfg.Populations))
		for i, pop := range cfg.Populations {
			var radii []float64
			for _, g := range pooled[i] {
				radii = append(radii, g.Radii()...)
			}
			series[i] = report.HistogramSeries{Name: pop.Name, Radii: radii, Color: report.ColorFromBGR(pop.Color)}
		}
		if err := report.WriteRadiusHistogram(opts.histogram, series, 0); err != nil {
			return err
		}
		monitoring.Logf("wrote histogram %s", opts.histogram)
	}
	return nil
}

// generateAll packs every population in order. A population naming an
// earlier one in Exclude is generated against that group.
func generateAll(ctx context.Context, gen *packing.Generator, region packing.Region, pops []config.PopulationConfig) ([]*packing.Group, error) {
	byName := make(map[string]*packing.Group, len(pops))
	groups := make([]*packing.Group, 0, len(pops))
	for _, pop := range pops {
		g, err := gen.Generate(ctx, pop.Request(region, byName[pop.Exclude]))
		if err != nil {
			return nil, fmt.Errorf("population %q: %w", pop.Name, err)
		}
		byName[pop.Name] = g
		groups = append(groups, g)
	}
	return groups, nil
}

func buildLayout(runID string, seed uint64, cfg *config.PackingConfig, groups []*packing.Group) Layout {
	region := cfg.GetRegion()
	layout := Layout{
		RunID:     runID,
		Generator: "packgen " + version.String(),
		Seed:      seed,
		Region:    regionDoc{Height: region.Height, Width: region.Width, Depth: region.Depth},
	}
	for i, pop := range cfg.Populations {
		g := groups[i]
		doc := populationDoc{
			Name:      pop.Name,
			Color:     pop.Color,
			Exclude:   pop.Exclude,
			Summary:   report.Summarize(pop.Name, g, region),
			Particles: make([]particleDoc, g.Len()),
		}
		for j, p := range g.Particles() {
			doc.Particles[j] = particleDoc{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z, R: p.Radius}
		}
		layout.Populations = append(layout.Populations, doc)
	}
	return layout
}

func writeLayout(path string, layout Layout, stdout io.Writer) error {
	if path == "" {
		return nil
	}
	w := stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create layout file: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(layout); err != nil {
		return fmt.Errorf("failed to write layout: %w", err)
	}
	return nil
}
