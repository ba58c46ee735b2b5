// Package report summarises generated particle groups for calling and
// reporting code: radius statistics, packing fractions and charts.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/particle.pack/internal/packing"
)

// Summary describes one generated population.
type Summary struct {
	Name            string  `json:"name"`
	Count           int     `json:"count"`
	MeanRadius      float64 `json:"mean_radius"`
	StdDevRadius    float64 `json:"std_dev_radius"`
	MinRadius       float64 `json:"min_radius"`
	MaxRadius       float64 `json:"max_radius"`
	PackingFraction float64 `json:"packing_fraction"`
	Attempts        int     `json:"attempts"`
	AcceptanceRate  float64 `json:"acceptance_rate"`
}

// Summarize computes the statistics of g inside region.
func Summarize(name string, g *packing.Group, region packing.Region) Summary {
	s := Summary{Name: name, Count: g.Len()}
	if g.Len() == 0 {
		return s
	}
	radii := g.Radii()
	s.MeanRadius = g.MeanRadius()
	s.StdDevRadius = g.StdDevRadius()
	s.MinRadius = floats.Min(radii)
	s.MaxRadius = floats.Max(radii)
	s.PackingFraction = PackingFraction(g, region)
	s.Attempts = g.Report().Attempts
	if s.Attempts > 0 {
		s.AcceptanceRate = float64(s.Count) / float64(s.Attempts)
	}
	return s
}

// PackingFraction is the share of the region covered by the group: disk
// area over region area in 2D, sphere volume over box volume in 3D.
func PackingFraction(g *packing.Group, region packing.Region) float64 {
	if g.Len() == 0 {
		return 0
	}
	radii := g.Radii()
	occupied := make([]float64, len(radii))
	for i, r := range radii {
		if region.Dims() == 3 {
			occupied[i] = 4.0 / 3.0 * math.Pi * r * r * r
		} else {
			occupied[i] = math.Pi * r * r
		}
	}
	return floats.Sum(occupied) / region.Volume()
}

// PooledRadiusStats returns the mean and sample standard deviation of the
// radii of all groups taken together. Used to check repeated runs against
// the requested distribution.
func PooledRadiusStats(groups []*packing.Group) (mean, stddev float64) {
	var all []float64
	for _, g := range groups {
		all = append(all, g.Radii()...)
	}
	switch len(all) {
	case 0:
		return 0, 0
	case 1:
		return all[0], 0
	}
	return stat.MeanStdDev(all, nil)
}

// WriteSummaries prints an aligned table of summaries.
func WriteSummaries(w io.Writer, sums []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "population\tcount\tmean r\tstd r\tmin r\tmax r\tfraction\tattempts\taccept")
	for _, s := range sums {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.0f\t%.0f\t%.4f\t%d\t%.4f\n",
			s.Name, s.Count, s.MeanRadius, s.StdDevRadius, s.MinRadius, s.MaxRadius,
			s.PackingFraction, s.Attempts, s.AcceptanceRate)
	}
	return tw.Flush()
}
