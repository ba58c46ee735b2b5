package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HistogramSeries is one population's radii and its fill colour.
// A nil Color picks one from a generated palette.
type HistogramSeries struct {
	Name  string
	Radii []float64
	Color color.Color
}

// DefaultHistogramBins is the bin count used when WriteRadiusHistogram is
// given a non-positive value.
const DefaultHistogramBins = 20

// WriteRadiusHistogram renders one overlaid radius histogram per series to
// path. The image format follows the file extension (png, svg, pdf, ...).
func WriteRadiusHistogram(path string, series []HistogramSeries, bins int) error {
	if len(series) == 0 {
		return fmt.Errorf("no series to plot")
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	p := plot.New()
	p.Title.Text = "Particle radius distribution"
	p.X.Label.Text = "Radius"
	p.Y.Label.Text = "Count"

	palette := generateColors(len(series))
	plotted := 0
	for i, s := range series {
		if len(s.Radii) == 0 {
			continue
		}
		h, err := plotter.NewHist(plotter.Values(s.Radii), bins)
		if err != nil {
			return fmt.Errorf("histogram %q: %w", s.Name, err)
		}
		fill := s.Color
		if fill == nil {
			fill = palette[i]
		}
		h.FillColor = withAlpha(fill, 160)
		h.LineStyle.Width = vg.Points(0.5)
		p.Add(h)
		p.Legend.Add(s.Name, h)
		plotted++
	}
	if plotted == 0 {
		return fmt.Errorf("all series are empty")
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save histogram: %w", err)
	}
	return nil
}

// ColorFromBGR converts a [b, g, r] triple, the channel order the
// rasterizer consumes, to a color. Returns nil unless len(bgr) == 3.
func ColorFromBGR(bgr []int) color.Color {
	if len(bgr) != 3 {
		return nil
	}
	return color.RGBA{R: clampByte(bgr[2]), G: clampByte(bgr[1]), B: clampByte(bgr[0]), A: 255}
}

func clampByte(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}

// generateColors creates a palette of distinct colors for the series
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
