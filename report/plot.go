package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Errors returned by RatioPlot and Save.
var (
	ErrNoData            = errors.New("report: no plottable samples")
	ErrLengthMismatch    = errors.New("report: wavelength and ratio length mismatch")
	ErrUnsupportedFormat = errors.New("report: unsupported image format")
)

// Default figure size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// PlotOption configures RatioPlot.
type PlotOption func(*plotConfig)

type plotConfig struct {
	title      string
	yMin, yMax float64
}

func defaultPlotConfig() plotConfig {
	return plotConfig{
		title: "Piecewise blackbody fit / reference",
		yMin:  0.1,
		yMax:  10,
	}
}

// WithTitle sets the plot title.
func WithTitle(s string) PlotOption {
	return func(c *plotConfig) {
		c.title = s
	}
}

// WithYRange sets the ratio axis limits; both must be positive.
func WithYRange(lo, hi float64) PlotOption {
	return func(c *plotConfig) {
		if lo > 0 && hi > lo {
			c.yMin, c.yMax = lo, hi
		}
	}
}

// RatioPlot draws ratio against wavelength on log-log axes with the ratio
// axis limited to [0.1, 10] and a reference line at 1. Samples with a
// non-positive or non-finite wavelength or ratio cannot be drawn on log axes
// and are skipped.
func RatioPlot(wavelength, ratio []float64, opts ...PlotOption) (*plot.Plot, error) {
	if len(wavelength) != len(ratio) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(wavelength), len(ratio))
	}

	cfg := defaultPlotConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	pts := make(plotter.XYs, 0, len(ratio))
	for i, r := range ratio {
		w := wavelength[i]
		if !positiveFinite(w) || !positiveFinite(r) {
			continue
		}
		pts = append(pts, plotter.XY{X: w, Y: r})
	}
	if len(pts) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = "Wavelength (µm)"
	p.Y.Label.Text = "Fit / reference"
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("report: ratio line: %w", err)
	}
	line.LineStyle.Width = vg.Points(1)

	xMin, xMax := pts[0].X, pts[len(pts)-1].X
	if xMin == xMax {
		xMax = xMin * 10
	}
	unity, err := plotter.NewLine(plotter.XYs{{X: xMin, Y: 1}, {X: xMax, Y: 1}})
	if err != nil {
		return nil, fmt.Errorf("report: reference line: %w", err)
	}
	unity.LineStyle.Color = color.NRGBA{R: 255, A: 128}
	unity.LineStyle.Width = vg.Points(1.5)

	p.Add(line, unity)

	// Add widens the axes to the data; clip the ratio axis afterwards.
	p.Y.Min, p.Y.Max = cfg.yMin, cfg.yMax
	return p, nil
}

// Save writes p to path; the image format follows the file extension
// (png, svg, pdf, eps, jpg, tif).
func Save(p *plot.Plot, path string, width, height vg.Length) error {
	if formatOf(path) == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return nil
}

// Write renders p in the given format to w.
func Write(w io.Writer, p *plot.Plot, width, height vg.Length, format string) error {
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("report: render %s: %w", format, err)
	}
	return nil
}

func formatOf(path string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "png", "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff":
		return ext
	default:
		return ""
	}
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
