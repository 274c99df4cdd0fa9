package fit

import (
	"github.com/cwbudde/algo-solarfit/dsp/smooth"
	"github.com/cwbudde/algo-solarfit/fit/band"
	"github.com/cwbudde/algo-solarfit/fit/planckfit"
)

// Config collects the tunable parameters of a run.
type Config struct {
	Edges  band.Edges
	Kernel smooth.Kernel
	// Cutoff is the wavelength (um) below which smoothed flux is used.
	Cutoff float64
	Guess  planckfit.Params
	// Uncertainty is the per-sample sigma as a fraction of the merged flux.
	Uncertainty   float64
	MaxIterations int
}

// DefaultConfig returns the parameters of the solar analysis.
func DefaultConfig() Config {
	return Config{
		Edges:         band.DefaultEdges(),
		Kernel:        smooth.DefaultKernel(),
		Cutoff:        9,
		Guess:         planckfit.DefaultGuess(),
		Uncertainty:   0.01,
		MaxIterations: 200,
	}
}

// Option configures a run.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithEdges sets the band boundaries.
func WithEdges(e band.Edges) Option {
	edges := append(band.Edges(nil), e...)

	return func(c *Config) {
		c.Edges = edges
	}
}

// WithKernel sets the smoothing kernel.
func WithKernel(k smooth.Kernel) Option {
	return func(c *Config) {
		c.Kernel = k
	}
}

// WithCutoff sets the smoothing cutoff wavelength. A cutoff at or below the
// shortest wavelength disables smoothing.
func WithCutoff(um float64) Option {
	return func(c *Config) {
		c.Cutoff = um
	}
}

// WithGuess sets the initial (temperature, scale) guess for every band.
func WithGuess(p planckfit.Params) Option {
	return func(c *Config) {
		c.Guess = p
	}
}

// WithUncertainty sets sigma as a fraction of flux.
func WithUncertainty(frac float64) Option {
	return func(c *Config) {
		if frac > 0 {
			c.Uncertainty = frac
		}
	}
}

// WithMaxIterations bounds solver iterations per band.
func WithMaxIterations(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxIterations = n
		}
	}
}

func buildConfig(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
