package fit

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-solarfit/dsp/smooth"
	"github.com/cwbudde/algo-solarfit/fit/band"
	"github.com/cwbudde/algo-solarfit/fit/planckfit"
	"github.com/cwbudde/algo-solarfit/spectrum"
)

// Errors returned by Assemble.
var (
	ErrOverlap        = errors.New("fit: position written by more than one band")
	ErrLengthMismatch = errors.New("fit: band indices and model length mismatch")
	ErrOutOfRange     = errors.New("fit: band index out of range")
	ErrZeroValue      = errors.New("fit: fitted value is zero")
)

// WholeSpectrumGuess is the starting point of FitWhole.
var WholeSpectrumGuess = planckfit.Params{Temperature: 5770, Scale: 1}

// BandFit is the fitted blackbody of one band.
type BandFit struct {
	Index        int
	Lower, Upper float64
	planckfit.Params
	ChiSquare        float64
	ReducedChiSquare float64
	// Indices are the positions of the band's samples in the input grid.
	Indices []int
	// Values is the fitted flux at Indices.
	Values []float64
}

// Result holds every stage of a run, aligned index-for-index with the input.
type Result struct {
	Wavelength []float64
	Original   []float64
	Smoothed   []float64
	Merged     []float64
	Bands      []BandFit
	Fit        []float64
	Ratio      []float64
}

// Run smooths, merges, fits and assembles s.
func Run(s spectrum.Spectrum, opts ...Option) (*Result, error) {
	return run(s, buildConfig(opts))
}

// FitWhole fits a single blackbody to the whole merged spectrum. The initial
// guess defaults to WholeSpectrumGuess; the band edges option is ignored.
func FitWhole(s spectrum.Spectrum, opts ...Option) (*Result, error) {
	cfg := buildConfig(append([]Option{WithGuess(WholeSpectrumGuess)}, opts...))
	if s.Len() > 0 {
		cfg.Edges = band.Edges{0, s.Wavelength[s.Len()-1]}
	}
	return run(s, cfg)
}

func run(s spectrum.Spectrum, cfg Config) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	smoothed, err := smooth.Smooth(s.Flux, cfg.Kernel)
	if err != nil {
		return nil, err
	}
	merged, err := smooth.Merge(s.Wavelength, s.Flux, smoothed, cfg.Cutoff)
	if err != nil {
		return nil, err
	}

	bands, err := FitBands(s.Wavelength, merged, cfg)
	if err != nil {
		return nil, err
	}

	assembled, err := Assemble(len(merged), bands)
	if err != nil {
		return nil, err
	}

	in := s.Clone()
	return &Result{
		Wavelength: in.Wavelength,
		Original:   in.Flux,
		Smoothed:   smoothed,
		Merged:     merged,
		Bands:      bands,
		Fit:        assembled,
		Ratio:      Ratio(assembled, merged),
	}, nil
}

// FitBands fits every band of cfg.Edges to (wavelength, flux). It fails
// when a sample lies outside all bands, when a band is empty, or when a
// band fit fails; band failures are *band.BandError.
func FitBands(wavelength, flux []float64, cfg Config) ([]BandFit, error) {
	if len(wavelength) != len(flux) {
		return nil, fmt.Errorf("%w: wavelength %d, flux %d", spectrum.ErrLengthMismatch, len(wavelength), len(flux))
	}

	part, err := band.Split(wavelength, cfg.Edges)
	if err != nil {
		return nil, err
	}
	if err := part.Check(wavelength); err != nil {
		return nil, err
	}

	fits := make([]BandFit, 0, len(part.Masks))
	for i := range part.Masks {
		lo, hi := part.Edges.Bounds(i)

		w := part.Select(i, wavelength)
		f := part.Select(i, flux)
		sigma := make([]float64, len(f))
		for k, v := range f {
			sigma[k] = v * cfg.Uncertainty
		}

		res, err := planckfit.Fit(w, f, sigma, cfg.Guess, planckfit.WithMaxIterations(cfg.MaxIterations))
		if err != nil {
			return nil, &band.BandError{Index: i, Lower: lo, Upper: hi, Err: err}
		}

		fits = append(fits, BandFit{
			Index:            i,
			Lower:            lo,
			Upper:            hi,
			Params:           res.Params,
			ChiSquare:        res.ChiSquare,
			ReducedChiSquare: res.ReducedChiSquare,
			Indices:          append([]int(nil), part.Masks[i]...),
			Values:           res.Model(w),
		})
	}
	return fits, nil
}

// Assemble writes every band's model into a zero-initialized sequence of
// length n. Each position must be written exactly once with a non-zero
// value: a second write is ErrOverlap, a position never written is
// band.ErrUncovered, and a zero (an underflowed model) is ErrZeroValue.
func Assemble(n int, bands []BandFit) ([]float64, error) {
	out := make([]float64, n)
	written := make([]bool, n)

	for _, b := range bands {
		if len(b.Indices) != len(b.Values) {
			return nil, fmt.Errorf("%w: band %d has %d indices and %d values",
				ErrLengthMismatch, b.Index, len(b.Indices), len(b.Values))
		}
		for k, idx := range b.Indices {
			if idx < 0 || idx >= n {
				return nil, fmt.Errorf("%w: band %d index %d, length %d", ErrOutOfRange, b.Index, idx, n)
			}
			if written[idx] {
				return nil, fmt.Errorf("%w: index %d (band %d)", ErrOverlap, idx, b.Index)
			}
			if b.Values[k] == 0 {
				return nil, fmt.Errorf("%w: index %d (band %d)", ErrZeroValue, idx, b.Index)
			}
			written[idx] = true
			out[idx] = b.Values[k]
		}
	}

	missing, first := 0, -1
	for i, ok := range written {
		if !ok {
			if first < 0 {
				first = i
			}
			missing++
		}
	}
	if missing > 0 {
		return nil, fmt.Errorf("%w: %d position(s) never written, first at index %d", band.ErrUncovered, missing, first)
	}
	return out, nil
}

// Ratio returns fit[i] / reference[i]. The slices must have equal length.
// It multiplies by the reciprocal with one block kernel; the result is
// within one ulp of a direct division, and a zero reference still gives
// +-Inf (or NaN when fit[i] is also zero).
func Ratio(fit, reference []float64) []float64 {
	inv := make([]float64, len(reference))
	for i, v := range reference {
		inv[i] = 1 / v
	}
	out := make([]float64, len(fit))
	vecmath.MulBlock(out, fit, inv)
	return out
}
