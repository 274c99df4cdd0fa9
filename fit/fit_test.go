package fit

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-solarfit/calib"
	"github.com/cwbudde/algo-solarfit/dsp/smooth"
	"github.com/cwbudde/algo-solarfit/fit/band"
	"github.com/cwbudde/algo-solarfit/fit/planckfit"
	"github.com/cwbudde/algo-solarfit/internal/testutil"
	"github.com/cwbudde/algo-solarfit/physics/planck"
	"github.com/cwbudde/algo-solarfit/spectrum"
)

func blackbodySpectrum(t *testing.T, temp, omega float64, samples int) spectrum.Spectrum {
	t.Helper()
	src := calib.DefaultBlackbodySource()
	src.Temperature = temp
	src.SolidAngle = omega
	src.Samples = samples
	s, err := calib.Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestRunRecoversBlackbodyInEveryBand(t *testing.T) {
	const (
		t0 = 5778.0
		c0 = 6.794e-5
	)
	s := blackbodySpectrum(t, t0, c0, 1697)

	// Smoothing is disabled so the merged spectrum is the exact blackbody.
	res, err := Run(s, WithCutoff(0))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Bands) != band.DefaultEdges().Bands() {
		t.Fatalf("bands = %d, want %d", len(res.Bands), band.DefaultEdges().Bands())
	}
	for _, b := range res.Bands {
		if testutil.RelErr(b.Temperature, t0) > 1e-4 || testutil.RelErr(b.Scale, c0) > 1e-4 {
			t.Errorf("band %d (%g, %g]: T=%v scale=%v, want T=%v scale=%v",
				b.Index, b.Lower, b.Upper, b.Temperature, b.Scale, t0, c0)
		}
	}

	if len(res.Fit) != s.Len() || len(res.Ratio) != s.Len() || len(res.Merged) != s.Len() {
		t.Fatalf("lengths fit=%d ratio=%d merged=%d, want %d", len(res.Fit), len(res.Ratio), len(res.Merged), s.Len())
	}
	testutil.RequireSliceNearlyEqual(t, res.Merged, s.Flux, 0)
	for i, r := range res.Ratio {
		if math.Abs(r-1) > 1e-4 {
			t.Fatalf("ratio[%d] (w=%v) = %v, want 1", i, s.Wavelength[i], r)
		}
	}
}

func TestRunSmoothsBelowCutoff(t *testing.T) {
	s := blackbodySpectrum(t, 5778, 6.794e-5, 1697)
	res, err := Run(s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	smoothed, err := smooth.Smooth(s.Flux, smooth.DefaultKernel())
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, res.Smoothed, smoothed, 0)
	for i, w := range s.Wavelength {
		want := s.Flux[i]
		if w < 9 {
			want = smoothed[i]
		}
		if res.Merged[i] != want {
			t.Fatalf("merged[%d] (w=%v) = %v, want %v", i, w, res.Merged[i], want)
		}
		if res.Fit[i] == 0 {
			t.Fatalf("fit[%d] left at zero", i)
		}
	}
	testutil.RequireFinite(t, res.Ratio)
}

func TestRunUncoveredSample(t *testing.T) {
	s := spectrum.Spectrum{Wavelength: []float64{5.0}, Flux: []float64{1}}
	_, err := Run(s, WithEdges(band.Edges{0, 1, 2}))
	if !errors.Is(err, band.ErrUncovered) {
		t.Fatalf("got %v, want band.ErrUncovered", err)
	}
}

func TestRunEmptyBand(t *testing.T) {
	s := blackbodySpectrum(t, 5778, 6.794e-5, 200)
	// No sample of the synthetic grid lies in (0, 0.1].
	_, err := Run(s, WithEdges(band.Edges{0, 0.1, 1000}), WithCutoff(0))
	if !errors.Is(err, band.ErrEmptyBand) {
		t.Fatalf("got %v, want band.ErrEmptyBand", err)
	}
	var be *band.BandError
	if !errors.As(err, &be) || be.Index != 0 || be.Lower != 0 || be.Upper != 0.1 {
		t.Fatalf("error %v does not name band 0 (0, 0.1]", err)
	}
}

func TestRunBandFitFailure(t *testing.T) {
	s := blackbodySpectrum(t, 5778, 6.794e-5, 200)
	for i, w := range s.Wavelength {
		if w > 3 && w <= 15 {
			s.Flux[i] = -s.Flux[i]
		}
	}
	_, err := Run(s, WithCutoff(0))
	if !errors.Is(err, planckfit.ErrInvalidSigma) {
		t.Fatalf("got %v, want planckfit.ErrInvalidSigma", err)
	}
	var be *band.BandError
	if !errors.As(err, &be) || be.Index != 6 {
		t.Fatalf("error %v does not name band 6", err)
	}
}

func TestRunBandNotConverged(t *testing.T) {
	s := blackbodySpectrum(t, 5778, 6.794e-5, 200)
	_, err := Run(s,
		WithEdges(band.Edges{0, 0.3, 1, 1000}),
		WithCutoff(0),
		WithGuess(planckfit.Params{Temperature: 300, Scale: 1}),
		WithMaxIterations(1),
	)
	if !errors.Is(err, planckfit.ErrNoConvergence) {
		t.Fatalf("got %v, want planckfit.ErrNoConvergence", err)
	}
	var be *band.BandError
	if !errors.As(err, &be) || be.Index != 0 || be.Lower != 0 || be.Upper != 0.3 {
		t.Fatalf("error %v does not name band 0 (0, 0.3]", err)
	}
}

func TestRunInvalidSpectrum(t *testing.T) {
	_, err := Run(spectrum.Spectrum{Wavelength: []float64{1, 2}, Flux: []float64{1}})
	if !errors.Is(err, spectrum.ErrLengthMismatch) {
		t.Fatalf("got %v, want spectrum.ErrLengthMismatch", err)
	}
}

func TestFitWhole(t *testing.T) {
	s := blackbodySpectrum(t, 5600, 7e-5, 600)
	res, err := FitWhole(s, WithCutoff(0))
	if err != nil {
		t.Fatalf("FitWhole: %v", err)
	}
	if len(res.Bands) != 1 {
		t.Fatalf("bands = %d, want 1", len(res.Bands))
	}
	testutil.RequireRelNear(t, "temperature", res.Bands[0].Temperature, 5600, 1e-4)
	testutil.RequireRelNear(t, "scale", res.Bands[0].Scale, 7e-5, 1e-4)
}

func TestAssemble(t *testing.T) {
	bands := []BandFit{
		{Index: 0, Indices: []int{0, 2}, Values: []float64{1, 3}},
		{Index: 1, Indices: []int{1, 3}, Values: []float64{2, 4}},
	}
	got, err := Assemble(4, bands)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{1, 2, 3, 4}, 0)
}

func TestAssembleAnomalies(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		bands []BandFit
		want  error
	}{
		{"overlap", 2, []BandFit{
			{Index: 0, Indices: []int{0, 1}, Values: []float64{1, 1}},
			{Index: 1, Indices: []int{1}, Values: []float64{2}},
		}, ErrOverlap},
		{"uncovered", 3, []BandFit{
			{Index: 0, Indices: []int{0, 2}, Values: []float64{1, 1}},
		}, band.ErrUncovered},
		{"length", 1, []BandFit{
			{Index: 0, Indices: []int{0}, Values: nil},
		}, ErrLengthMismatch},
		{"zero", 2, []BandFit{
			{Index: 0, Indices: []int{0, 1}, Values: []float64{1, 0}},
		}, ErrZeroValue},
		{"range", 1, []BandFit{
			{Index: 0, Indices: []int{1}, Values: []float64{1}},
		}, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.n, tt.bands)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRatio(t *testing.T) {
	got := Ratio([]float64{2, 3, 1}, []float64{1, 6, 4})
	testutil.RequireSliceNearlyEqual(t, got, []float64{2, 0.5, 0.25}, 1e-15)

	got = Ratio([]float64{2, -1, 0}, []float64{0, 0, 0})
	if !math.IsInf(got[0], 1) || !math.IsInf(got[1], -1) || !math.IsNaN(got[2]) {
		t.Fatalf("zero reference: %v, want [+Inf -Inf NaN]", got)
	}
}

func TestFitBandsModelMatchesParams(t *testing.T) {
	s := blackbodySpectrum(t, 6000, 5e-5, 300)
	cfg := DefaultConfig()
	bands, err := FitBands(s.Wavelength, s.Flux, cfg)
	if err != nil {
		t.Fatalf("FitBands: %v", err)
	}
	for _, b := range bands {
		for k, idx := range b.Indices {
			want := b.Scale * planck.Radiance(s.Wavelength[idx], b.Temperature)
			if b.Values[k] != want {
				t.Fatalf("band %d sample %d: %v, want %v", b.Index, k, b.Values[k], want)
			}
		}
	}
}

func TestOptions(t *testing.T) {
	edges := band.Edges{0, 1, 2}
	cfg := buildConfig([]Option{
		WithEdges(edges),
		WithCutoff(4),
		WithGuess(planckfit.Params{Temperature: 4000, Scale: 2}),
		WithUncertainty(0.05),
		WithUncertainty(-1),
		WithMaxIterations(17),
		nil,
	})
	edges[0] = -5
	if cfg.Edges[0] != 0 || cfg.Cutoff != 4 || cfg.Guess.Temperature != 4000 || cfg.Uncertainty != 0.05 || cfg.MaxIterations != 17 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	base := DefaultConfig()
	base.Cutoff = 2
	cfg = buildConfig([]Option{WithUncertainty(0.2), WithConfig(base), WithMaxIterations(5)})
	if cfg.Cutoff != 2 || cfg.Uncertainty != 0.01 || cfg.MaxIterations != 5 {
		t.Fatalf("WithConfig: unexpected config %+v", cfg)
	}

	if d := DefaultConfig(); d.Cutoff != 9 || d.Uncertainty != 0.01 || d.Guess != planckfit.DefaultGuess() {
		t.Fatalf("unexpected defaults %+v", d)
	}
}
