// Package planckfit fits a scaled single-temperature blackbody,
// flux = scale * planck.Radiance(wavelength, temperature), to sampled flux
// densities by weighted Levenberg-Marquardt least squares.
package planckfit

import (
	"errors"
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-solarfit/physics/planck"
)

// Errors returned by Fit.
var (
	ErrEmptyData      = errors.New("planckfit: no samples")
	ErrLengthMismatch = errors.New("planckfit: input length mismatch")
	ErrInvalidSigma   = errors.New("planckfit: uncertainties must be positive and finite")
	ErrInvalidGuess   = errors.New("planckfit: invalid initial guess")
	ErrNoConvergence  = errors.New("planckfit: fit did not converge")
)

// Params are the free parameters of the model.
type Params struct {
	Temperature float64 // K
	Scale       float64 // sr, multiplies radiance in Jy/sr
}

// DefaultGuess is the starting point used for solar bands.
func DefaultGuess() Params {
	return Params{Temperature: 5800, Scale: 1}
}

// Model evaluates the fitted blackbody at the given wavelengths.
func (p Params) Model(wavelength []float64) []float64 {
	return planck.Model(wavelength, p.Temperature, p.Scale)
}

// Result is the outcome of a fit.
type Result struct {
	Params
	ChiSquare float64
	// ReducedChiSquare is ChiSquare per degree of freedom, NaN with fewer
	// than three samples.
	ReducedChiSquare float64
	Samples          int
}

// Option configures Fit.
type Option func(*config)

type config struct {
	maxIterations int
	tolerance     float64
}

func defaultConfig() config {
	return config{
		maxIterations: 200,
		tolerance:     1e-10,
	}
}

// WithMaxIterations bounds the number of solver iterations.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithTolerance sets the gradient and step tolerances of the solver.
func WithTolerance(tol float64) Option {
	return func(c *config) {
		if tol > 0 {
			c.tolerance = tol
		}
	}
}

// Fit estimates temperature and scale from (wavelength, flux) with
// per-sample uncertainty sigma, starting from guess.
//
// The model is linear in scale, so the scale is first projected at the guess
// temperature; the solver then works in parameters normalized by that start
// point, which keeps the Jacobian columns comparable.
func Fit(wavelength, flux, sigma []float64, guess Params, opts ...Option) (Result, error) {
	n := len(wavelength)
	if n == 0 {
		return Result{}, ErrEmptyData
	}
	if len(flux) != n || len(sigma) != n {
		return Result{}, fmt.Errorf("%w: wavelength %d, flux %d, sigma %d", ErrLengthMismatch, n, len(flux), len(sigma))
	}
	for i, s := range sigma {
		if !(s > 0) || math.IsInf(s, 0) {
			return Result{}, fmt.Errorf("%w: sigma[%d] = %v", ErrInvalidSigma, i, s)
		}
	}
	if !(guess.Temperature > 0) || math.IsInf(guess.Temperature, 0) || guess.Scale == 0 || math.IsNaN(guess.Scale) {
		return Result{}, fmt.Errorf("%w: %+v", ErrInvalidGuess, guess)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	start := Params{Temperature: guess.Temperature, Scale: seedScale(wavelength, flux, sigma, guess)}

	residuals := func(dst, p []float64) {
		t := p[0] * start.Temperature
		c := p[1] * start.Scale
		for i, w := range wavelength {
			dst[i] = (c*planck.Radiance(w, t) - flux[i]) / sigma[i]
		}
	}

	jac := lm.NumJac{Func: residuals}
	problem := lm.LMProblem{
		Dim:        2,
		Size:       n,
		Func:       residuals,
		Jac:        jac.Jac,
		InitParams: []float64{1, 1},
		Tau:        1e-3,
		Eps1:       cfg.tolerance,
		Eps2:       cfg.tolerance,
	}

	res, err := lm.LM(problem, &lm.Settings{Iterations: cfg.maxIterations, ObjectiveTol: 1e-16})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrNoConvergence, err)
	}
	if len(res.X) != 2 {
		return Result{}, fmt.Errorf("%w: solver returned no parameters", ErrNoConvergence)
	}

	p := Params{
		Temperature: res.X[0] * start.Temperature,
		Scale:       res.X[1] * start.Scale,
	}
	if !(p.Temperature > 0) || math.IsInf(p.Temperature, 0) || math.IsNaN(p.Scale) || math.IsInf(p.Scale, 0) {
		return Result{}, fmt.Errorf("%w: non-physical solution T=%v scale=%v", ErrNoConvergence, p.Temperature, p.Scale)
	}
	// The solver stops silently at the iteration limit.
	if before, after := refine(residuals, n, res.X); math.IsNaN(before) || after < before-stallTolerance*(before+1) {
		return Result{}, fmt.Errorf("%w: stopped at T=%v scale=%v with chi^2 %.6g, a further step reaches %.6g",
			ErrNoConvergence, p.Temperature, p.Scale, before, after)
	}

	chi2 := ChiSquare(wavelength, flux, sigma, p)
	reduced := math.NaN()
	if dof := n - 2; dof > 0 {
		reduced = chi2 / float64(dof)
	}

	return Result{Params: p, ChiSquare: chi2, ReducedChiSquare: reduced, Samples: n}, nil
}

// ChiSquare returns sum(((model - flux) / sigma)^2) for p.
func ChiSquare(wavelength, flux, sigma []float64, p Params) float64 {
	chi2 := 0.0
	for i, w := range wavelength {
		r := (p.Scale*planck.Radiance(w, p.Temperature) - flux[i]) / sigma[i]
		chi2 += r * r
	}
	return chi2
}

// stallTolerance is the relative chi^2 decrease that marks a solution as
// unconverged.
const stallTolerance = 1e-6

// refine takes one backtracking Gauss-Newton step from p and returns the
// objective before the step and the lowest objective found along it. The
// Jacobian is a central difference. A rank-deficient Jacobian reports no
// improvement.
func refine(residuals func(dst, p []float64), n int, p []float64) (before, after float64) {
	r := make([]float64, n)
	residuals(r, p)
	before = sumSquares(r)
	if n < len(p) {
		return before, before
	}

	const step = 1e-6
	jac := mat.NewDense(n, len(p), nil)
	lo := make([]float64, n)
	hi := make([]float64, n)
	x := make([]float64, len(p))
	for j := range p {
		copy(x, p)
		x[j] = p[j] + step
		residuals(hi, x)
		x[j] = p[j] - step
		residuals(lo, x)
		for i := range r {
			jac.Set(i, j, (hi[i]-lo[i])/(2*step))
		}
	}

	b := mat.NewVecDense(n, nil)
	for i, v := range r {
		b.SetVec(i, -v)
	}
	var qr mat.QR
	qr.Factorize(jac)
	d := mat.NewVecDense(len(p), nil)
	if err := qr.SolveVecTo(d, false, b); err != nil {
		return before, before
	}

	after = before
	for t := 1.0; t > 1e-12; t /= 2 {
		for j := range p {
			x[j] = p[j] + t*d.AtVec(j)
		}
		residuals(r, x)
		if chi2 := sumSquares(r); chi2 < after {
			after = chi2
			break
		}
	}
	return before, after
}

func sumSquares(r []float64) float64 {
	sum := 0.0
	for _, v := range r {
		sum += v * v
	}
	return sum
}

// seedScale solves the weighted linear least-squares problem for the scale
// at the guess temperature. It falls back to guess.Scale when the projection
// is degenerate.
func seedScale(wavelength, flux, sigma []float64, guess Params) float64 {
	n := len(wavelength)
	a := mat.NewDense(n, 1, nil)
	b := mat.NewVecDense(n, nil)
	for i, w := range wavelength {
		a.Set(i, 0, planck.Radiance(w, guess.Temperature)/sigma[i])
		b.SetVec(i, flux[i]/sigma[i])
	}

	var qr mat.QR
	qr.Factorize(a)

	c := mat.NewVecDense(1, nil)
	if err := qr.SolveVecTo(c, false, b); err != nil {
		return guess.Scale
	}
	s := c.AtVec(0)
	if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return guess.Scale
	}
	return s
}
