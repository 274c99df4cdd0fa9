package smooth

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Errors returned by the smoother.
var (
	ErrEmptyInput     = errors.New("smooth: empty input")
	ErrEmptyKernel    = errors.New("smooth: empty kernel")
	ErrInvalidKernel  = errors.New("smooth: invalid kernel")
	ErrLengthMismatch = errors.New("smooth: buffer length mismatch")
)

// Kernel describes a Gaussian sampled at Samples points evenly spaced over
// [Lower, Upper], both ends included.
type Kernel struct {
	Samples      int
	Lower, Upper float64
	Center       float64
	Width        float64 // standard deviation, in the units of Lower/Upper
}

// DefaultKernel returns 100 samples over [0, 1] centered at 0.5 with width 0.1.
func DefaultKernel() Kernel {
	return Kernel{
		Samples: 100,
		Lower:   0,
		Upper:   1,
		Center:  0.5,
		Width:   0.1,
	}
}

// Validate checks the kernel parameters.
func (k Kernel) Validate() error {
	switch {
	case k.Samples < 1:
		return fmt.Errorf("%w: samples must be >= 1: %d", ErrInvalidKernel, k.Samples)
	case !(k.Width > 0) || math.IsInf(k.Width, 0):
		return fmt.Errorf("%w: width must be > 0: %v", ErrInvalidKernel, k.Width)
	case !(k.Upper >= k.Lower):
		return fmt.Errorf("%w: upper %v < lower %v", ErrInvalidKernel, k.Upper, k.Lower)
	}
	return nil
}

// Coefficients returns the sampled Gaussian normalized to unit sum.
func (k Kernel) Coefficients() ([]float64, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, k.Samples)
	step := 0.0
	if k.Samples > 1 {
		step = (k.Upper - k.Lower) / float64(k.Samples-1)
	}
	for i := range out {
		d := (k.Lower + step*float64(i) - k.Center) / k.Width
		out[i] = math.Exp(-0.5 * d * d)
	}

	sum := floats.Sum(out)
	if !(sum > 0) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: coefficients sum to %v", ErrInvalidKernel, sum)
	}
	floats.Scale(1/sum, out)
	return out, nil
}
