// Package spectrum defines the sampled spectrum shared by the loader, the
// smoother and the fitters.
package spectrum

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by Validate.
var (
	ErrEmpty          = errors.New("spectrum: empty spectrum")
	ErrLengthMismatch = errors.New("spectrum: wavelength and flux length mismatch")
	ErrNotIncreasing  = errors.New("spectrum: wavelength not strictly increasing")
	ErrNonFinite      = errors.New("spectrum: non-finite sample")
)

// Spectrum is an ordered sequence of (wavelength, flux density) samples.
// Wavelength is in micrometers, flux density in Jansky.
type Spectrum struct {
	Wavelength []float64
	Flux       []float64
}

// Len returns the number of samples.
func (s Spectrum) Len() int {
	return len(s.Wavelength)
}

// Validate checks the length, ordering and finiteness invariants.
func (s Spectrum) Validate() error {
	return CheckGrid(s.Wavelength, s.Flux)
}

// Clone returns a deep copy of s.
func (s Spectrum) Clone() Spectrum {
	return Spectrum{
		Wavelength: append([]float64(nil), s.Wavelength...),
		Flux:       append([]float64(nil), s.Flux...),
	}
}

// CheckGrid validates a wavelength grid and an aligned value sequence.
func CheckGrid(wavelength, values []float64) error {
	if len(wavelength) == 0 {
		return ErrEmpty
	}
	if len(wavelength) != len(values) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(wavelength), len(values))
	}
	for i := range wavelength {
		if !isFinite(wavelength[i]) || !isFinite(values[i]) {
			return fmt.Errorf("%w at index %d", ErrNonFinite, i)
		}
		if i > 0 && wavelength[i] <= wavelength[i-1] {
			return fmt.Errorf("%w at index %d (%g <= %g)", ErrNotIncreasing, i, wavelength[i], wavelength[i-1])
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
