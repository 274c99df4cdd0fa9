package calib

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-solarfit/physics/planck"
	"github.com/cwbudde/algo-solarfit/spectrum"
)

// Errors returned by sources and Load.
var (
	ErrEmpty     = errors.New("calib: no samples")
	ErrMalformed = errors.New("calib: malformed table")
)

// Table holds raw irradiance samples: wavelength in um, irradiance in
// W m^-2 um^-1.
type Table struct {
	Wavelength []float64
	Irradiance []float64
}

// Len returns the number of samples.
func (t Table) Len() int {
	return len(t.Wavelength)
}

// Validate checks that the table is non-empty, aligned, finite and sorted by
// strictly increasing wavelength.
func (t Table) Validate() error {
	if len(t.Wavelength) == 0 && len(t.Irradiance) == 0 {
		return ErrEmpty
	}
	if err := spectrum.CheckGrid(t.Wavelength, t.Irradiance); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

// Source provides a reference irradiance table.
type Source interface {
	Load() (Table, error)
}

// ToJansky converts an irradiance table to a flux-density spectrum.
func ToJansky(t Table) spectrum.Spectrum {
	s := spectrum.Spectrum{
		Wavelength: append([]float64(nil), t.Wavelength...),
		Flux:       make([]float64, len(t.Irradiance)),
	}
	for i, e := range t.Irradiance {
		w := t.Wavelength[i]
		s.Flux[i] = e * w * w / planck.SpeedOfLight * planck.JanskyPerSI
	}
	return s
}

// Load reads src, validates the table and converts it to Jansky.
func Load(src Source) (spectrum.Spectrum, error) {
	if src == nil {
		return spectrum.Spectrum{}, errors.New("calib: nil source")
	}
	t, err := src.Load()
	if err != nil {
		return spectrum.Spectrum{}, err
	}
	if err := t.Validate(); err != nil {
		return spectrum.Spectrum{}, err
	}
	return ToJansky(t), nil
}
