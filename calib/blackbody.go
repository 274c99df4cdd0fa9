package calib

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-solarfit/physics/planck"
)

// Solar parameters at 1 AU used by DefaultBlackbodySource.
const (
	SolarEffectiveTemperature = 5778.0
	// SolarSolidAngle is pi * (R_sun / 1 AU)^2 in steradians.
	SolarSolidAngle = 6.794e-5
)

// BlackbodySource generates the irradiance of a blackbody of the given
// temperature subtending SolidAngle, sampled at Samples logarithmically
// spaced wavelengths in [Min, Max] um.
type BlackbodySource struct {
	Temperature float64
	SolidAngle  float64
	Min, Max    float64
	Samples     int
}

// DefaultBlackbodySource approximates the Sun at 1 AU on a grid with the
// extent and size of the E490 table.
func DefaultBlackbodySource() BlackbodySource {
	return BlackbodySource{
		Temperature: SolarEffectiveTemperature,
		SolidAngle:  SolarSolidAngle,
		Min:         0.12,
		Max:         1000,
		Samples:     1697,
	}
}

// Load implements Source.
func (b BlackbodySource) Load() (Table, error) {
	if b.Samples < 2 || b.Min <= 0 || b.Max <= b.Min {
		return Table{}, fmt.Errorf("%w: blackbody grid [%g, %g] with %d samples", ErrMalformed, b.Min, b.Max, b.Samples)
	}
	if b.Temperature <= 0 || b.SolidAngle <= 0 {
		return Table{}, fmt.Errorf("%w: blackbody T=%g omega=%g", ErrMalformed, b.Temperature, b.SolidAngle)
	}

	t := Table{
		Wavelength: LogGrid(b.Min, b.Max, b.Samples),
		Irradiance: make([]float64, b.Samples),
	}
	for i, w := range t.Wavelength {
		fnu := b.SolidAngle * planck.Radiance(w, b.Temperature) / planck.JanskyPerSI
		t.Irradiance[i] = fnu * planck.SpeedOfLight / (w * w)
	}
	return t, nil
}

// LogGrid returns n logarithmically spaced values from lo to hi inclusive.
func LogGrid(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	a, b := math.Log(lo), math.Log(hi)
	for i := range out {
		out[i] = math.Exp(a + (b-a)*float64(i)/float64(n-1))
	}
	out[0], out[n-1] = lo, hi
	return out
}
