// Package planck evaluates the blackbody spectral radiance per unit
// frequency on a wavelength grid given in micrometers.
//
// Radiance is returned in Jy/sr (1 Jy = 1e-26 W m^-2 Hz^-1), so a fitted
// scale factor multiplying it is a solid angle in steradians.
package planck

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/unit/constant"
)

// JanskyPerSI converts W m^-2 Hz^-1 to Jy.
const JanskyPerSI = 1e26

var (
	h = float64(constant.Planck)
	k = float64(constant.Boltzmann)
	c = float64(constant.LightSpeedInVacuum)

	// SpeedOfLight is the speed of light in micrometers per second.
	SpeedOfLight = c * 1e6
)

// Radiance returns B_nu(T) in Jy/sr at the given wavelength in micrometers.
// Non-positive wavelength or temperature yields 0.
func Radiance(wavelength, temperature float64) float64 {
	if wavelength <= 0 || temperature <= 0 {
		return 0
	}
	nu := c / (wavelength * 1e-6)
	x := h * nu / (k * temperature)
	// Expm1 overflows to +Inf deep in the Wien tail, giving 0 rather than NaN.
	return 2 * h * nu * nu * nu / (c * c) / math.Expm1(x) * JanskyPerSI
}

// Evaluate writes scale * Radiance(wavelength[i], temperature) to dst.
// dst must have the same length as wavelength.
func Evaluate(dst, wavelength []float64, temperature, scale float64) {
	for i, w := range wavelength {
		dst[i] = Radiance(w, temperature)
	}
	floats.Scale(scale, dst)
}

// Model returns scale * Radiance evaluated over wavelength in a new slice.
func Model(wavelength []float64, temperature, scale float64) []float64 {
	out := make([]float64, len(wavelength))
	Evaluate(out, wavelength, temperature, scale)
	return out
}

// PeakWavelength returns the wavelength in micrometers at which B_nu(T),
// expressed per unit frequency, peaks (Wien's law in frequency form).
func PeakWavelength(temperature float64) float64 {
	if temperature <= 0 {
		return math.Inf(1)
	}
	// x = h nu / kT at the maximum of x^3 / (e^x - 1).
	const xPeak = 2.821439372122079
	nu := xPeak * k * temperature / h
	return c / nu * 1e6
}
