package smooth

import "fmt"

// Smooth convolves flux with the normalized kernel k. The result has the
// same length as flux.
func Smooth(flux []float64, k Kernel) ([]float64, error) {
	coeffs, err := k.Coefficients()
	if err != nil {
		return nil, err
	}
	return ConvolveSame(flux, coeffs)
}

// Merge selects smoothed[i] where wavelength[i] < cutoff and original[i]
// otherwise. A sample exactly at the cutoff keeps its original value.
func Merge(wavelength, original, smoothed []float64, cutoff float64) ([]float64, error) {
	if len(wavelength) != len(original) || len(wavelength) != len(smoothed) {
		return nil, fmt.Errorf("%w: wavelength %d, original %d, smoothed %d",
			ErrLengthMismatch, len(wavelength), len(original), len(smoothed))
	}

	out := make([]float64, len(wavelength))
	for i, w := range wavelength {
		if w < cutoff {
			out[i] = smoothed[i]
		} else {
			out[i] = original[i]
		}
	}
	return out, nil
}
