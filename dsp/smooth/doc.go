// Package smooth suppresses small-scale noise in a sampled spectrum.
//
// The smoother convolves the flux sequence with a normalized Gaussian
// [Kernel] and keeps the input length ("same" mode): output sample i is
// centered on input sample i and the signal is zero-padded at both ends.
// The wavelength grid is untouched; this is a denoising filter, not a
// resampler.
//
// # Usage
//
//	smoothed, err := smooth.Smooth(flux, smooth.DefaultKernel())
//	merged, err := smooth.Merge(wavelength, flux, smoothed, 9)
//
// [Merge] keeps smoothed values below the cutoff wavelength and the original
// values at and above it, where smoothing degrades accuracy.
//
// # Algorithm Selection
//
// [ConvolveSame] runs direct O(N*M) convolution for kernels of up to 64 taps
// and FFT overlap-add above that.
package smooth
