package smooth

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/floats"
)

// directMaxTaps is the longest kernel convolved in the time domain.
const directMaxTaps = 64

// ConvolveSame convolves signal with kernel and returns the len(signal)
// samples centered on the input, matching the "same" mode of common array
// libraries: the full linear result is taken from index (len(kernel)-1)/2.
func ConvolveSame(signal, kernel []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	var (
		full []float64
		err  error
	)
	if len(kernel) <= directMaxTaps {
		full = convolveDirect(signal, kernel)
	} else {
		full, err = convolveFFT(signal, kernel)
		if err != nil {
			return nil, err
		}
	}

	start := (len(kernel) - 1) / 2
	out := make([]float64, len(signal))
	copy(out, full[start:start+len(signal)])
	return out, nil
}

// convolveDirect returns the full linear convolution of length n+m-1.
func convolveDirect(a, b []float64) []float64 {
	n, m := len(a), len(b)
	dst := make([]float64, n+m-1)
	for i := 0; i < n; i++ {
		floats.AddScaled(dst[i:i+m], a[i], b)
	}
	return dst
}

// convolveFFT returns the full linear convolution via block overlap-add.
func convolveFFT(a, b []float64) ([]float64, error) {
	n, m := len(a), len(b)

	block := nextPowerOf2(m)
	if block < 256 {
		block = 256
	}
	size := nextPowerOf2(block + m - 1)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("smooth: FFT plan of size %d: %w", size, err)
	}

	kernelSpec := make([]complex128, size)
	for i, v := range b {
		kernelSpec[i] = complex(v, 0)
	}
	if err := plan.Forward(kernelSpec, kernelSpec); err != nil {
		return nil, fmt.Errorf("smooth: kernel FFT: %w", err)
	}

	out := make([]float64, n+m-1)
	buf := make([]complex128, size)
	for start := 0; start < n; start += block {
		end := min(start+block, n)

		clear(buf)
		for i := start; i < end; i++ {
			buf[i-start] = complex(a[i], 0)
		}
		if err := plan.Forward(buf, buf); err != nil {
			return nil, fmt.Errorf("smooth: forward FFT: %w", err)
		}
		for i := range buf {
			buf[i] *= kernelSpec[i]
		}
		if err := plan.Inverse(buf, buf); err != nil {
			return nil, fmt.Errorf("smooth: inverse FFT: %w", err)
		}

		for i := 0; i < end-start+m-1; i++ {
			out[start+i] += real(buf[i])
		}
	}
	return out, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
