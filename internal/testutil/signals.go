package testutil

import (
	"math"
	"math/rand"
	"sort"
)

// LinearGrid returns n evenly spaced values from lo to hi inclusive.
func LinearGrid(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	return out
}

// SortedUniform returns n strictly increasing values drawn uniformly from
// (lo, hi) with a fixed seed.
func SortedUniform(seed int64, lo, hi float64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, 0, n)
	seen := make(map[float64]bool, n)
	for len(out) < n {
		v := lo + rng.Float64()*(hi-lo)
		if v <= lo || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Gaussian samples exp(-(x-mu)^2 / (2 sigma^2)) at each x.
func Gaussian(x []float64, mu, sigma float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		d := (v - mu) / sigma
		out[i] = math.Exp(-0.5 * d * d)
	}
	return out
}
