// Package ratio summarizes how closely a fitted spectrum tracks its
// reference through the ratio fit/reference.
package ratio

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Stats holds summary statistics of a fit/reference ratio.
type Stats struct {
	Length int
	// Valid counts finite, positive ratios; all other fields use them only.
	Valid  int
	Mean   float64
	StdDev float64
	Min    float64
	MinPos int
	Max    float64
	MaxPos int
	// RMSDex and MaxAbsDex are the RMS and maximum of |log10(ratio)|.
	RMSDex    float64
	MaxAbsDex float64
	MaxAbsPos int
	// Within1 and Within10 are the fractions of valid ratios inside
	// [0.99, 1.01] and [0.9, 1.1].
	Within1  float64
	Within10 float64
}

// emptyStats returns a zero-valued Stats with NaN moments and -1 positions.
func emptyStats(n int) Stats {
	return Stats{
		Length:    n,
		Mean:      math.NaN(),
		StdDev:    math.NaN(),
		Min:       math.NaN(),
		MinPos:    -1,
		Max:       math.NaN(),
		MaxPos:    -1,
		RMSDex:    math.NaN(),
		MaxAbsDex: math.NaN(),
		MaxAbsPos: -1,
	}
}

// Calculate computes ratio statistics in a single pass over the valid
// samples.
func Calculate(ratio []float64) Stats {
	s := emptyStats(len(ratio))

	valid := make([]float64, 0, len(ratio))
	var (
		sumSqDex     float64
		within1      int
		within10     int
		minVal       = math.Inf(1)
		maxVal       = math.Inf(-1)
		maxAbsDexVal = -1.0
	)
	for i, r := range ratio {
		if !(r > 0) || math.IsInf(r, 0) {
			continue
		}
		valid = append(valid, r)

		if r < minVal {
			minVal, s.MinPos = r, i
		}
		if r > maxVal {
			maxVal, s.MaxPos = r, i
		}

		dex := math.Abs(math.Log10(r))
		sumSqDex += dex * dex
		if dex > maxAbsDexVal {
			maxAbsDexVal, s.MaxAbsPos = dex, i
		}

		if math.Abs(r-1) <= 0.01 {
			within1++
		}
		if math.Abs(r-1) <= 0.1 {
			within10++
		}
	}

	s.Valid = len(valid)
	if s.Valid == 0 {
		return s
	}

	nf := float64(s.Valid)
	s.Mean = stat.Mean(valid, nil)
	if s.Valid > 1 {
		s.StdDev = stat.StdDev(valid, nil)
	} else {
		s.StdDev = 0
	}
	s.Min, s.Max = minVal, maxVal
	s.RMSDex = math.Sqrt(sumSqDex / nf)
	s.MaxAbsDex = maxAbsDexVal
	s.Within1 = float64(within1) / nf
	s.Within10 = float64(within10) / nf
	return s
}

// WorstPercent returns the largest deviation of a valid ratio from 1, in
// percent of the reference.
func (s Stats) WorstPercent() float64 {
	if s.Valid == 0 {
		return math.NaN()
	}
	return 100 * math.Max(math.Abs(s.Max-1), math.Abs(s.Min-1))
}
