// Package band partitions a wavelength grid into contiguous bands.
//
// Band i covers the half-open-closed interval (edges[i], edges[i+1]], so
// the first edge is exclusive and the last inclusive. Bands never overlap.
package band

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by Split and Partition.Check.
var (
	ErrInvalidEdges = errors.New("band: invalid edges")
	ErrEmptyBand    = errors.New("band: empty band")
	ErrUncovered    = errors.New("band: samples not covered by any band")
)

// Edges holds N+1 strictly increasing band boundaries in micrometers.
type Edges []float64

// DefaultEdges returns the boundaries used for the solar fit.
func DefaultEdges() Edges {
	return Edges{0, 0.25, 0.3, 0.4, 0.6, 1.0, 3, 15, 1000}
}

// Validate checks that there are at least two finite, strictly increasing
// edges.
func (e Edges) Validate() error {
	if len(e) < 2 {
		return fmt.Errorf("%w: need at least 2 edges, got %d", ErrInvalidEdges, len(e))
	}
	for i, v := range e {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: edge %d is %v", ErrInvalidEdges, i, v)
		}
		if i > 0 && v <= e[i-1] {
			return fmt.Errorf("%w: edge %d (%g) <= edge %d (%g)", ErrInvalidEdges, i, v, i-1, e[i-1])
		}
	}
	return nil
}

// Bands returns the number of bands.
func (e Edges) Bands() int {
	if len(e) < 2 {
		return 0
	}
	return len(e) - 1
}

// Bounds returns the lower (exclusive) and upper (inclusive) edge of band i.
func (e Edges) Bounds(i int) (lower, upper float64) {
	return e[i], e[i+1]
}

// Contains reports whether w falls in band i.
func (e Edges) Contains(i int, w float64) bool {
	return w > e[i] && w <= e[i+1]
}

// BandError reports a failure tied to a single band.
type BandError struct {
	Index        int
	Lower, Upper float64
	Err          error
}

func (e *BandError) Error() string {
	return fmt.Sprintf("band %d (%g, %g]: %v", e.Index, e.Lower, e.Upper, e.Err)
}

func (e *BandError) Unwrap() error {
	return e.Err
}

// Partition is the assignment of grid indices to bands.
type Partition struct {
	Edges Edges
	// Masks[i] lists, in ascending order, the indices selected by band i.
	Masks [][]int
	// Uncovered lists indices outside (Edges[0], Edges[N]].
	Uncovered []int
}

// Split assigns every wavelength to the band containing it. The grid need
// not be sorted.
func Split(wavelength []float64, edges Edges) (Partition, error) {
	if err := edges.Validate(); err != nil {
		return Partition{}, err
	}

	p := Partition{
		Edges: append(Edges(nil), edges...),
		Masks: make([][]int, edges.Bands()),
	}
	for idx, w := range wavelength {
		b := locate(edges, w)
		if b < 0 {
			p.Uncovered = append(p.Uncovered, idx)
			continue
		}
		p.Masks[b] = append(p.Masks[b], idx)
	}
	return p, nil
}

// locate returns the band holding w by binary search, or -1.
func locate(edges Edges, w float64) int {
	// smallest i >= 1 with edges[i] >= w; the candidate band is i-1.
	lo, hi := 1, len(edges)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if edges[mid] >= w {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if !edges.Contains(lo-1, w) {
		return -1
	}
	return lo - 1
}

// Check reports uncovered samples first, then the first empty band.
func (p Partition) Check(wavelength []float64) error {
	if n := len(p.Uncovered); n > 0 {
		first := p.Uncovered[0]
		w := math.NaN()
		if first < len(wavelength) {
			w = wavelength[first]
		}
		return fmt.Errorf("%w: %d sample(s) outside (%g, %g], first at index %d (w=%g)",
			ErrUncovered, n, p.Edges[0], p.Edges[len(p.Edges)-1], first, w)
	}
	for i, m := range p.Masks {
		if len(m) == 0 {
			lo, hi := p.Edges.Bounds(i)
			return &BandError{Index: i, Lower: lo, Upper: hi, Err: ErrEmptyBand}
		}
	}
	return nil
}

// Select gathers values at the indices of band i.
func (p Partition) Select(i int, values []float64) []float64 {
	out := make([]float64, len(p.Masks[i]))
	for k, idx := range p.Masks[i] {
		out[k] = values[idx]
	}
	return out
}
