// Package fit approximates a reference spectrum with a piecewise blackbody.
//
// The pipeline is a sequence of pure steps, each returning its data:
//
//  1. smooth the flux with a normalized Gaussian kernel
//  2. merge smoothed values below the cutoff with raw values above it
//  3. split the wavelength grid into bands (lower, upper]
//  4. fit scale * Planck(wavelength, T) independently in every band, with a
//     1% per-sample uncertainty
//  5. assemble the band models into one sequence aligned with the input
//  6. divide the assembled fit by the merged spectrum
//
// # Usage
//
//	res, err := fit.Run(s)
//	for _, b := range res.Bands {
//		fmt.Println(b.Index, b.Temperature, b.Scale)
//	}
//
// Band edges, kernel, cutoff, initial guess and uncertainty are tunable with
// options:
//
//	res, err := fit.Run(s, fit.WithEdges(band.Edges{0, 1, 5, 1000}), fit.WithCutoff(5))
//
// Any band failure aborts the run; no partial result is returned. Band
// failures are reported as a [*band.BandError] naming the band and its edges.
package fit
