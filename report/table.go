package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-solarfit/fit"
	"github.com/cwbudde/algo-solarfit/physics/planck"
	"github.com/cwbudde/algo-solarfit/stats/ratio"
)

// WriteTable prints one row per band followed by a summary of the
// fit/reference ratio. Scales multiply B_nu in Jy/sr, so they are 1e6 times
// smaller than scales fitted against a radiance in MJy/sr.
func WriteTable(w io.Writer, res *fit.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Band\tRange [um]\tSamples\tT [K]\tPeak [um]\tScale [sr]\tRed. chi2\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "----\t----------\t-------\t-----\t---------\t----------\t---------\n"); err != nil {
		return err
	}

	for _, b := range res.Bands {
		if _, err := fmt.Fprintf(tw, "%d\t(%g, %g]\t%d\t%.1f\t%.4f\t%.6e\t%.4g\n",
			b.Index,
			b.Lower,
			b.Upper,
			len(b.Indices),
			b.Temperature,
			planck.PeakWavelength(b.Temperature),
			b.Scale,
			b.ReducedChiSquare,
		); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "scale multiplies B_nu(T) in Jy/sr\n"); err != nil {
		return err
	}

	s := ratio.Calculate(res.Ratio)
	_, err := fmt.Fprintf(w, "\nfit/reference: %d/%d valid, mean %.4f, rms %.4f dex, worst %.2f%% at index %d, within 1%%: %.1f%%, within 10%%: %.1f%%\n",
		s.Valid, s.Length, s.Mean, s.RMSDex, s.WorstPercent(), s.MaxAbsPos, 100*s.Within1, 100*s.Within10)
	return err
}
