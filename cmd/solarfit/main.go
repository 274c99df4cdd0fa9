// Command solarfit fits a piecewise blackbody to the reference solar
// spectrum at 1 AU and reports per-band temperatures and scale factors.
//
// Usage:
//
//	solarfit [flags]
//
// The reference table is read from -data (default $SOLARFIT_DATA). It holds
// wavelength in um and irradiance in W m^-2 um^-1 as text, CSV, .gz, .zst or
// .parquet. With -synthetic a 5778 K blackbody stands in for the table.
//
// Examples:
//
//	solarfit -data e490_00a_amo.csv
//	solarfit -data e490.parquet -out ratio.svg
//	solarfit -synthetic -edges 0,0.5,2,1000 -cutoff 5
//	solarfit -data e490.csv -single -out ""
//	solarfit -data e490_00a_amo.csv -export e490.parquet
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-solarfit/calib"
	"github.com/cwbudde/algo-solarfit/fit"
	"github.com/cwbudde/algo-solarfit/fit/band"
	"github.com/cwbudde/algo-solarfit/report"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("solarfit: ")

	data := flag.String("data", getEnv("SOLARFIT_DATA", ""), "reference irradiance table (text, csv, .gz, .zst, .parquet)")
	synthetic := flag.Bool("synthetic", false, "use a synthetic 5778 K blackbody instead of -data")
	out := flag.String("out", "solarfit-ratio.png", "ratio plot file (png, svg, pdf); empty disables the plot")
	edges := flag.String("edges", "", "comma-separated band edges in um (default 0,0.25,0.3,0.4,0.6,1,3,15,1000)")
	cutoff := flag.Float64("cutoff", fit.DefaultConfig().Cutoff, "wavelength in um below which the smoothed spectrum is used")
	single := flag.Bool("single", false, "fit one blackbody to the whole spectrum")
	export := flag.String("export", "", "also write the reference table to this .parquet file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: solarfit [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Fits a piecewise blackbody to the solar spectrum and plots fit/reference.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*data, *synthetic, *out, *edges, *cutoff, *single, *export); err != nil {
		log.Fatal(err)
	}
}

func run(data string, synthetic bool, out, edges string, cutoff float64, single bool, export string) error {
	var src calib.Source
	switch {
	case synthetic:
		src = calib.DefaultBlackbodySource()
	case data != "":
		src = calib.FileSource{Path: data}
	default:
		return fmt.Errorf("no reference table: set -data or SOLARFIT_DATA, or use -synthetic")
	}

	s, err := calib.Load(src)
	if err != nil {
		return fmt.Errorf("load reference spectrum: %w", err)
	}
	log.Printf("loaded %d samples, %g-%g um", s.Len(), s.Wavelength[0], s.Wavelength[s.Len()-1])

	if export != "" {
		t, err := src.Load()
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := calib.WriteParquet(export, t); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		log.Printf("wrote %s", export)
	}

	cfg := fit.DefaultConfig()
	cfg.Cutoff = cutoff
	if edges != "" {
		e, err := parseEdges(edges)
		if err != nil {
			return err
		}
		cfg.Edges = e
	}
	if single {
		cfg.Guess = fit.WholeSpectrumGuess
	}
	opts := []fit.Option{fit.WithConfig(cfg)}

	var res *fit.Result
	if single {
		res, err = fit.FitWhole(s, opts...)
	} else {
		res, err = fit.Run(s, opts...)
	}
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}

	if err := report.WriteTable(os.Stdout, res); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	if out == "" {
		return nil
	}
	p, err := report.RatioPlot(res.Wavelength, res.Ratio)
	if err != nil {
		return err
	}
	if err := report.Save(p, out, report.DefaultWidth, report.DefaultHeight); err != nil {
		return err
	}
	log.Printf("wrote %s", out)
	return nil
}

func parseEdges(s string) (band.Edges, error) {
	parts := strings.Split(s, ",")
	e := make(band.Edges, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid edge %q: %w", p, err)
		}
		e = append(e, v)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
