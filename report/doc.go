// Package report renders the diagnostics of a piecewise blackbody fit: a
// coefficient table and a log-log plot of the fit/reference ratio.
package report
