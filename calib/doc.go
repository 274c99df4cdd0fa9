// Package calib loads reference solar spectral-irradiance tables and converts
// them to flux density.
//
// A table is a sequence of (wavelength, irradiance) samples with wavelength
// in micrometers and irradiance in W m^-2 um^-1, as in the ASTM E490 zero
// air-mass solar spectrum. Tables come from a [Source]:
//
//   - [FileSource] reads text, CSV, gzip, zstd or Parquet files
//   - [BlackbodySource] generates a synthetic blackbody table
//
// [Load] validates the table and converts it to Jansky:
//
//	s, err := calib.Load(calib.FileSource{Path: "e490.csv"})
//
// Conversion uses flux_Jy = irradiance * wavelength^2 / c * 1e26 with c in
// micrometers per second.
package calib
