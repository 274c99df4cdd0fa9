package calib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/parquet-go/parquet-go"
)

// FileSource reads an irradiance table from disk. The format follows the
// file suffix: ".parquet", ".gz" (gzip-compressed text), ".zst"
// (zstd-compressed text), anything else is plain text.
type FileSource struct {
	Path string
}

// Load implements Source.
func (f FileSource) Load() (Table, error) {
	if f.Path == "" {
		return Table{}, errors.New("calib: empty file path")
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return Table{}, fmt.Errorf("calib: open table: %w", err)
	}
	defer file.Close()

	switch lower := strings.ToLower(f.Path); {
	case strings.HasSuffix(lower, ".parquet"):
		info, err := file.Stat()
		if err != nil {
			return Table{}, fmt.Errorf("calib: stat table: %w", err)
		}
		return readParquet(file, info.Size())
	case strings.HasSuffix(lower, ".gz"):
		gz, err := pgzip.NewReader(file)
		if err != nil {
			return Table{}, fmt.Errorf("calib: gzip reader: %w", err)
		}
		defer gz.Close()
		return ReadText(gz)
	case strings.HasSuffix(lower, ".zst"):
		zr, err := zstd.NewReader(file)
		if err != nil {
			return Table{}, fmt.Errorf("calib: zstd reader: %w", err)
		}
		defer zr.Close()
		return ReadText(zr)
	default:
		return ReadText(file)
	}
}

// ReadText parses a text table. Each data line carries the wavelength and
// irradiance as its first two numeric fields, separated by whitespace and/or
// commas. Blank lines, '#' comments and header lines whose first field is not
// numeric are skipped. A data line with fewer than two numeric fields is
// malformed.
func ReadText(r io.Reader) (Table, error) {
	var t Table

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\r'
		})
		if len(fields) == 0 {
			continue
		}

		w, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			// header or label row
			continue
		}
		if len(fields) < 2 {
			return Table{}, fmt.Errorf("%w: line %d: missing irradiance", ErrMalformed, lineNo)
		}
		e, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Table{}, fmt.Errorf("%w: line %d: %w", ErrMalformed, lineNo, err)
		}

		t.Wavelength = append(t.Wavelength, w)
		t.Irradiance = append(t.Irradiance, e)
	}
	if err := sc.Err(); err != nil {
		return Table{}, fmt.Errorf("calib: read table: %w", err)
	}
	if t.Len() == 0 {
		return Table{}, ErrEmpty
	}
	return t, nil
}

// Row is the Parquet schema of an irradiance table.
type Row struct {
	Wavelength float64 `parquet:"wavelength"`
	Irradiance float64 `parquet:"irradiance"`
}

func readParquet(r io.ReaderAt, size int64) (Table, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return Table{}, fmt.Errorf("%w: parquet: %w", ErrMalformed, err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()

	var t Table
	rows := make([]Row, 1024)
	for {
		n, err := reader.Read(rows)
		for i := 0; i < n; i++ {
			t.Wavelength = append(t.Wavelength, rows[i].Wavelength)
			t.Irradiance = append(t.Irradiance, rows[i].Irradiance)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("%w: parquet: %w", ErrMalformed, err)
		}
		if n == 0 {
			break
		}
	}
	if t.Len() == 0 {
		return Table{}, ErrEmpty
	}
	return t, nil
}

// WriteParquet stores t as a Parquet file at path.
func WriteParquet(path string, t Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	rows := make([]Row, t.Len())
	for i := range rows {
		rows[i] = Row{Wavelength: t.Wavelength[i], Irradiance: t.Irradiance[i]}
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("calib: write parquet: %w", err)
	}
	return nil
}
