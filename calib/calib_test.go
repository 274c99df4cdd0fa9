package calib

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"

	"github.com/cwbudde/algo-solarfit/internal/testutil"
	"github.com/cwbudde/algo-solarfit/physics/planck"
)

const sampleTable = `# ASTM E490 excerpt
Wavelength, um, E-490 W/m2/um
0.1195, 0.06190
0.1205  0.05614
0.1215	0.6102   # Lyman alpha
0.1225, 0.1052, extra
`

func TestReadText(t *testing.T) {
	tab, err := ReadText(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, tab.Wavelength, []float64{0.1195, 0.1205, 0.1215, 0.1225}, 0)
	testutil.RequireSliceNearlyEqual(t, tab.Irradiance, []float64{0.06190, 0.05614, 0.6102, 0.1052}, 0)
	if err := tab.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestReadTextErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrEmpty},
		{"only header", "wavelength irradiance\n# nothing\n", ErrEmpty},
		{"missing column", "0.2\n", ErrMalformed},
		{"bad value", "0.2, abc\n", ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadText(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadRejectsUnsortedTable(t *testing.T) {
	src := staticSource{Table{Wavelength: []float64{1, 0.5}, Irradiance: []float64{1, 1}}}
	_, err := Load(src)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
}

func TestLoadPropagatesSourceError(t *testing.T) {
	boom := errors.New("unavailable")
	_, err := Load(failingSource{boom})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
}

func TestToJansky(t *testing.T) {
	// 1 W m^-2 um^-1 at 1 um is 1e26 / c[um/s] Jy.
	s := ToJansky(Table{Wavelength: []float64{1, 2}, Irradiance: []float64{1, 1}})
	want0 := 1e26 / planck.SpeedOfLight
	if math.Abs(s.Flux[0]-want0)/want0 > 1e-12 {
		t.Fatalf("flux[0] = %v, want %v", s.Flux[0], want0)
	}
	if math.Abs(s.Flux[1]-4*want0)/want0 > 1e-12 {
		t.Fatalf("flux[1] = %v, want %v", s.Flux[1], 4*want0)
	}
}

func TestBlackbodySourceRoundTrip(t *testing.T) {
	src := DefaultBlackbodySource()
	s, err := Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != src.Samples {
		t.Fatalf("len = %d, want %d", s.Len(), src.Samples)
	}
	// Converting back to Jy must give Omega * B_nu exactly.
	for _, i := range []int{0, 400, 1200, src.Samples - 1} {
		want := src.SolidAngle * planck.Radiance(s.Wavelength[i], src.Temperature)
		if math.Abs(s.Flux[i]-want) > 1e-9*want {
			t.Fatalf("flux[%d] = %v, want %v", i, s.Flux[i], want)
		}
	}
}

func TestBlackbodySourceInvalid(t *testing.T) {
	src := DefaultBlackbodySource()
	src.Samples = 1
	if _, err := src.Load(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
}

func TestLogGrid(t *testing.T) {
	g := LogGrid(0.1, 1000, 5)
	testutil.RequireSliceNearlyEqual(t, g, []float64{0.1, 1, 10, 100, 1000}, 1e-9)
}

func TestFileSourceFormats(t *testing.T) {
	dir := t.TempDir()
	want, err := ReadText(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatal(err)
	}

	plain := filepath.Join(dir, "e490.txt")
	if err := os.WriteFile(plain, []byte(sampleTable), 0o600); err != nil {
		t.Fatal(err)
	}

	var gzBuf bytes.Buffer
	gw := pgzip.NewWriter(&gzBuf)
	if _, err := gw.Write([]byte(sampleTable)); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	gz := filepath.Join(dir, "e490.txt.gz")
	if err := os.WriteFile(gz, gzBuf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	zst := filepath.Join(dir, "e490.txt.zst")
	if err := os.WriteFile(zst, enc.EncodeAll([]byte(sampleTable), nil), 0o600); err != nil {
		t.Fatal(err)
	}
	_ = enc.Close()

	pq := filepath.Join(dir, "e490.parquet")
	if err := WriteParquet(pq, want); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	for _, path := range []string{plain, gz, zst, pq} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			got, err := FileSource{Path: path}.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, got.Wavelength, want.Wavelength, 0)
			testutil.RequireSliceNearlyEqual(t, got.Irradiance, want.Irradiance, 0)
		})
	}
}

func TestFileSourceMissing(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "missing.txt")}.Load()
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want os.ErrNotExist", err)
	}
}

type staticSource struct{ t Table }

func (s staticSource) Load() (Table, error) { return s.t, nil }

type failingSource struct{ err error }

func (f failingSource) Load() (Table, error) { return Table{}, f.err }
