// Package data loads OHLCV bar series from per-symbol CSV files.
//
// The on-disk layout is one file per symbol under a data directory:
//
//	<dir>/SH600000.csv        plain CSV
//	<dir>/SH600000.csv.xz     xz-compressed CSV
//
// Rows are date,open,high,low,close,volume[,amount]. Preamble and header
// rows are skipped by failing the date parse.
package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"

	"github.com/gxquant/screener/market"
)

// Loader reads bar series for symbols from a data directory.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// NormalizeCode converts the supported symbol spellings (600000.SH,
// SH600000, bare 6-digit codes) to the canonical EXCHANGE+digits form.
func NormalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	code = strings.ReplaceAll(code, ".", "")
	if code == "" {
		return code
	}

	if strings.HasPrefix(code, "SH") || strings.HasPrefix(code, "SZ") || strings.HasPrefix(code, "BJ") {
		return code
	}

	// 600000.SH style arrives here as "600000SH" after dot removal.
	if len(code) == 8 {
		if ex := code[6:]; ex == "SH" || ex == "SZ" || ex == "BJ" {
			return ex + code[:6]
		}
	}

	// Bare 6-digit code: 6xxxxx trades in Shanghai, the rest in Shenzhen.
	if len(code) == 6 {
		if code[0] == '6' {
			return "SH" + code
		}
		return "SZ" + code
	}

	return code
}

// Load reads the full bar series for a symbol.
func (l *Loader) Load(symbol string) (market.Series, error) {
	return l.LoadRange(symbol, time.Time{}, time.Time{})
}

// LoadRange reads the bar series for a symbol, keeping bars with
// start <= t < end. Zero bounds disable that side of the filter.
func (l *Loader) LoadRange(symbol string, start, end time.Time) (market.Series, error) {
	sym := NormalizeCode(symbol)

	r, closeFn, err := l.open(sym)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	series, err := ReadBars(r)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", sym, err)
	}

	if start.IsZero() && end.IsZero() {
		return series, nil
	}

	out := make(market.Series, 0, len(series))
	for _, b := range series {
		if !start.IsZero() && b.Time.Before(start) {
			continue
		}
		if !end.IsZero() && !b.Time.Before(end) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// ImportArchive extracts a zip bundle of per-symbol CSV files into the
// data directory so they become loadable.
func (l *Loader) ImportArchive(zipPath string) error {
	if err := unzip.Extract(zipPath, l.dir); err != nil {
		return fmt.Errorf("import archive %s: %w", zipPath, err)
	}
	return nil
}

func (l *Loader) open(sym string) (io.Reader, func() error, error) {
	plain := filepath.Join(l.dir, sym+".csv")
	if f, err := os.Open(plain); err == nil {
		return f, f.Close, nil
	}

	packed := filepath.Join(l.dir, sym+".csv.xz")
	f, err := os.Open(packed)
	if err != nil {
		return nil, nil, fmt.Errorf("no data file for %s under %s", sym, l.dir)
	}
	xr, err := xz.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("open %s: %w", packed, err)
	}
	return xr, f.Close, nil
}

// ReadBars parses CSV rows into a bar series. Rows whose first field does
// not parse as a date are skipped, which tolerates headers and vendor
// preamble lines.
func ReadBars(r io.Reader) (market.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var series market.Series
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 6 {
			continue
		}

		t, err := parseDate(rec[0])
		if err != nil {
			continue
		}

		vals := make([]float64, 5)
		bad := false
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				bad = true
				break
			}
			vals[i] = v
		}
		if bad {
			continue
		}

		series = append(series, market.Bar{
			Time:   t,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}
	return series, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006/01/02", "20060102", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
