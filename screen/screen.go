// Package screen filters industry stock lists by factor thresholds
// computed over each symbol's bar series.
package screen

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/gxquant/screener/indicators"
	"github.com/gxquant/screener/market"
)

// BarLoader supplies the bar series for a symbol.
type BarLoader interface {
	Load(symbol string) (market.Series, error)
}

// Factors are the screening thresholds. Zero values disable a check.
type Factors struct {
	MinPrice  float64 `json:"min_price,omitempty" yaml:"min_price,omitempty"`
	MaxPrice  float64 `json:"max_price,omitempty" yaml:"max_price,omitempty"`
	MinVolume float64 `json:"min_volume,omitempty" yaml:"min_volume,omitempty"`

	// TrendUp keeps only symbols whose 5-bar average close is above
	// the 20-bar average.
	TrendUp bool `json:"trend_up,omitempty" yaml:"trend_up,omitempty"`
}

// Match is one surviving symbol with its screening observations.
type Match struct {
	Symbol    string  `json:"symbol"`
	LastClose float64 `json:"last_close"`
	AvgVolume float64 `json:"avg_volume"`
}

// Screener screens industries against factor thresholds.
type Screener struct {
	loader     BarLoader
	industries map[string][]string
	log        *slog.Logger
}

func NewScreener(loader BarLoader, industries map[string][]string) *Screener {
	return &Screener{
		loader:     loader,
		industries: industries,
		log:        slog.Default(),
	}
}

// SetLogger overrides the default logger.
func (s *Screener) SetLogger(l *slog.Logger) {
	if l != nil {
		s.log = l
	}
}

// IndustrySymbols returns the symbols of one industry, sorted.
func (s *Screener) IndustrySymbols(industry string) ([]string, error) {
	symbols, ok := s.industries[industry]
	if !ok {
		return nil, fmt.Errorf("unknown industry %q", industry)
	}
	out := append([]string(nil), symbols...)
	sort.Strings(out)
	return out, nil
}

// Industries lists the known industry names, sorted.
func (s *Screener) Industries() []string {
	out := make([]string, 0, len(s.industries))
	for name := range s.industries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ScreenIndustry screens all symbols of an industry. Symbols whose data
// fails to load are skipped, not fatal; the rest of the list proceeds.
func (s *Screener) ScreenIndustry(industry string, factors Factors) ([]Match, error) {
	symbols, err := s.IndustrySymbols(industry)
	if err != nil {
		return nil, err
	}
	return s.Screen(symbols, factors), nil
}

// Screen applies the factor thresholds to each symbol's series.
func (s *Screener) Screen(symbols []string, factors Factors) []Match {
	matches := []Match{}
	for _, symbol := range symbols {
		series, err := s.loader.Load(symbol)
		if err != nil {
			s.log.Warn("skipping symbol", "symbol", symbol, "err", err)
			continue
		}
		if m, ok := evaluate(symbol, series, factors); ok {
			matches = append(matches, m)
		}
	}
	s.log.Info("screen complete", "candidates", len(symbols), "matches", len(matches))
	return matches
}

func evaluate(symbol string, series market.Series, factors Factors) (Match, bool) {
	last, ok := series.Last()
	if !ok || !last.Valid() {
		return Match{}, false
	}

	if factors.MinPrice > 0 && last.Close < factors.MinPrice {
		return Match{}, false
	}
	if factors.MaxPrice > 0 && last.Close > factors.MaxPrice {
		return Match{}, false
	}

	avgVolume := 0.0
	if len(series) > 0 {
		n := len(series)
		if n > 20 {
			n = 20
		}
		for _, b := range series[len(series)-n:] {
			avgVolume += b.Volume
		}
		avgVolume /= float64(n)
	}
	if factors.MinVolume > 0 && avgVolume < factors.MinVolume {
		return Match{}, false
	}

	if factors.TrendUp {
		shortMA, err1 := indicators.MeanClose(series, 5)
		longMA, err2 := indicators.MeanClose(series, 20)
		if err1 != nil || err2 != nil || shortMA <= longMA {
			return Match{}, false
		}
	}

	return Match{Symbol: symbol, LastClose: last.Close, AvgVolume: avgVolume}, true
}
