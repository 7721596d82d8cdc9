// Package market holds the shared price and trade vocabulary: OHLCV bars,
// bar series, and order actions. Everything downstream (backtest, risk,
// paper trading) speaks these types.
package market

import "time"

// Action is the side of a trade or order.
type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
)

// Bar is one OHLCV observation for a fixed interval.
// Bars are immutable once loaded.
type Bar struct {
	Time   time.Time `json:"timestamp"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Valid reports whether the bar carries a usable close price.
// Bars failing this check are skipped by the backtest engine.
func (b Bar) Valid() bool {
	return b.Close > 0
}

// Series is an ordered (timestamp ascending) sequence of bars for one symbol.
type Series []Bar

// Slice returns s[from:to] clamped to the series bounds.
func (s Series) Slice(from, to int) Series {
	if from < 0 {
		from = 0
	}
	if to > len(s) {
		to = len(s)
	}
	if from >= to {
		return Series{}
	}
	return s[from:to]
}

// Closes returns the close prices of the series.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Last returns the final bar and true, or a zero bar and false when empty.
func (s Series) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}
