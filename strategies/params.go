// Package strategies defines the typed strategy parameter space and the
// pluggable entry rules the backtest engine evaluates when flat.
package strategies

import (
	"fmt"
	"math"
)

// Default fractional stop/take levels applied when a Params field is left
// at zero.
const (
	DefaultStopLoss   = 0.05
	DefaultTakeProfit = 0.10
)

// Params is the closed strategy parameter set. It replaces free-form
// config mappings so that grid search iterates a typed space.
type Params struct {
	// Fractional exit levels. Exit triggers when the close falls to
	// entry*(1-StopLoss) or rises to entry*(1+TakeProfit).
	StopLoss   float64 `json:"stop_loss" yaml:"stop_loss"`
	TakeProfit float64 `json:"take_profit" yaml:"take_profit"`

	// Entry names the entry rule variant ("always", "ma-cross").
	// Empty means "always".
	Entry string `json:"entry,omitempty" yaml:"entry,omitempty"`

	// Moving-average periods for the ma-cross entry rule.
	ShortPeriod int `json:"short_period,omitempty" yaml:"short_period,omitempty"`
	LongPeriod  int `json:"long_period,omitempty" yaml:"long_period,omitempty"`
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (p Params) WithDefaults() Params {
	if p.StopLoss == 0 {
		p.StopLoss = DefaultStopLoss
	}
	if p.TakeProfit == 0 {
		p.TakeProfit = DefaultTakeProfit
	}
	if p.Entry == "" {
		p.Entry = "always"
	}
	if p.ShortPeriod == 0 {
		p.ShortPeriod = 5
	}
	if p.LongPeriod == 0 {
		p.LongPeriod = 20
	}
	return p
}

// Validate rejects parameter sets the engine cannot run.
func (p Params) Validate() error {
	if p.StopLoss < 0 || math.IsNaN(p.StopLoss) {
		return fmt.Errorf("stop_loss must be non-negative, got %v", p.StopLoss)
	}
	if p.TakeProfit < 0 || math.IsNaN(p.TakeProfit) {
		return fmt.Errorf("take_profit must be non-negative, got %v", p.TakeProfit)
	}
	if p.ShortPeriod < 0 || p.LongPeriod < 0 {
		return fmt.Errorf("ma periods must be non-negative, got %d/%d", p.ShortPeriod, p.LongPeriod)
	}
	if _, err := lookupEntry(p.Entry); err != nil {
		return err
	}
	return nil
}

// Set assigns a named numeric parameter. It is how the optimizer binds a
// grid point onto a base parameter set; unknown names are an error so a
// bad grid fails one combination, not the whole search.
func (p *Params) Set(name string, value float64) error {
	switch name {
	case "stop_loss":
		p.StopLoss = value
	case "take_profit":
		p.TakeProfit = value
	case "short_period":
		p.ShortPeriod = int(value)
	case "long_period":
		p.LongPeriod = int(value)
	default:
		return fmt.Errorf("unknown strategy parameter %q", name)
	}
	return nil
}
