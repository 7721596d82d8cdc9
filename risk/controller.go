// Package risk enforces position-sizing and loss limits. The Controller is
// consulted before every order submission on the paper-trading path.
package risk

import (
	"fmt"
	"log/slog"

	"github.com/gxquant/screener/market"
)

// Level grades how close the account is to a limit.
type Level string

const (
	Low      Level = "low"
	Medium   Level = "medium"
	High     Level = "high"
	Critical Level = "critical"
)

// Limits are the controller's fractional thresholds.
type Limits struct {
	// MaxPositionPct caps both aggregate exposure and any single
	// symbol's position value, as a fraction of current capital.
	MaxPositionPct float64 `json:"max_position_pct" yaml:"max_position_pct"`

	// MaxDailyLossPct rejects all orders once the day's realized loss
	// exceeds this fraction of current capital.
	MaxDailyLossPct float64 `json:"max_daily_loss_pct" yaml:"max_daily_loss_pct"`

	// MaxTotalLossPct rejects all orders once cumulative loss reaches
	// this fraction of initial capital.
	MaxTotalLossPct float64 `json:"max_total_loss_pct" yaml:"max_total_loss_pct"`

	// MaxDrawdownPct grades the risk report's level.
	MaxDrawdownPct float64 `json:"max_drawdown_pct" yaml:"max_drawdown_pct"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxPositionPct:  0.25,
		MaxDailyLossPct: 0.05,
		MaxTotalLossPct: 0.20,
		MaxDrawdownPct:  0.15,
	}
}

// Decision is the outcome of a risk check. It is a first-class result,
// not an error: the caller decides whether to retry with a smaller size.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Level   Level  `json:"risk_level"`
}

// Controller tracks capital and daily P&L against its limits and reads
// positions through the shared ledger.
type Controller struct {
	limits Limits
	ledger *Ledger
	log    *slog.Logger

	initialCapital float64
	currentCapital float64
	dailyPnL       float64
}

// NewController builds a controller over the given ledger. A nil ledger
// gets a fresh empty one.
func NewController(initialCapital float64, limits Limits, ledger *Ledger) *Controller {
	if ledger == nil {
		ledger = NewLedger()
	}
	return &Controller{
		limits:         limits,
		ledger:         ledger,
		log:            slog.Default(),
		initialCapital: initialCapital,
		currentCapital: initialCapital,
	}
}

// SetLogger overrides the default logger.
func (c *Controller) SetLogger(l *slog.Logger) {
	if l != nil {
		c.log = l
	}
}

// Ledger returns the shared position book.
func (c *Controller) Ledger() *Ledger { return c.ledger }

// CurrentCapital returns the controller's view of account capital.
func (c *Controller) CurrentCapital() float64 { return c.currentCapital }

// CheckRisk inspects a proposed order against the limits. It never
// mutates state; calling it repeatedly with unchanged state returns the
// same decision. Checks run in order and the first violation wins.
func (c *Controller) CheckRisk(symbol string, action market.Action, quantity int64, price float64) Decision {
	// 1. Daily loss circuit breaker.
	if c.dailyPnL < -c.currentCapital*c.limits.MaxDailyLossPct {
		return Decision{
			Reason: fmt.Sprintf("daily loss limit reached (%.0f%%)", c.limits.MaxDailyLossPct*100),
			Level:  Critical,
		}
	}

	// 2. Total loss circuit breaker.
	totalLoss := (c.initialCapital - c.currentCapital) / c.initialCapital
	if totalLoss >= c.limits.MaxTotalLossPct {
		return Decision{
			Reason: fmt.Sprintf("total loss limit reached (%.0f%%)", c.limits.MaxTotalLossPct*100),
			Level:  Critical,
		}
	}

	buyValue := 0.0
	if action == market.Buy {
		buyValue = float64(quantity) * price
	}

	// 3. Aggregate exposure cap.
	newExposure := c.ledger.Exposure() + buyValue
	if newExposure/c.currentCapital > c.limits.MaxPositionPct {
		return Decision{
			Reason: fmt.Sprintf("exposure would exceed %.0f%% of capital", c.limits.MaxPositionPct*100),
			Level:  High,
		}
	}

	// 4. Per-symbol concentration cap.
	if c.ledger.Value(symbol)+buyValue > c.currentCapital*c.limits.MaxPositionPct {
		return Decision{
			Reason: fmt.Sprintf("single-symbol position would exceed %.0f%% of capital", c.limits.MaxPositionPct*100),
			Level:  Medium,
		}
	}

	return Decision{Allowed: true, Level: Low}
}

// UpdatePosition books one accepted fill into the ledger. It is the only
// position mutator and must be called exactly once per fill, never for
// rejected or pending orders.
func (c *Controller) UpdatePosition(symbol string, action market.Action, quantity int64, price float64) {
	c.ledger.Apply(symbol, action, quantity, price)
}

// RecordPnL books realized profit or loss into capital and the daily
// tally.
func (c *Controller) RecordPnL(realized float64) {
	c.currentCapital += realized
	c.dailyPnL += realized
}

// ResetDaily zeroes the daily P&L tally at the start of a session.
func (c *Controller) ResetDaily() {
	c.dailyPnL = 0
}

// Report is a snapshot of the controller's risk state.
type Report struct {
	InitialCapital  float64 `json:"initial_capital"`
	CurrentCapital  float64 `json:"current_capital"`
	TotalExposure   float64 `json:"total_exposure"`
	ExposurePct     float64 `json:"exposure_pct"`
	CurrentDrawdown float64 `json:"current_drawdown"`
	DailyPnL        float64 `json:"daily_pnl"`
	PositionsCount  int     `json:"positions_count"`
	Level           Level   `json:"risk_level"`
}

// RiskReport grades the account: drawdown against the drawdown limit,
// then exposure against the position cap.
func (c *Controller) RiskReport() Report {
	exposure := c.ledger.Exposure()

	drawdown := 0.0
	if c.initialCapital > 0 && c.currentCapital < c.initialCapital {
		drawdown = (c.initialCapital - c.currentCapital) / c.initialCapital
	}

	level := Low
	switch {
	case drawdown >= c.limits.MaxDrawdownPct:
		level = Critical
	case drawdown >= c.limits.MaxDrawdownPct*0.7:
		level = High
	case c.currentCapital > 0 && exposure/c.currentCapital >= c.limits.MaxPositionPct*0.8:
		level = Medium
	}

	exposurePct := 0.0
	if c.currentCapital > 0 {
		exposurePct = exposure / c.currentCapital
	}

	return Report{
		InitialCapital:  c.initialCapital,
		CurrentCapital:  c.currentCapital,
		TotalExposure:   exposure,
		ExposurePct:     exposurePct,
		CurrentDrawdown: drawdown,
		DailyPnL:        c.dailyPnL,
		PositionsCount:  c.ledger.Len(),
		Level:           level,
	}
}
