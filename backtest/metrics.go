package backtest

import (
	"math"

	"github.com/gxquant/screener/market"
)

// tradingDaysPerYear annualizes the Sharpe ratio of daily bar returns.
const tradingDaysPerYear = 252

// Metrics summarizes one run. All ratios are fractional, never
// pre-multiplied by 100.
type Metrics struct {
	InitialCapital float64 `json:"initial_capital"`
	FinalValue     float64 `json:"final_value"`
	TotalReturn    float64 `json:"total_return"`
	TotalTrades    int     `json:"total_trades"`

	// WinRate is the share of sell trades over all trades: a turnover
	// proxy, not a profitable-exit ratio. Kept as-is for compatibility.
	WinRate float64 `json:"win_rate"`

	MaxDrawdown float64 `json:"max_drawdown"`
	SharpeRatio float64 `json:"sharpe_ratio"`
}

// ComputeMetrics derives the run metrics from the portfolio curve and the
// trade log. An empty curve yields the zero value.
func ComputeMetrics(initialCapital float64, curve []Snapshot, trades []Trade) Metrics {
	if len(curve) == 0 {
		return Metrics{}
	}

	finalValue := curve[len(curve)-1].Value

	winRate := 0.0
	if len(trades) > 0 {
		sells := 0
		for _, t := range trades {
			if t.Action == market.Sell {
				sells++
			}
		}
		winRate = float64(sells) / float64(len(trades))
	}

	return Metrics{
		InitialCapital: initialCapital,
		FinalValue:     finalValue,
		TotalReturn:    (finalValue - initialCapital) / initialCapital,
		TotalTrades:    len(trades),
		WinRate:        winRate,
		MaxDrawdown:    MaxDrawdown(curve),
		SharpeRatio:    SharpeRatio(curve),
	}
}

// MaxDrawdown is the largest peak-to-trough decline of the curve,
// as a fraction of the running peak. Zero for an empty or monotonically
// non-decreasing curve.
func MaxDrawdown(curve []Snapshot) float64 {
	if len(curve) == 0 {
		return 0
	}

	peak := curve[0].Value
	maxDD := 0.0
	for _, s := range curve {
		if s.Value > peak {
			peak = s.Value
		}
		if peak > 0 {
			if dd := (peak - s.Value) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// SharpeRatio is the mean of bar-over-bar returns divided by their
// population standard deviation, annualized by sqrt(252). Zero when the
// curve has fewer than two snapshots or zero variance.
func SharpeRatio(curve []Snapshot) float64 {
	if len(curve) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Value
		if prev > 0 {
			returns = append(returns, (curve[i].Value-prev)/prev)
		}
	}
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}
