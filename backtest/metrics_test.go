package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gxquant/screener/market"
)

func curve(values ...float64) []Snapshot {
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]Snapshot, len(values))
	for i, v := range values {
		out[i] = Snapshot{Time: t0.AddDate(0, 0, i), Value: v}
	}
	return out
}

func trade(action market.Action) Trade {
	return Trade{Action: action, Price: 100, Quantity: 100}
}

func TestComputeMetricsEmptyCurve(t *testing.T) {
	t.Parallel()

	m := ComputeMetrics(100_000, nil, nil)
	assert.Equal(t, Metrics{}, m)
}

func TestComputeMetricsTotals(t *testing.T) {
	t.Parallel()

	trades := []Trade{trade(market.Buy), trade(market.Sell), trade(market.Buy)}
	m := ComputeMetrics(100_000, curve(100_000, 101_000, 99_000), trades)

	assert.InDelta(t, 100_000, m.InitialCapital, 1e-9)
	assert.InDelta(t, 99_000, m.FinalValue, 1e-9)
	assert.InDelta(t, -0.01, m.TotalReturn, 1e-9)
	assert.Equal(t, 3, m.TotalTrades)
	// One sell out of three trades.
	assert.InDelta(t, 1.0/3.0, m.WinRate, 1e-9)
}

func TestComputeMetricsNoTrades(t *testing.T) {
	t.Parallel()

	m := ComputeMetrics(100_000, curve(100_000, 100_000), nil)
	assert.Equal(t, 0, m.TotalTrades)
	assert.Zero(t, m.WinRate)
}

func TestMaxDrawdownBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"monotonic up", []float64{100, 110, 120}, 0},
		{"flat", []float64{100, 100, 100}, 0},
		{"single dip", []float64{100, 80, 90}, 0.20},
		{"dip after new peak", []float64{100, 120, 90}, 0.25},
		{"full loss", []float64{100, 0}, 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MaxDrawdown(curve(tt.values...))
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestSharpeRatioEdgeCases(t *testing.T) {
	t.Parallel()

	assert.Zero(t, SharpeRatio(nil))
	assert.Zero(t, SharpeRatio(curve(100_000)))
	// Constant returns have zero variance.
	assert.Zero(t, SharpeRatio(curve(100, 110, 121)))
	assert.Zero(t, SharpeRatio(curve(100, 100, 100)))
}

func TestSharpeRatioAnnualized(t *testing.T) {
	t.Parallel()

	// Returns +10% then -10%: mean = 0, stddev (population) = 0.10.
	got := SharpeRatio(curve(100, 110, 99))
	mean := (0.10 + -0.10) / 2
	sd := math.Sqrt((math.Pow(0.10-mean, 2) + math.Pow(-0.10-mean, 2)) / 2)
	want := mean / sd * math.Sqrt(252)
	assert.InDelta(t, want, got, 1e-9)

	// Positive drift yields a positive ratio.
	assert.Positive(t, SharpeRatio(curve(100, 105, 104, 110, 112)))
}
