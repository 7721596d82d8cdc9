package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gxquant/screener/market"
	"github.com/gxquant/screener/strategies"
)

func bars(closes ...float64) market.Series {
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make(market.Series, len(closes))
	for i, c := range closes {
		out[i] = market.Bar{
			Time:   t0.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

func TestRunStopLossScenario(t *testing.T) {
	t.Parallel()

	e := NewEngine(100_000)
	res, err := e.Run(
		strategies.Params{StopLoss: 0.05, TakeProfit: 0.10},
		bars(100, 100, 94),
		"SH600000",
	)
	assert.NoError(t, err)

	// Entry at bar 1 with half the cash: 500 shares @ 100.
	// Bar 3 close 94 <= 100*0.95 triggers the stop at 94.
	assert.Len(t, res.Trades, 2)
	assert.Equal(t, market.Buy, res.Trades[0].Action)
	assert.Equal(t, int64(500), res.Trades[0].Quantity)
	assert.InDelta(t, 100.0, res.Trades[0].Price, 1e-9)
	assert.Equal(t, market.Sell, res.Trades[1].Action)
	assert.Equal(t, int64(500), res.Trades[1].Quantity)
	assert.InDelta(t, 94.0, res.Trades[1].Price, 1e-9)

	assert.Len(t, res.Curve, 3)
	assert.InDelta(t, 100_000, res.Curve[0].Value, 1e-9)
	assert.InDelta(t, 100_000, res.Curve[1].Value, 1e-9)
	assert.InDelta(t, 97_000, res.Curve[2].Value, 1e-9)

	assert.InDelta(t, -0.03, res.Metrics.TotalReturn, 1e-9)
	assert.Equal(t, 2, res.Metrics.TotalTrades)
	assert.InDelta(t, 0.5, res.Metrics.WinRate, 1e-9)
}

func TestRunTakeProfit(t *testing.T) {
	t.Parallel()

	e := NewEngine(100_000)
	res, err := e.Run(
		strategies.Params{StopLoss: 0.05, TakeProfit: 0.10},
		bars(100, 105, 111),
		"SH600000",
	)
	assert.NoError(t, err)

	assert.Len(t, res.Trades, 2)
	assert.Equal(t, market.Sell, res.Trades[1].Action)
	assert.InDelta(t, 111.0, res.Trades[1].Price, 1e-9)
	// 500 shares gained 11 each.
	assert.InDelta(t, 105_500, res.Metrics.FinalValue, 1e-9)
}

func TestRunEmptySeries(t *testing.T) {
	t.Parallel()

	e := NewEngine(100_000)
	res, err := e.Run(strategies.Params{}, market.Series{}, "SH600000")
	assert.NoError(t, err)

	assert.Empty(t, res.Trades)
	assert.Empty(t, res.Curve)
	assert.Equal(t, Metrics{}, res.Metrics)
}

func TestRunSkipsInvalidBars(t *testing.T) {
	t.Parallel()

	series := bars(100, 100, 94)
	series[1].Close = 0 // invalid: skipped, no snapshot, no state change

	e := NewEngine(100_000)
	res, err := e.Run(strategies.Params{StopLoss: 0.05, TakeProfit: 0.10}, series, "SH600000")
	assert.NoError(t, err)

	assert.Len(t, res.Curve, 2)
	assert.Len(t, res.Trades, 2)
	assert.InDelta(t, 97_000, res.Metrics.FinalValue, 1e-9)
}

func TestRunZeroQuantitySkipped(t *testing.T) {
	t.Parallel()

	// Half of 100 cash buys zero whole shares at 1000.
	e := NewEngine(100)
	res, err := e.Run(strategies.Params{}, bars(1000, 1000), "SH600000")
	assert.NoError(t, err)

	assert.Empty(t, res.Trades)
	assert.Len(t, res.Curve, 2)
	assert.InDelta(t, 100, res.Metrics.FinalValue, 1e-9)
}

func TestRunOpenPositionNotForceClosed(t *testing.T) {
	t.Parallel()

	e := NewEngine(100_000)
	res, err := e.Run(
		strategies.Params{StopLoss: 0.05, TakeProfit: 0.10},
		bars(100, 102),
		"SH600000",
	)
	assert.NoError(t, err)

	// Only the entry trade; the final value marks the open position.
	assert.Len(t, res.Trades, 1)
	assert.InDelta(t, 50_000+500*102, res.Metrics.FinalValue, 1e-9)
}

func TestRunDeterministic(t *testing.T) {
	t.Parallel()

	series := bars(100, 96, 103, 94, 107, 99, 111, 90)
	p := strategies.Params{StopLoss: 0.05, TakeProfit: 0.10}

	e := NewEngine(100_000)
	first, err := e.Run(p, series, "SH600000")
	assert.NoError(t, err)

	second, err := e.Run(p, series, "SH600000")
	assert.NoError(t, err)

	assert.Equal(t, first.Trades, second.Trades)
	assert.Equal(t, first.Curve, second.Curve)
	assert.Equal(t, first.Metrics, second.Metrics)
}

func TestRunCapitalConservation(t *testing.T) {
	t.Parallel()

	series := bars(100, 96, 103, 94, 107, 99, 111, 90)

	e := NewEngine(100_000)
	res, err := e.Run(strategies.Params{StopLoss: 0.05, TakeProfit: 0.10}, series, "SH600000")
	assert.NoError(t, err)

	// Replay the trade log independently: at every bar, cash plus
	// mark-to-market position value must equal the recorded snapshot.
	cash := 100_000.0
	var qty int64
	ti := 0
	for i, s := range res.Curve {
		close := series[i].Close
		for ti < len(res.Trades) && res.Trades[ti].Time.Equal(s.Time) {
			tr := res.Trades[ti]
			if tr.Action == market.Buy {
				cash -= tr.Price * float64(tr.Quantity)
				qty += tr.Quantity
			} else {
				cash += tr.Price * float64(tr.Quantity)
				qty -= tr.Quantity
			}
			ti++
		}
		assert.InDelta(t, cash+float64(qty)*close, s.Value, 1e-9, "bar %d", i)
	}
}

func TestRunRejectsInvalidParams(t *testing.T) {
	t.Parallel()

	e := NewEngine(100_000)
	_, err := e.Run(strategies.Params{StopLoss: -0.1}, bars(100), "SH600000")
	assert.Error(t, err)

	// Engine state stays reset; the next run is unaffected.
	res, err := e.Run(strategies.Params{}, bars(100, 100), "SH600000")
	assert.NoError(t, err)
	assert.Len(t, res.Trades, 1)
}

func TestRunMACrossEntry(t *testing.T) {
	t.Parallel()

	// Downtrend then a sharp reversal: the 2-bar MA must climb above
	// the 4-bar MA before any entry happens.
	series := bars(100, 98, 96, 94, 99, 104)
	p := strategies.Params{
		Entry:       "ma-cross",
		ShortPeriod: 2,
		LongPeriod:  4,
		StopLoss:    0.05,
		TakeProfit:  0.10,
	}

	e := NewEngine(100_000)
	res, err := e.Run(p, series, "SH600000")
	assert.NoError(t, err)

	assert.NotEmpty(t, res.Trades)
	assert.Equal(t, market.Buy, res.Trades[0].Action)
	// No entry while the short MA was below the long MA.
	assert.True(t, res.Trades[0].Time.After(series[3].Time))
}
