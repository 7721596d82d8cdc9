package optimize

import (
	"context"
	"fmt"

	"github.com/gxquant/screener/backtest"
	"github.com/gxquant/screener/market"
	"github.com/gxquant/screener/strategies"
)

// Window is one rolling train/test evaluation: the grid is re-optimized
// on the training slice, then scored once on the immediately following
// unseen test slice.
type Window struct {
	Start       int                `json:"period_start"`
	End         int                `json:"period_end"`
	BestParams  map[string]float64 `json:"best_params"`
	TestMetrics backtest.Metrics   `json:"test_metrics"`
	Err         string             `json:"error,omitempty"`
}

// WalkForwardReport collects the per-window results plus the flat list of
// chosen parameter sets.
type WalkForwardReport struct {
	Windows    []Window             `json:"results"`
	BestParams []map[string]float64 `json:"best_params_list"`
}

// WalkForward partitions the series into trainSize-bar training windows
// each followed by a testSize-bar test window, advancing by testSize per
// iteration so test segments never overlap. A window whose optimization
// or test run fails is recorded with its error and skipped.
func (o *Optimizer) WalkForward(ctx context.Context, base strategies.Params, series market.Series, grid Grid, trainSize, testSize int, symbol string) (WalkForwardReport, error) {
	if trainSize <= 0 || testSize <= 0 {
		return WalkForwardReport{}, fmt.Errorf("walk-forward: train/test sizes must be positive, got %d/%d", trainSize, testSize)
	}

	report := WalkForwardReport{
		Windows:    []Window{},
		BestParams: []map[string]float64{},
	}

	for i := 0; i < len(series)-trainSize-testSize; i += testSize {
		if err := ctx.Err(); err != nil {
			return WalkForwardReport{}, fmt.Errorf("walk-forward cancelled: %w", err)
		}

		w := Window{Start: i, End: i + trainSize + testSize}

		train := series.Slice(i, i+trainSize)
		test := series.Slice(i+trainSize, i+trainSize+testSize)

		trainReport, err := o.GridSearch(ctx, base, train, grid, symbol)
		if err != nil {
			return WalkForwardReport{}, err
		}
		if trainReport.Best.Params == nil {
			w.Err = "no combination succeeded on training window"
			report.Windows = append(report.Windows, w)
			continue
		}

		w.BestParams = trainReport.Best.Params
		report.BestParams = append(report.BestParams, w.BestParams)

		merged, err := mergeParams(base, w.BestParams)
		if err != nil {
			w.Err = err.Error()
			report.Windows = append(report.Windows, w)
			continue
		}

		engine := backtest.NewEngine(o.initialCapital)
		res, err := engine.Run(merged, test, symbol)
		if err != nil {
			w.Err = err.Error()
			report.Windows = append(report.Windows, w)
			continue
		}

		w.TestMetrics = res.Metrics
		report.Windows = append(report.Windows, w)

		o.log.Info("walk-forward window done",
			"start", w.Start, "end", w.End,
			"test_return", res.Metrics.TotalReturn)
	}

	return report, nil
}

func mergeParams(base strategies.Params, params map[string]float64) (strategies.Params, error) {
	for name, value := range params {
		if err := base.Set(name, value); err != nil {
			return strategies.Params{}, err
		}
	}
	return base, nil
}
