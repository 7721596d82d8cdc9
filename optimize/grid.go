// Package optimize grid-searches strategy parameters by repeatedly running
// backtests, and supports walk-forward (rolling train/test) evaluation.
package optimize

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gxquant/screener/backtest"
	"github.com/gxquant/screener/market"
	"github.com/gxquant/screener/strategies"
)

// Dimension is one searchable parameter and its candidate values.
type Dimension struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
}

// Grid is an ordered parameter grid. The search enumerates the full
// Cartesian product with the first dimension varying slowest, so results
// are reproducible for identical input.
type Grid []Dimension

// Size returns the number of combinations in the grid (zero when the grid
// is empty or any dimension has no candidates).
func (g Grid) Size() int {
	if len(g) == 0 {
		return 0
	}
	n := 1
	for _, d := range g {
		n *= len(d.Values)
	}
	return n
}

// assignment returns the i-th combination in enumeration order.
func (g Grid) assignment(i int) map[string]float64 {
	out := make(map[string]float64, len(g))
	stride := g.Size()
	for _, d := range g {
		stride /= len(d.Values)
		out[d.Name] = d.Values[(i/stride)%len(d.Values)]
	}
	return out
}

// Outcome is the result of evaluating one parameter combination. A failed
// combination carries its error and zero metrics; it never aborts the
// rest of the search.
type Outcome struct {
	Params     map[string]float64 `json:"params"`
	Metrics    backtest.Metrics   `json:"metrics"`
	TradeCount int                `json:"trades_count"`
	Err        string             `json:"error,omitempty"`
}

// Report is the outcome of one grid search. Best is the zero value when
// no combination succeeded; callers must handle that explicitly.
type Report struct {
	Combinations int       `json:"combinations_tested"`
	Results      []Outcome `json:"results"`
	Best         Outcome   `json:"best"`
}

// Optimizer runs grid searches. Runs are independent, so the outer
// parameter loop is fanned out over Workers goroutines, one engine per
// worker. Result order stays the deterministic enumeration order.
type Optimizer struct {
	initialCapital float64
	workers        int
	log            *slog.Logger
}

func NewOptimizer(initialCapital float64) *Optimizer {
	return &Optimizer{
		initialCapital: initialCapital,
		workers:        1,
		log:            slog.Default(),
	}
}

// SetWorkers sets the parallelism of the combination loop.
func (o *Optimizer) SetWorkers(n int) {
	if n > 0 {
		o.workers = n
	}
}

// SetLogger overrides the default logger.
func (o *Optimizer) SetLogger(l *slog.Logger) {
	if l != nil {
		o.log = l
	}
}

// GridSearch evaluates every combination of the grid merged onto the base
// parameters, each through a fresh backtest over the series. The context
// cancels the remaining combinations of a long search.
func (o *Optimizer) GridSearch(ctx context.Context, base strategies.Params, series market.Series, grid Grid, symbol string) (Report, error) {
	total := grid.Size()
	if total == 0 || len(series) == 0 {
		return Report{Results: []Outcome{}}, nil
	}

	o.log.Info("grid search started", "symbol", symbol, "combinations", total)

	results := make([]Outcome, total)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engine := backtest.NewEngine(o.initialCapital)
			for i := range jobs {
				results[i] = o.evaluate(engine, base, series, grid.assignment(i), symbol)
			}
		}()
	}

	var ctxErr error
feed:
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break feed
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if ctxErr != nil {
		return Report{}, fmt.Errorf("grid search cancelled: %w", ctxErr)
	}

	return Report{
		Combinations: total,
		Results:      results,
		Best:         findBest(results),
	}, nil
}

func (o *Optimizer) evaluate(engine *backtest.Engine, base strategies.Params, series market.Series, params map[string]float64, symbol string) Outcome {
	out := Outcome{Params: params}

	merged := base
	for name, value := range params {
		if err := merged.Set(name, value); err != nil {
			out.Err = err.Error()
			return out
		}
	}

	res, err := engine.Run(merged, series, symbol)
	if err != nil {
		out.Err = err.Error()
		return out
	}

	out.Metrics = res.Metrics
	out.TradeCount = len(res.Trades)
	return out
}

// findBest picks the successful outcome with the highest Sharpe ratio.
// Ties keep the earliest combination in enumeration order.
func findBest(results []Outcome) Outcome {
	var best Outcome
	have := false
	for _, r := range results {
		if r.Err != "" {
			continue
		}
		if !have || r.Metrics.SharpeRatio > best.Metrics.SharpeRatio {
			best = r
			have = true
		}
	}
	return best
}
