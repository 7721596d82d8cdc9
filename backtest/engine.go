// Package backtest replays a bar series against a strategy's entry/exit
// rules, producing a trade log, a portfolio-value curve, and performance
// metrics.
package backtest

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gxquant/screener/market"
	"github.com/gxquant/screener/strategies"
)

// PositionType classifies an open position.
type PositionType string

const (
	Long  PositionType = "long"
	Short PositionType = "short"
	Cash  PositionType = "cash"
)

// Trade is one executed buy or sell in the historical trade log.
// The historical path charges zero commission; the paper-trading path
// does not. The asymmetry is deliberate.
type Trade struct {
	Time       time.Time     `json:"timestamp"`
	Action     market.Action `json:"action"`
	Price      float64       `json:"price"`
	Quantity   int64         `json:"quantity"`
	Commission float64       `json:"commission"`
}

// Position is the single open position of a run. The engine holds at most
// one at a time.
type Position struct {
	Symbol     string        `json:"symbol"`
	Type       PositionType  `json:"type"`
	Quantity   int64         `json:"quantity"`
	EntryPrice float64       `json:"entry_price"`
	EntryTime  time.Time     `json:"entry_time"`
	StopLoss   float64       `json:"stop_loss_pct"`
	TakeProfit float64       `json:"take_profit_pct"`
}

// Snapshot is one portfolio-value observation, appended once per
// processed bar.
type Snapshot struct {
	Time  time.Time `json:"timestamp"`
	Value float64   `json:"total_value"`
}

// Result is the outcome of one engine run.
type Result struct {
	Trades  []Trade    `json:"trades"`
	Curve   []Snapshot `json:"portfolio_curve"`
	Metrics Metrics    `json:"metrics"`
}

// Engine runs event-driven backtests over a bar series. State is reset at
// the start of every Run, so one instance may be reused for sequential
// runs. It is not safe for concurrent use; give each goroutine its own.
type Engine struct {
	initialCapital float64
	log            *slog.Logger

	cash   float64
	pos    *Position
	trades []Trade
	curve  []Snapshot
}

func NewEngine(initialCapital float64) *Engine {
	return &Engine{
		initialCapital: initialCapital,
		log:            slog.Default(),
		cash:           initialCapital,
	}
}

// SetLogger overrides the default logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l != nil {
		e.log = l
	}
}

func (e *Engine) reset() {
	e.cash = e.initialCapital
	e.pos = nil
	e.trades = nil
	e.curve = nil
}

// Run replays the series against the strategy parameters.
//
// Per bar: invalid bars (close <= 0) are skipped with no state change;
// the entry rule is consulted only when flat; an open position is checked
// once against its stop/take levels and exits at the bar close; exactly
// one snapshot (cash + mark-to-market position value) is appended.
// A position still open at the end of the series is not force-closed.
func (e *Engine) Run(p strategies.Params, series market.Series, symbol string) (Result, error) {
	e.reset()

	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return Result{}, fmt.Errorf("backtest: %w", err)
	}

	rule, err := strategies.NewEntryRule(p)
	if err != nil {
		return Result{}, fmt.Errorf("backtest: %w", err)
	}
	rule.Reset()

	for _, bar := range series {
		if !bar.Valid() {
			continue
		}

		rule.Update(bar)

		if e.pos == nil {
			if rule.Enter() {
				e.enter(symbol, bar, p)
			}
		} else if exitSignal(e.pos, bar.Close) {
			e.exit(bar)
		}

		value := e.cash
		if e.pos != nil {
			value += float64(e.pos.Quantity) * bar.Close
		}
		e.curve = append(e.curve, Snapshot{Time: bar.Time, Value: value})
	}

	res := Result{
		Trades:  e.trades,
		Curve:   e.curve,
		Metrics: ComputeMetrics(e.initialCapital, e.curve, e.trades),
	}
	if res.Trades == nil {
		res.Trades = []Trade{}
	}
	if res.Curve == nil {
		res.Curve = []Snapshot{}
	}
	return res, nil
}

func (e *Engine) enter(symbol string, bar market.Bar, p strategies.Params) {
	// Half the available cash per entry, floored to whole shares.
	quantity := int64(e.cash * 0.5 / bar.Close)
	if quantity <= 0 {
		return
	}

	e.trades = append(e.trades, Trade{
		Time:     bar.Time,
		Action:   market.Buy,
		Price:    bar.Close,
		Quantity: quantity,
	})
	e.cash -= bar.Close * float64(quantity)

	e.pos = &Position{
		Symbol:     symbol,
		Type:       Long,
		Quantity:   quantity,
		EntryPrice: bar.Close,
		EntryTime:  bar.Time,
		StopLoss:   p.StopLoss,
		TakeProfit: p.TakeProfit,
	}

	e.log.Debug("entered position",
		"symbol", symbol, "price", bar.Close, "quantity", quantity)
}

func (e *Engine) exit(bar market.Bar) {
	pos := e.pos

	e.trades = append(e.trades, Trade{
		Time:     bar.Time,
		Action:   market.Sell,
		Price:    bar.Close,
		Quantity: pos.Quantity,
	})
	e.cash += bar.Close * float64(pos.Quantity)
	e.pos = nil

	e.log.Debug("exited position",
		"symbol", pos.Symbol, "price", bar.Close, "quantity", pos.Quantity)
}

// exitSignal checks the close against the position's fractional stop/take
// levels. First satisfied condition wins; fills happen at the bar close.
func exitSignal(pos *Position, close float64) bool {
	if pos.StopLoss > 0 && close <= pos.EntryPrice*(1-pos.StopLoss) {
		return true
	}
	if pos.TakeProfit > 0 && close >= pos.EntryPrice*(1+pos.TakeProfit) {
		return true
	}
	return false
}
