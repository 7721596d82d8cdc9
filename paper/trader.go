// Package paper simulates live trading: a resting-order book filled
// against streamed prices, with cash and position bookkeeping and a risk
// check in front of every submission.
package paper

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gxquant/screener/market"
	"github.com/gxquant/screener/pkg/id"
	"github.com/gxquant/screener/risk"
)

// CommissionRate is charged on every paper fill (0.03% of notional).
// The historical backtest path deliberately charges none.
const CommissionRate = 0.0003

// Submission is the immediate result of SubmitOrder. A rejected
// submission carries no order ID because no order was created.
type Submission struct {
	OrderID string      `json:"order_id"`
	Status  OrderStatus `json:"status"`
	Reason  string      `json:"reason,omitempty"`
}

// Status is a point-in-time account summary at the supplied quotes.
type Status struct {
	Cash           float64                       `json:"cash"`
	Positions      map[string]risk.PaperPosition `json:"positions"`
	PendingOrders  int                           `json:"pending_orders"`
	PortfolioValue float64                       `json:"portfolio_value"`
	TotalReturn    float64                       `json:"total_return"`
	TradeCount     int                           `json:"trade_count"`
}

// Trader maintains live cash and the order book. Positions live in the
// risk controller's ledger; the trader reads and writes through it so
// the two views never diverge. Not safe for concurrent use: one trader
// per session.
type Trader struct {
	initialCapital float64
	cash           float64

	controller *risk.Controller
	ledger     *risk.Ledger

	orders []*Order
	byID   map[string]*Order
	fills  []Fill

	now func() time.Time
	log *slog.Logger
}

// NewTrader builds a trader over the controller's ledger.
func NewTrader(initialCapital float64, controller *risk.Controller) *Trader {
	return &Trader{
		initialCapital: initialCapital,
		cash:           initialCapital,
		controller:     controller,
		ledger:         controller.Ledger(),
		byID:           make(map[string]*Order),
		now:            time.Now,
		log:            slog.Default(),
	}
}

// SetLogger overrides the default logger.
func (t *Trader) SetLogger(l *slog.Logger) {
	if l != nil {
		t.log = l
	}
}

// SetClock overrides the time source (tests).
func (t *Trader) SetClock(now func() time.Time) {
	if now != nil {
		t.now = now
	}
}

// SubmitOrder risk-checks the request and, when allowed, adds a pending
// order to the book. A rejection short-circuits before any order object
// exists, so the book only ever holds accepted orders.
func (t *Trader) SubmitOrder(symbol string, action market.Action, quantity int64, price float64, orderType OrderType) Submission {
	decision := t.controller.CheckRisk(symbol, action, quantity, price)
	if !decision.Allowed {
		t.log.Warn("order rejected", "symbol", symbol, "reason", decision.Reason)
		return Submission{Status: Rejected, Reason: decision.Reason}
	}

	order := &Order{
		ID:        id.New(),
		Symbol:    symbol,
		Action:    action,
		Quantity:  quantity,
		Price:     price,
		Type:      orderType,
		Status:    Pending,
		CreatedAt: t.now(),
	}
	t.orders = append(t.orders, order)
	t.byID[order.ID] = order

	t.log.Info("order submitted",
		"order_id", order.ID, "symbol", symbol,
		"action", action, "quantity", quantity, "price", price)

	return Submission{OrderID: order.ID, Status: Pending}
}

// CancelOrder cancels a pending order. Any other state is an error.
func (t *Trader) CancelOrder(orderID string) error {
	order, ok := t.byID[orderID]
	if !ok {
		return fmt.Errorf("cancel order: %q not found", orderID)
	}
	if order.Status != Pending {
		return fmt.Errorf("cancel order: %q is %s, not pending", orderID, order.Status)
	}
	order.Status = Cancelled
	return nil
}

// ExecuteOrders sweeps the book against the supplied quotes. Market
// orders always fill; limit orders fill when the price crosses. The fill
// price is always the current market price, never the limit price.
// Orders whose symbol has no quote stay pending.
func (t *Trader) ExecuteOrders(currentPrices map[string]float64) {
	for _, order := range t.orders {
		if order.Status != Pending {
			continue
		}
		current, ok := currentPrices[order.Symbol]
		if !ok {
			continue
		}
		if order.crosses(current) {
			t.fill(order, current)
		}
	}
}

// fill executes one order atomically: status flips to filled, commission
// is charged, cash moves, and the shared ledger is updated exactly once
// through the risk controller.
func (t *Trader) fill(order *Order, fillPrice float64) {
	order.Status = Filled
	order.FilledAt = t.now()

	notional := fillPrice * float64(order.Quantity)
	commission := notional * CommissionRate

	t.fills = append(t.fills, Fill{
		OrderID:    order.ID,
		Symbol:     order.Symbol,
		Action:     order.Action,
		Quantity:   order.Quantity,
		Price:      fillPrice,
		Commission: commission,
		Time:       order.FilledAt,
	})

	if order.Action == market.Buy {
		t.cash -= notional + commission
	} else {
		t.cash += notional - commission
	}

	t.controller.UpdatePosition(order.Symbol, order.Action, order.Quantity, fillPrice)

	t.log.Info("order filled",
		"order_id", order.ID, "symbol", order.Symbol,
		"price", fillPrice, "commission", commission)
}

// Order returns the order with the given ID.
func (t *Trader) Order(orderID string) (*Order, bool) {
	o, ok := t.byID[orderID]
	return o, ok
}

// Cash returns current cash.
func (t *Trader) Cash() float64 { return t.cash }

// Fills returns the executed trade log.
func (t *Trader) Fills() []Fill { return t.fills }

// PortfolioValue marks cash plus positions at the supplied quotes.
func (t *Trader) PortfolioValue(currentPrices map[string]float64) float64 {
	return t.cash + t.ledger.MarketValue(currentPrices)
}

// Status summarizes the session at the supplied quotes.
func (t *Trader) Status(currentPrices map[string]float64) Status {
	pending := 0
	for _, o := range t.orders {
		if o.Status == Pending {
			pending++
		}
	}

	value := t.PortfolioValue(currentPrices)
	return Status{
		Cash:           t.cash,
		Positions:      t.ledger.Positions(),
		PendingOrders:  pending,
		PortfolioValue: value,
		TotalReturn:    (value - t.initialCapital) / t.initialCapital,
		TradeCount:     len(t.fills),
	}
}
