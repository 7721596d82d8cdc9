package paper

import (
	"time"

	"github.com/gxquant/screener/market"
)

// OrderType distinguishes marketable from resting orders.
type OrderType string

const (
	Limit  OrderType = "limit"
	Market OrderType = "market"
)

// OrderStatus is the order lifecycle state. Pending is the only
// non-terminal state; a terminal order is never retried.
type OrderStatus string

const (
	Pending   OrderStatus = "pending"
	Filled    OrderStatus = "filled"
	Cancelled OrderStatus = "cancelled"
	Rejected  OrderStatus = "rejected"
)

// Order is one resting or executed paper order.
type Order struct {
	ID        string        `json:"order_id"`
	Symbol    string        `json:"symbol"`
	Action    market.Action `json:"action"`
	Quantity  int64         `json:"quantity"`
	Price     float64       `json:"price"`
	Type      OrderType     `json:"order_type"`
	Status    OrderStatus   `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	FilledAt  time.Time     `json:"filled_at,omitempty"`
}

// Fill is one executed trade on the paper path, commission included.
type Fill struct {
	OrderID    string        `json:"order_id"`
	Symbol     string        `json:"symbol"`
	Action     market.Action `json:"action"`
	Quantity   int64         `json:"quantity"`
	Price      float64       `json:"price"`
	Commission float64       `json:"commission"`
	Time       time.Time     `json:"created_at"`
}

// crosses reports whether a pending order is executable at the current
// market price. Market orders always execute; a limit buy needs the
// market at or below its limit, a limit sell at or above.
func (o *Order) crosses(current float64) bool {
	if o.Type == Market {
		return true
	}
	if o.Action == market.Buy {
		return current <= o.Price
	}
	return current >= o.Price
}
