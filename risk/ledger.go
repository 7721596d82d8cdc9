package risk

import "github.com/gxquant/screener/market"

// PaperPosition is one live holding: share count and weighted-average
// entry price.
type PaperPosition struct {
	Quantity int64   `json:"quantity"`
	AvgPrice float64 `json:"avg_price"`
}

// Ledger is the single owned position book. The paper trader and the risk
// controller both read and write through the same instance, so the two
// never diverge.
type Ledger struct {
	positions map[string]PaperPosition
}

func NewLedger() *Ledger {
	return &Ledger{positions: make(map[string]PaperPosition)}
}

// Get returns the position for a symbol; the zero value when flat.
func (l *Ledger) Get(symbol string) PaperPosition {
	return l.positions[symbol]
}

// Apply books one fill. Buys recompute the weighted-average entry price;
// sells decrement and delete the entry once quantity reaches zero.
func (l *Ledger) Apply(symbol string, action market.Action, quantity int64, price float64) {
	pos := l.positions[symbol]

	switch action {
	case market.Buy:
		totalValue := float64(pos.Quantity)*pos.AvgPrice + float64(quantity)*price
		totalQty := pos.Quantity + quantity
		if totalQty > 0 {
			pos.AvgPrice = totalValue / float64(totalQty)
		} else {
			pos.AvgPrice = 0
		}
		pos.Quantity = totalQty
		l.positions[symbol] = pos

	case market.Sell:
		pos.Quantity -= quantity
		if pos.Quantity <= 0 {
			delete(l.positions, symbol)
			return
		}
		l.positions[symbol] = pos
	}
}

// Value returns the notional value of one symbol's position at its
// average entry price.
func (l *Ledger) Value(symbol string) float64 {
	pos := l.positions[symbol]
	return float64(pos.Quantity) * pos.AvgPrice
}

// Exposure returns the total notional value across all positions.
func (l *Ledger) Exposure() float64 {
	total := 0.0
	for _, pos := range l.positions {
		total += float64(pos.Quantity) * pos.AvgPrice
	}
	return total
}

// MarketValue returns the total position value marked at the supplied
// quotes. Symbols without a quote contribute zero.
func (l *Ledger) MarketValue(prices map[string]float64) float64 {
	total := 0.0
	for symbol, pos := range l.positions {
		total += float64(pos.Quantity) * prices[symbol]
	}
	return total
}

// Len returns the number of open positions.
func (l *Ledger) Len() int { return len(l.positions) }

// Positions returns a copy of the book.
func (l *Ledger) Positions() map[string]PaperPosition {
	out := make(map[string]PaperPosition, len(l.positions))
	for symbol, pos := range l.positions {
		out[symbol] = pos
	}
	return out
}
