package risk

// assumedStopPct is the stop distance the fractional-risk sizing rule
// assumes when no explicit stop is supplied.
const assumedStopPct = 0.05

// Sizing is the result of the position-size calculation. Quantity is zero
// with Reason set when capital is insufficient.
type Sizing struct {
	Symbol         string  `json:"symbol"`
	Quantity       int64   `json:"quantity"`
	Price          float64 `json:"price,omitempty"`
	EstimatedValue float64 `json:"estimated_value,omitempty"`
	RiskAmount     float64 `json:"risk_amount,omitempty"`
	RiskPct        float64 `json:"risk_pct,omitempty"`
	Reason         string  `json:"reason,omitempty"`
}

// PositionSize computes a share count from a fixed fractional-risk rule:
// risk riskPerTrade of capital against a 5% stop, then clamp to the
// position-percentage cap and to available cash. It is independent of
// CheckRisk and has no side effects.
func (c *Controller) PositionSize(symbol string, price float64, riskPerTrade float64) Sizing {
	if price <= 0 {
		return Sizing{Symbol: symbol, Reason: "non-positive price"}
	}
	if riskPerTrade <= 0 {
		riskPerTrade = 0.02
	}

	available := c.currentCapital - c.ledger.Exposure()
	if available < 0 {
		available = 0
	}

	riskAmount := c.currentCapital * riskPerTrade
	riskPerShare := price * assumedStopPct

	quantity := int64(riskAmount / riskPerShare)

	// Cap at the single-position percentage limit.
	if maxQty := int64(c.currentCapital * c.limits.MaxPositionPct / price); quantity > maxQty {
		quantity = maxQty
	}

	// Cap at available cash.
	if maxQty := int64(available / price); quantity > maxQty {
		quantity = maxQty
	}

	if quantity <= 0 {
		return Sizing{Symbol: symbol, Reason: "insufficient capital"}
	}

	value := float64(quantity) * price
	return Sizing{
		Symbol:         symbol,
		Quantity:       quantity,
		Price:          price,
		EstimatedValue: value,
		RiskAmount:     value * assumedStopPct,
		RiskPct:        value / c.currentCapital,
	}
}
