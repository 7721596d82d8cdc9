package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gxquant/screener/market"
)

func newTestController() *Controller {
	return NewController(100_000, DefaultLimits(), nil)
}

func TestCheckRiskAllowsWithinLimits(t *testing.T) {
	t.Parallel()

	c := newTestController()
	d := c.CheckRisk("SH600000", market.Buy, 100, 100)
	assert.True(t, d.Allowed)
	assert.Equal(t, Low, d.Level)
	assert.Empty(t, d.Reason)
}

func TestCheckRiskExposureRejection(t *testing.T) {
	t.Parallel()

	c := newTestController()
	// Existing exposure 24% of 100k capital.
	c.UpdatePosition("SH600000", market.Buy, 240, 100)

	// Another 2k would push aggregate exposure to 26% > 25%.
	d := c.CheckRisk("SZ000001", market.Buy, 20, 100)
	assert.False(t, d.Allowed)
	assert.Equal(t, High, d.Level)
	assert.Contains(t, d.Reason, "exposure")
}

func TestCheckRiskIsPure(t *testing.T) {
	t.Parallel()

	c := newTestController()
	c.UpdatePosition("SH600000", market.Buy, 240, 100)

	first := c.CheckRisk("SZ000001", market.Buy, 20, 100)
	second := c.CheckRisk("SZ000001", market.Buy, 20, 100)
	assert.Equal(t, first, second)
	assert.InDelta(t, 24_000, c.Ledger().Exposure(), 1e-9)
}

func TestCheckRiskDailyLossCircuitBreaker(t *testing.T) {
	t.Parallel()

	c := newTestController()
	c.RecordPnL(-6_000) // beyond 5% of ~94k remaining capital

	d := c.CheckRisk("SH600000", market.Buy, 1, 100)
	assert.False(t, d.Allowed)
	assert.Equal(t, Critical, d.Level)
	assert.Contains(t, d.Reason, "daily loss")

	// Resetting the daily tally lifts the breaker; the total loss is
	// still well under 20%.
	c.ResetDaily()
	d = c.CheckRisk("SH600000", market.Buy, 1, 100)
	assert.True(t, d.Allowed)
}

func TestCheckRiskTotalLossCircuitBreaker(t *testing.T) {
	t.Parallel()

	c := newTestController()
	c.RecordPnL(-20_000)
	c.ResetDaily()

	d := c.CheckRisk("SH600000", market.Buy, 1, 100)
	assert.False(t, d.Allowed)
	assert.Equal(t, Critical, d.Level)
	assert.Contains(t, d.Reason, "total loss")
}

func TestCheckRiskSellIgnoresBuyValue(t *testing.T) {
	t.Parallel()

	c := newTestController()
	c.UpdatePosition("SH600000", market.Buy, 240, 100)

	// A sell adds no exposure, so it passes where the same-size buy
	// would not.
	d := c.CheckRisk("SH600000", market.Sell, 240, 100)
	assert.True(t, d.Allowed)
}

func TestRecordPnLTracksCapital(t *testing.T) {
	t.Parallel()

	c := newTestController()
	c.RecordPnL(1_500)
	c.RecordPnL(-500)
	assert.InDelta(t, 101_000, c.CurrentCapital(), 1e-9)
}

func TestRiskReportLevels(t *testing.T) {
	t.Parallel()

	t.Run("low when healthy", func(t *testing.T) {
		t.Parallel()
		c := newTestController()
		r := c.RiskReport()
		assert.Equal(t, Low, r.Level)
		assert.Zero(t, r.CurrentDrawdown)
	})

	t.Run("medium on high exposure", func(t *testing.T) {
		t.Parallel()
		c := newTestController()
		// 21% exposure >= 0.8 * 25% cap.
		c.UpdatePosition("SH600000", market.Buy, 210, 100)
		r := c.RiskReport()
		assert.Equal(t, Medium, r.Level)
		assert.InDelta(t, 0.21, r.ExposurePct, 1e-9)
		assert.Equal(t, 1, r.PositionsCount)
	})

	t.Run("high approaching drawdown limit", func(t *testing.T) {
		t.Parallel()
		c := newTestController()
		c.RecordPnL(-11_000) // 11% drawdown >= 0.7 * 15%
		r := c.RiskReport()
		assert.Equal(t, High, r.Level)
		assert.InDelta(t, 0.11, r.CurrentDrawdown, 1e-9)
	})

	t.Run("critical at drawdown limit", func(t *testing.T) {
		t.Parallel()
		c := newTestController()
		c.RecordPnL(-15_000)
		r := c.RiskReport()
		assert.Equal(t, Critical, r.Level)
	})
}
