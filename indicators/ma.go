package indicators

import (
	"fmt"

	"github.com/gxquant/screener/market"
)

// SMA is a streaming Simple Moving Average over close prices.
type SMA struct {
	period int
	window []float64
	sum    float64
}

func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
		window: make([]float64, 0, period),
	}
}

func (m *SMA) Name() string { return fmt.Sprintf("SMA(%d)", m.period) }
func (m *SMA) Warmup() int  { return m.period }

func (m *SMA) Reset() {
	m.window = m.window[:0]
	m.sum = 0
}

func (m *SMA) Update(b market.Bar) {
	m.window = append(m.window, b.Close)
	m.sum += b.Close
	if len(m.window) > m.period {
		m.sum -= m.window[0]
		m.window = m.window[1:]
	}
}

func (m *SMA) Ready() bool { return len(m.window) >= m.period }

func (m *SMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.sum / float64(len(m.window))
}

// EMA is a streaming Exponential Moving Average over close prices.
// It seeds with an SMA over the first period bars.
type EMA struct {
	period int
	mult   float64
	seen   int
	seed   float64
	value  float64
}

func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		mult:   2.0 / float64(period+1),
	}
}

func (m *EMA) Name() string { return fmt.Sprintf("EMA(%d)", m.period) }
func (m *EMA) Warmup() int  { return m.period }

func (m *EMA) Reset() {
	m.seen = 0
	m.seed = 0
	m.value = 0
}

func (m *EMA) Update(b market.Bar) {
	m.seen++
	if m.seen <= m.period {
		m.seed += b.Close
		if m.seen == m.period {
			m.value = m.seed / float64(m.period)
		}
		return
	}
	m.value = (b.Close-m.value)*m.mult + m.value
}

func (m *EMA) Ready() bool { return m.seen >= m.period }

func (m *EMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.value
}

// MeanClose returns the simple average of the last period closes of a
// series. It is the batch counterpart of SMA for one-shot callers.
func MeanClose(s market.Series, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(s) < period {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period, len(s))
	}
	sum := 0.0
	for i := len(s) - period; i < len(s); i++ {
		sum += s[i].Close
	}
	return sum / float64(period), nil
}
