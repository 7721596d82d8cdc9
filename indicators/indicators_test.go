package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gxquant/screener/market"
)

func feed(ind Indicator, closes ...float64) {
	for _, c := range closes {
		ind.Update(market.Bar{Close: c})
	}
}

func TestSMAStreaming(t *testing.T) {
	t.Parallel()

	m := NewSMA(3)
	assert.Equal(t, 3, m.Warmup())
	assert.False(t, m.Ready())
	assert.Zero(t, m.Value())

	feed(m, 1, 2)
	assert.False(t, m.Ready())

	feed(m, 3)
	assert.True(t, m.Ready())
	assert.InDelta(t, 2.0, m.Value(), 1e-9)

	// The window slides: (2+3+10)/3.
	feed(m, 10)
	assert.InDelta(t, 5.0, m.Value(), 1e-9)

	m.Reset()
	assert.False(t, m.Ready())
	assert.Zero(t, m.Value())
}

func TestEMASeedsWithSMA(t *testing.T) {
	t.Parallel()

	m := NewEMA(3)
	feed(m, 1, 2)
	assert.False(t, m.Ready())

	feed(m, 3)
	assert.True(t, m.Ready())
	// Seed is the SMA of the first three closes.
	assert.InDelta(t, 2.0, m.Value(), 1e-9)

	// Multiplier 2/(3+1) = 0.5: (6-2)*0.5 + 2 = 4.
	feed(m, 6)
	assert.InDelta(t, 4.0, m.Value(), 1e-9)

	m.Reset()
	assert.False(t, m.Ready())
}

func TestRSIWilder(t *testing.T) {
	t.Parallel()

	r := NewRSI(3)
	assert.Equal(t, 4, r.Warmup())

	// First bar only sets the previous close.
	feed(r, 100)
	assert.False(t, r.Ready())

	// All gains: RSI pegs at 100.
	feed(r, 101, 102, 103)
	assert.True(t, r.Ready())
	assert.InDelta(t, 100, r.Value(), 1e-9)

	// A loss pulls it off the peg but it stays in (0, 100).
	feed(r, 101)
	v := r.Value()
	assert.Greater(t, v, 0.0)
	assert.Less(t, v, 100.0)

	r.Reset()
	assert.False(t, r.Ready())
	assert.Zero(t, r.Value())
}

func TestRSIAllLosses(t *testing.T) {
	t.Parallel()

	r := NewRSI(3)
	feed(r, 100, 99, 98, 97)
	assert.True(t, r.Ready())
	assert.InDelta(t, 0, r.Value(), 1e-9)
}

func TestRSIBalanced(t *testing.T) {
	t.Parallel()

	// Equal total gains and losses over the seed window: RS = 1, RSI = 50.
	r := NewRSI(2)
	feed(r, 100, 102, 100)
	assert.True(t, r.Ready())
	assert.InDelta(t, 50, r.Value(), 1e-9)
}

func TestMeanClose(t *testing.T) {
	t.Parallel()

	s := market.Series{
		{Close: 1}, {Close: 2}, {Close: 3}, {Close: 4},
	}

	got, err := MeanClose(s, 2)
	assert.NoError(t, err)
	assert.InDelta(t, 3.5, got, 1e-9)

	got, err = MeanClose(s, 4)
	assert.NoError(t, err)
	assert.InDelta(t, 2.5, got, 1e-9)

	_, err = MeanClose(s, 5)
	assert.Error(t, err)

	_, err = MeanClose(s, 0)
	assert.Error(t, err)
}
