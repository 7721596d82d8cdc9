package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBarValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Bar{Close: 10}.Valid())
	assert.False(t, Bar{Close: 0}.Valid())
	assert.False(t, Bar{Close: -1}.Valid())
}

func TestSeriesSliceClamps(t *testing.T) {
	t.Parallel()

	s := Series{{Close: 1}, {Close: 2}, {Close: 3}}

	assert.Len(t, s.Slice(0, 2), 2)
	assert.Len(t, s.Slice(-5, 100), 3)
	assert.Empty(t, s.Slice(2, 1))
	assert.Empty(t, s.Slice(3, 3))
	assert.InDelta(t, 2.0, s.Slice(1, 2)[0].Close, 1e-9)
}

func TestSeriesCloses(t *testing.T) {
	t.Parallel()

	s := Series{{Close: 1.5}, {Close: 2.5}}
	assert.Equal(t, []float64{1.5, 2.5}, s.Closes())
	assert.Empty(t, Series{}.Closes())
}

func TestSeriesLast(t *testing.T) {
	t.Parallel()

	_, ok := Series{}.Last()
	assert.False(t, ok)

	now := time.Now()
	last, ok := Series{{Close: 1}, {Time: now, Close: 2}}.Last()
	assert.True(t, ok)
	assert.InDelta(t, 2.0, last.Close, 1e-9)
	assert.Equal(t, now, last.Time)
}
