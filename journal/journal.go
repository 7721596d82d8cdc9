// Package journal persists backtest runs: the run summary, its trade log,
// and its portfolio-value curve.
package journal

import (
	"time"

	"github.com/gxquant/screener/market"
)

// RunRecord summarizes one backtest run.
type RunRecord struct {
	RunID    string
	Created  time.Time
	Symbol   string
	Entry    string
	StopLoss float64
	TakeProfit float64

	InitialCapital float64
	FinalValue     float64
	TotalReturn    float64
	TotalTrades    int
	WinRate        float64
	MaxDrawdown    float64
	SharpeRatio    float64
}

// TradeRecord is one executed trade of a run.
type TradeRecord struct {
	RunID      string
	Symbol     string
	Action     market.Action
	Quantity   int64
	Price      float64
	Commission float64
	Time       time.Time
}

// SnapshotRecord is one portfolio-value observation of a run.
type SnapshotRecord struct {
	RunID string
	Time  time.Time
	Value float64
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordTrade(TradeRecord) error
	RecordSnapshot(SnapshotRecord) error
	Close() error
}
