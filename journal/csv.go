package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/gxquant/screener/market"
)

// CSVJournal writes trades and snapshots to two CSV files. Run summaries
// are not persisted on this backend.
type CSVJournal struct {
	trades    *csv.Writer
	snapshots *csv.Writer
	tf, sf    *os.File
}

func NewCSV(tradesPath, snapshotsPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(snapshotsPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	sw := csv.NewWriter(sf)

	if err := tw.Write([]string{"run_id", "symbol", "action", "quantity", "price", "commission", "time"}); err != nil {
		return nil, err
	}
	if err := sw.Write([]string{"run_id", "time", "value"}); err != nil {
		return nil, err
	}
	tw.Flush()
	sw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	if err := sw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{trades: tw, snapshots: sw, tf: tf, sf: sf}, nil
}

// RecordRun is a no-op on the CSV backend.
func (j *CSVJournal) RecordRun(RunRecord) error { return nil }

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	j.trades.Write([]string{
		t.RunID,
		t.Symbol,
		string(t.Action),
		strconv.FormatInt(t.Quantity, 10),
		f(t.Price),
		f(t.Commission),
		t.Time.Format(time.RFC3339),
	})
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordSnapshot(s SnapshotRecord) error {
	j.snapshots.Write([]string{
		s.RunID,
		s.Time.Format(time.RFC3339),
		f(s.Value),
	})
	j.snapshots.Flush()
	return j.snapshots.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	j.snapshots.Flush()
	if err := j.tf.Close(); err != nil {
		j.sf.Close()
		return err
	}
	return j.sf.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func marketAction(s string) market.Action {
	if s == string(market.Sell) {
		return market.Sell
	}
	return market.Buy
}
