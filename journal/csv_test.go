package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gxquant/screener/market"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	assert.NoError(t, err)
	return rows
}

func TestCSVJournalWritesHeadersAndRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	snapshotsPath := filepath.Join(dir, "snapshots.csv")

	j, err := NewCSV(tradesPath, snapshotsPath)
	assert.NoError(t, err)

	t0 := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, j.RecordTrade(TradeRecord{
		RunID:    "run-1",
		Symbol:   "SH600000",
		Action:   market.Buy,
		Quantity: 500,
		Price:    100,
		Time:     t0,
	}))
	assert.NoError(t, j.RecordSnapshot(SnapshotRecord{
		RunID: "run-1",
		Time:  t0,
		Value: 100_000,
	}))
	// Run summaries are a no-op on this backend.
	assert.NoError(t, j.RecordRun(RunRecord{RunID: "run-1"}))
	assert.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	assert.Len(t, trades, 2)
	assert.Equal(t, []string{"run_id", "symbol", "action", "quantity", "price", "commission", "time"}, trades[0])
	assert.Equal(t, []string{"run-1", "SH600000", "buy", "500", "100", "0", "2024-01-02T10:00:00Z"}, trades[1])

	snapshots := readCSV(t, snapshotsPath)
	assert.Len(t, snapshots, 2)
	assert.Equal(t, []string{"run_id", "time", "value"}, snapshots[0])
	assert.Equal(t, []string{"run-1", "2024-01-02T10:00:00Z", "100000"}, snapshots[1])
}

func TestCSVJournalCreateFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := NewCSV(filepath.Join(dir, "missing", "trades.csv"), filepath.Join(dir, "snapshots.csv"))
	assert.Error(t, err)
}
