package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, symbol, entry, stop_loss, take_profit,
		 initial_capital, final_value, total_return, total_trades,
		 win_rate, max_drawdown, sharpe_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Symbol, r.Entry, r.StopLoss, r.TakeProfit,
		r.InitialCapital, r.FinalValue, r.TotalReturn, r.TotalTrades,
		r.WinRate, r.MaxDrawdown, r.SharpeRatio,
	)
	return err
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, symbol, action, quantity, price, commission, time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.Symbol, string(t.Action), t.Quantity, t.Price, t.Commission, t.Time,
	)
	return err
}

func (j *SQLiteJournal) RecordSnapshot(s SnapshotRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO snapshots (run_id, time, value) VALUES (?, ?, ?)`,
		s.RunID, s.Time, s.Value,
	)
	return err
}

// ListTradesByRun returns a run's trades in time order.
func (j *SQLiteJournal) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, symbol, action, quantity, price, commission, time
		FROM trades
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		var action string
		if err := rows.Scan(
			&rec.RunID, &rec.Symbol, &action,
			&rec.Quantity, &rec.Price, &rec.Commission, &rec.Time,
		); err != nil {
			return nil, err
		}
		rec.Action = marketAction(action)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
