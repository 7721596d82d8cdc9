package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gxquant/screener/backtest"
	"github.com/gxquant/screener/config"
	"github.com/gxquant/screener/journal"
	"github.com/gxquant/screener/market"
	"github.com/gxquant/screener/market/data"
	"github.com/gxquant/screener/pkg/id"
	"github.com/gxquant/screener/strategies"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a strategy backtest over a symbol's bar history",
	Long: `Backtest replays a symbol's OHLCV history against a strategy's
entry/exit rules and reports trades, the portfolio curve, and metrics.

Example:
  screener backtest -s SH600000 --stop 0.05 --take 0.10 --entry ma-cross`,
	RunE: runBacktest,
}

var (
	btSymbol  string
	btEntry   string
	btStop    float64
	btTake    float64
	btShort   int
	btLong    int
	btFrom    string
	btTo      string
	btJournal bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "s", "", "stock symbol (required)")
	backtestCmd.Flags().StringVar(&btEntry, "entry", "always", "entry rule (always, ma-cross)")
	backtestCmd.Flags().Float64Var(&btStop, "stop", strategies.DefaultStopLoss, "fractional stop loss")
	backtestCmd.Flags().Float64Var(&btTake, "take", strategies.DefaultTakeProfit, "fractional take profit")
	backtestCmd.Flags().IntVar(&btShort, "short", 5, "ma-cross: short MA period")
	backtestCmd.Flags().IntVar(&btLong, "long", 20, "ma-cross: long MA period")
	backtestCmd.Flags().StringVar(&btFrom, "from", "", "start date (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&btTo, "to", "", "end date (YYYY-MM-DD, exclusive)")
	backtestCmd.Flags().BoolVar(&btJournal, "journal", false, "record run, trades and curve to the configured journal")

	backtestCmd.MarkFlagRequired("symbol")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	series, err := loadSeries(cfg, btSymbol, btFrom, btTo)
	if err != nil {
		return err
	}

	params := strategies.Params{
		StopLoss:    btStop,
		TakeProfit:  btTake,
		Entry:       btEntry,
		ShortPeriod: btShort,
		LongPeriod:  btLong,
	}

	engine := backtest.NewEngine(cfg.Account.InitialCapital)
	result, err := engine.Run(params, series, btSymbol)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	backtest.PrintResult(os.Stdout, btSymbol, params, result)

	if btJournal {
		if err := journalRun(cfg, btSymbol, params, result); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
	}
	return nil
}

func loadSeries(cfg *config.Config, symbol, from, to string) (series market.Series, err error) {
	var start, end time.Time
	if from != "" {
		if start, err = time.ParseInLocation("2006-01-02", from, time.UTC); err != nil {
			return nil, fmt.Errorf("bad --from: %w", err)
		}
	}
	if to != "" {
		if end, err = time.ParseInLocation("2006-01-02", to, time.UTC); err != nil {
			return nil, fmt.Errorf("bad --to: %w", err)
		}
	}

	loader := data.NewLoader(cfg.Data.Dir)
	return loader.LoadRange(symbol, start, end)
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		trades := cfg.Journal.TradesFile
		if trades == "" {
			trades = "trades.csv"
		}
		snapshots := cfg.Journal.SnapshotsFile
		if snapshots == "" {
			snapshots = "snapshots.csv"
		}
		return journal.NewCSV(trades, snapshots)
	default:
		path := cfg.Journal.DBPath
		if path == "" {
			path = "screener.sqlite"
		}
		return journal.NewSQLite(path)
	}
}

func journalRun(cfg *config.Config, symbol string, params strategies.Params, result backtest.Result) error {
	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	params = params.WithDefaults()
	runID := id.New()
	m := result.Metrics

	if err := j.RecordRun(journal.RunRecord{
		RunID:          runID,
		Created:        time.Now(),
		Symbol:         symbol,
		Entry:          params.Entry,
		StopLoss:       params.StopLoss,
		TakeProfit:     params.TakeProfit,
		InitialCapital: m.InitialCapital,
		FinalValue:     m.FinalValue,
		TotalReturn:    m.TotalReturn,
		TotalTrades:    m.TotalTrades,
		WinRate:        m.WinRate,
		MaxDrawdown:    m.MaxDrawdown,
		SharpeRatio:    m.SharpeRatio,
	}); err != nil {
		return err
	}

	for _, t := range result.Trades {
		if err := j.RecordTrade(journal.TradeRecord{
			RunID:      runID,
			Symbol:     symbol,
			Action:     t.Action,
			Quantity:   t.Quantity,
			Price:      t.Price,
			Commission: t.Commission,
			Time:       t.Time,
		}); err != nil {
			return err
		}
	}
	for _, s := range result.Curve {
		if err := j.RecordSnapshot(journal.SnapshotRecord{
			RunID: runID,
			Time:  s.Time,
			Value: s.Value,
		}); err != nil {
			return err
		}
	}

	fmt.Printf("Journaled run %s\n", runID)
	return nil
}
