package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gxquant/screener/optimize"
	"github.com/gxquant/screener/strategies"
)

var walkforwardCmd = &cobra.Command{
	Use:   "walkforward",
	Short: "Walk-forward optimization over rolling train/test windows",
	Long: `Walkforward re-optimizes the parameter grid on each rolling
training window and scores the winner on the immediately following
unseen test window.

Example:
  screener walkforward -s SH600000 --train 252 --test 21 \
    -p stop_loss=0.03,0.05 -p take_profit=0.10,0.15`,
	RunE: runWalkforward,
}

var (
	wfSymbol  string
	wfEntry   string
	wfParams  []string
	wfTrain   int
	wfTest    int
	wfWorkers int
)

func init() {
	rootCmd.AddCommand(walkforwardCmd)

	walkforwardCmd.Flags().StringVarP(&wfSymbol, "symbol", "s", "", "stock symbol (required)")
	walkforwardCmd.Flags().StringVar(&wfEntry, "entry", "always", "entry rule (always, ma-cross)")
	walkforwardCmd.Flags().StringArrayVarP(&wfParams, "param", "p", nil,
		"grid dimension, name=v1,v2,... (repeatable)")
	walkforwardCmd.Flags().IntVar(&wfTrain, "train", 252, "training window size in bars")
	walkforwardCmd.Flags().IntVar(&wfTest, "test", 21, "test window size in bars")
	walkforwardCmd.Flags().IntVar(&wfWorkers, "workers", runtime.NumCPU(), "parallel workers for each grid search")

	walkforwardCmd.MarkFlagRequired("symbol")
	walkforwardCmd.MarkFlagRequired("param")
}

func runWalkforward(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	series, err := loadSeries(cfg, wfSymbol, "", "")
	if err != nil {
		return err
	}

	grid, err := parseGrid(wfParams)
	if err != nil {
		return err
	}

	opt := optimize.NewOptimizer(cfg.Account.InitialCapital)
	opt.SetWorkers(wfWorkers)

	report, err := opt.WalkForward(cmd.Context(), strategies.Params{Entry: wfEntry}, series, grid, wfTrain, wfTest, wfSymbol)
	if err != nil {
		return err
	}

	fmt.Printf("Windows: %d\n", len(report.Windows))
	for _, w := range report.Windows {
		if w.Err != "" {
			fmt.Printf("  [%d:%d] error: %s\n", w.Start, w.End, w.Err)
			continue
		}
		fmt.Printf("  [%d:%d] %v -> test return %.2f%%, sharpe %.2f\n",
			w.Start, w.End, w.BestParams,
			w.TestMetrics.TotalReturn*100, w.TestMetrics.SharpeRatio)
	}
	return nil
}
