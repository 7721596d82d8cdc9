package cmd

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gxquant/screener/optimize"
	"github.com/gxquant/screener/strategies"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Grid-search strategy parameters over a symbol's history",
	Long: `Optimize enumerates the full Cartesian product of the supplied
parameter grid, backtests each combination, and reports the combination
with the highest Sharpe ratio.

Example:
  screener optimize -s SH600000 \
    -p stop_loss=0.03,0.05,0.08 -p take_profit=0.10,0.15,0.20`,
	RunE: runOptimize,
}

var (
	optSymbol  string
	optEntry   string
	optParams  []string
	optFrom    string
	optTo      string
	optWorkers int
)

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVarP(&optSymbol, "symbol", "s", "", "stock symbol (required)")
	optimizeCmd.Flags().StringVar(&optEntry, "entry", "always", "entry rule (always, ma-cross)")
	optimizeCmd.Flags().StringArrayVarP(&optParams, "param", "p", nil,
		"grid dimension, name=v1,v2,... (repeatable, order significant)")
	optimizeCmd.Flags().StringVar(&optFrom, "from", "", "start date (YYYY-MM-DD)")
	optimizeCmd.Flags().StringVar(&optTo, "to", "", "end date (YYYY-MM-DD, exclusive)")
	optimizeCmd.Flags().IntVar(&optWorkers, "workers", runtime.NumCPU(), "parallel workers for the combination loop")

	optimizeCmd.MarkFlagRequired("symbol")
	optimizeCmd.MarkFlagRequired("param")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	series, err := loadSeries(cfg, optSymbol, optFrom, optTo)
	if err != nil {
		return err
	}

	grid, err := parseGrid(optParams)
	if err != nil {
		return err
	}

	opt := optimize.NewOptimizer(cfg.Account.InitialCapital)
	opt.SetWorkers(optWorkers)

	report, err := opt.GridSearch(cmd.Context(), strategies.Params{Entry: optEntry}, series, grid, optSymbol)
	if err != nil {
		return err
	}

	fmt.Printf("Combinations tested: %d\n", report.Combinations)
	for _, r := range report.Results {
		if r.Err != "" {
			fmt.Printf("  %v -> error: %s\n", r.Params, r.Err)
			continue
		}
		fmt.Printf("  %v -> return %.2f%%, sharpe %.2f, trades %d\n",
			r.Params, r.Metrics.TotalReturn*100, r.Metrics.SharpeRatio, r.TradeCount)
	}

	if report.Best.Params == nil {
		fmt.Println("No successful combination.")
		return nil
	}
	fmt.Printf("\nBest: %v (sharpe %.2f, return %.2f%%)\n",
		report.Best.Params, report.Best.Metrics.SharpeRatio, report.Best.Metrics.TotalReturn*100)
	return nil
}

// parseGrid turns repeated name=v1,v2,... flags into an ordered grid.
func parseGrid(specs []string) (optimize.Grid, error) {
	grid := make(optimize.Grid, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("bad --param %q, want name=v1,v2,...", spec)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("bad value in --param %q: %w", spec, err)
			}
			values = append(values, v)
		}
		grid = append(grid, optimize.Dimension{Name: strings.TrimSpace(name), Values: values})
	}
	return grid, nil
}
