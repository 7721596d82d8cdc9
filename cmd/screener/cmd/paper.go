package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gxquant/screener/market"
	"github.com/gxquant/screener/paper"
	"github.com/gxquant/screener/risk"
)

var paperCmd = &cobra.Command{
	Use:   "paper",
	Short: "Replay quotes through the paper-trading simulator",
	Long: `Paper replays a quote CSV (symbol,price rows) through the
paper-trading simulator: a risk-sized buy is submitted at the first quote
for the target symbol, pending orders are swept on every row, and the
final account status is printed.

Example:
  screener paper --quotes quotes.csv -s SH600000 --order-type limit`,
	RunE: runPaper,
}

var (
	ppQuotes    string
	ppSymbol    string
	ppRisk      float64
	ppOrderType string
)

func init() {
	rootCmd.AddCommand(paperCmd)

	paperCmd.Flags().StringVar(&ppQuotes, "quotes", "", "path to quote CSV (symbol,price) (required)")
	paperCmd.Flags().StringVarP(&ppSymbol, "symbol", "s", "", "symbol to trade (required)")
	paperCmd.Flags().Float64Var(&ppRisk, "risk", 0.02, "fractional risk per trade for sizing")
	paperCmd.Flags().StringVar(&ppOrderType, "order-type", "limit", "order type (limit, market)")

	paperCmd.MarkFlagRequired("quotes")
	paperCmd.MarkFlagRequired("symbol")
}

func runPaper(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	orderType := paper.Limit
	if ppOrderType == "market" {
		orderType = paper.Market
	}

	controller := risk.NewController(cfg.Account.InitialCapital, cfg.Risk, nil)
	trader := paper.NewTrader(cfg.Account.InitialCapital, controller)

	f, err := os.Open(ppQuotes)
	if err != nil {
		return fmt.Errorf("open quotes: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	submitted := false
	last := map[string]float64{}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read quotes: %w", err)
		}
		if len(rec) < 2 {
			continue
		}

		symbol := rec[0]
		price, err := strconv.ParseFloat(rec[1], 64)
		if err != nil || price <= 0 {
			continue
		}
		last[symbol] = price

		if !submitted && symbol == ppSymbol {
			sizing := controller.PositionSize(ppSymbol, price, ppRisk)
			if sizing.Quantity == 0 {
				return fmt.Errorf("sizing: %s", sizing.Reason)
			}
			sub := trader.SubmitOrder(ppSymbol, market.Buy, sizing.Quantity, price, orderType)
			if sub.Status == paper.Rejected {
				return fmt.Errorf("order rejected: %s", sub.Reason)
			}
			fmt.Printf("Submitted %s buy %d @ %.2f (order %s)\n",
				orderType, sizing.Quantity, price, sub.OrderID)
			submitted = true
		}

		trader.ExecuteOrders(map[string]float64{symbol: price})
	}

	status := trader.Status(last)
	out, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	report := controller.RiskReport()
	fmt.Printf("Risk level: %s (exposure %.2f%%)\n", report.Level, report.ExposurePct*100)
	return nil
}
