package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/gxquant/screener/strategies"
)

// PrintResult writes a human-readable summary of a backtest run.
func PrintResult(w io.Writer, symbol string, p strategies.Params, r Result) {
	p = p.WithDefaults()

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Symbol:        %s\n", symbol)
	fmt.Fprintf(w, "Entry Rule:    %s\n", p.Entry)
	fmt.Fprintf(w, "Stop Loss:     %.2f%%\n", p.StopLoss*100)
	fmt.Fprintf(w, "Take Profit:   %.2f%%\n", p.TakeProfit*100)

	if len(r.Curve) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Period")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Start:         %s\n", r.Curve[0].Time.Format(time.RFC3339))
		fmt.Fprintf(w, "End:           %s\n", r.Curve[len(r.Curve)-1].Time.Format(time.RFC3339))
		fmt.Fprintf(w, "Bars:          %d\n", len(r.Curve))
	}

	m := r.Metrics
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Capital: %.2f\n", m.InitialCapital)
	fmt.Fprintf(w, "Final Value:   %.2f\n", m.FinalValue)
	fmt.Fprintf(w, "Total Return:  %.2f%%\n", m.TotalReturn*100)
	fmt.Fprintf(w, "Trades:        %d\n", m.TotalTrades)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", m.WinRate*100)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", m.MaxDrawdown*100)
	fmt.Fprintf(w, "Sharpe Ratio:  %.2f\n", m.SharpeRatio)

	fmt.Fprintln(w)
}
