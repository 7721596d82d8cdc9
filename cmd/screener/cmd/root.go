package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gxquant/screener/config"
)

var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Stock screening and backtesting platform",
	Long: `Screener is a stock screening and backtesting platform.

It provides tools for:
  - Backtesting strategies against historical OHLCV data
  - Grid-search and walk-forward parameter optimization
  - Risk-controlled paper trading against streamed prices
  - Industry screening and naive price prediction`,
	SilenceUsage: true,
}

var (
	cfgPath  string
	logLevel string
)

// Execute runs the root command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cobra.OnInitialize(setupLogging)
}

func setupLogging() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig loads --config or falls back to defaults.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgPath)
}
