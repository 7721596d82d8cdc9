package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gxquant/screener/market/data"
	"github.com/gxquant/screener/screen"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen an industry's stocks by factor thresholds",
	Long: `Screen filters the stocks of an industry by price band, average
volume and trend factors computed over each symbol's bar history.

Example:
  screener screen --industry banking --min-price 5 --trend-up`,
	RunE: runScreen,
}

var (
	scIndustry  string
	scMinPrice  float64
	scMaxPrice  float64
	scMinVolume float64
	scTrendUp   bool
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVar(&scIndustry, "industry", "", "industry name (required)")
	screenCmd.Flags().Float64Var(&scMinPrice, "min-price", 0, "minimum last close")
	screenCmd.Flags().Float64Var(&scMaxPrice, "max-price", 0, "maximum last close")
	screenCmd.Flags().Float64Var(&scMinVolume, "min-volume", 0, "minimum 20-bar average volume")
	screenCmd.Flags().BoolVar(&scTrendUp, "trend-up", false, "require 5-bar MA above 20-bar MA")

	screenCmd.MarkFlagRequired("industry")
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Data.Industries == "" {
		return fmt.Errorf("no industries file configured (data.industries)")
	}

	industries, err := screen.LoadIndustries(cfg.Data.Industries)
	if err != nil {
		return err
	}

	s := screen.NewScreener(data.NewLoader(cfg.Data.Dir), industries)

	matches, err := s.ScreenIndustry(scIndustry, screen.Factors{
		MinPrice:  scMinPrice,
		MaxPrice:  scMaxPrice,
		MinVolume: scMinVolume,
		TrendUp:   scTrendUp,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%d match(es) in %s\n", len(matches), scIndustry)
	for _, m := range matches {
		fmt.Printf("  %s  close %.2f  avg volume %.0f\n", m.Symbol, m.LastClose, m.AvgVolume)
	}
	return nil
}
