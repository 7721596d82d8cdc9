package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gxquant/screener/market/data"
)

var importCmd = &cobra.Command{
	Use:   "import <archive.zip>",
	Short: "Import a zip bundle of per-symbol CSV files into the data directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	loader := data.NewLoader(cfg.Data.Dir)
	if err := loader.ImportArchive(args[0]); err != nil {
		return err
	}

	fmt.Printf("Imported %s into %s\n", args[0], cfg.Data.Dir)
	return nil
}
