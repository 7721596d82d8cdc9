package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gxquant/screener/models"
	"github.com/gxquant/screener/store"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run a prediction model over a symbol's bar history",
	Long: `Predict estimates the next close for a symbol using one of the
naive heuristic models and saves the result to the JSON result store.

Example:
  screener predict -s SH600000 --model ma`,
	RunE: runPredict,
}

var (
	pdSymbol string
	pdModel  string
	pdSave   bool
)

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringVarP(&pdSymbol, "symbol", "s", "", "stock symbol (required)")
	predictCmd.Flags().StringVar(&pdModel, "model", "naive", "model name (naive, ma)")
	predictCmd.Flags().BoolVar(&pdSave, "save", true, "save the prediction to the result store")

	predictCmd.MarkFlagRequired("symbol")
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	series, err := loadSeries(cfg, pdSymbol, "", "")
	if err != nil {
		return err
	}

	model, err := models.ByName(pdModel)
	if err != nil {
		return err
	}

	prediction, err := model.Predict(pdSymbol, series)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s: predicted close %.2f (confidence %.2f)\n",
		prediction.Model, prediction.Code, prediction.Prediction, prediction.Confidence)

	if pdSave && cfg.Data.StoreDir != "" {
		st, err := store.New(cfg.Data.StoreDir)
		if err != nil {
			return err
		}
		entry, err := st.Save("prediction", pdSymbol, prediction)
		if err != nil {
			return err
		}
		fmt.Printf("Saved as %s\n", entry.File)
	}
	return nil
}
