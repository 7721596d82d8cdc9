// Package models holds the naive prediction heuristics. These are simple
// baselines over a bar series, not fitted statistical models.
package models

import (
	"fmt"
	"time"

	"github.com/gxquant/screener/market"
)

// Prediction is one model output for one symbol.
type Prediction struct {
	Code       string    `json:"code"`
	Prediction float64   `json:"prediction"`
	Confidence float64   `json:"confidence"`
	Model      string    `json:"model"`
	CreatedAt  time.Time `json:"created_at"`
}

// Predictor produces a next-close estimate from a historical series.
type Predictor interface {
	Name() string
	Predict(code string, series market.Series) (Prediction, error)
}

// ByName returns the predictor registered under the given name.
func ByName(name string) (Predictor, error) {
	switch name {
	case "naive", "naive_last_close":
		return NaiveLastClose{}, nil
	case "ma", "moving_average":
		return NewMovingAverage(5, 20), nil
	default:
		return nil, fmt.Errorf("unknown model %q (supported: naive, ma)", name)
	}
}
