package models

import (
	"fmt"
	"time"

	"github.com/gxquant/screener/market"
)

// NaiveLastClose predicts tomorrow's close as today's close. It is the
// baseline every other model is measured against.
type NaiveLastClose struct{}

func (NaiveLastClose) Name() string { return "naive_last_close" }

func (m NaiveLastClose) Predict(code string, series market.Series) (Prediction, error) {
	last, ok := series.Last()
	if !ok {
		return Prediction{}, fmt.Errorf("naive: no data for %s", code)
	}

	return Prediction{
		Code:       code,
		Prediction: last.Close,
		Confidence: 0.5,
		Model:      m.Name(),
		CreatedAt:  time.Now(),
	}, nil
}
