package models

import (
	"fmt"
	"math"
	"time"

	"github.com/gxquant/screener/indicators"
	"github.com/gxquant/screener/market"
)

// MovingAverage extrapolates the short/long moving-average spread: a
// short average above the long one projects the trend forward, and the
// spread magnitude drives the confidence score.
type MovingAverage struct {
	ShortPeriod int
	LongPeriod  int
}

func NewMovingAverage(shortPeriod, longPeriod int) *MovingAverage {
	return &MovingAverage{ShortPeriod: shortPeriod, LongPeriod: longPeriod}
}

func (m *MovingAverage) Name() string { return "moving_average" }

func (m *MovingAverage) Predict(code string, series market.Series) (Prediction, error) {
	need := m.LongPeriod
	if m.ShortPeriod > need {
		need = m.ShortPeriod
	}
	if len(series) < need {
		return Prediction{}, fmt.Errorf("moving_average: need %d bars for %s, got %d", need, code, len(series))
	}

	shortMA, err := indicators.MeanClose(series, m.ShortPeriod)
	if err != nil {
		return Prediction{}, err
	}
	longMA, err := indicators.MeanClose(series, m.LongPeriod)
	if err != nil {
		return Prediction{}, err
	}

	last, _ := series.Last()

	trend := 0.0
	if longMA > 0 {
		trend = (shortMA - longMA) / longMA
	}

	confidence := math.Abs(trend) * 10
	if confidence > 0.9 {
		confidence = 0.9
	}
	if confidence < 0.1 {
		confidence = 0.1
	}

	return Prediction{
		Code:       code,
		Prediction: last.Close * (1 + trend),
		Confidence: confidence,
		Model:      m.Name(),
		CreatedAt:  time.Now(),
	}, nil
}
