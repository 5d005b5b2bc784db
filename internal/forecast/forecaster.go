package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/ddj1226/SpendSense/internal/clock"
	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Forecaster projects a balance history forward with a trend model.
// Model failures never reach the caller: the forecast degrades to a flat trend instead.
type Forecaster struct {
	fitter Fitter
	clock  clock.Clock
	log    *logrus.Logger
}

// NewForecaster initializes a forecaster
func NewForecaster(fitter Fitter, c clock.Clock, log *logrus.Logger) *Forecaster {
	return &Forecaster{fitter: fitter, clock: c, log: log}
}

// ForecastBalance reconstructs the trailing history behind currentBalance and projects it
// horizonDays past today. With no transactions there is nothing to rewind, so the current
// balance is passed through with an empty history.
func (f *Forecaster) ForecastBalance(currentBalance decimal.Decimal, transactions []models.Transaction, horizonDays int) models.ForecastResult {
	if len(transactions) == 0 {
		return models.ForecastResult{
			Prediction: currentBalance,
			History:    []models.DailyBalancePoint{},
		}
	}

	history := Reconstruct(currentBalance, transactions, clock.Today(f.clock), HistoryWindowDays)
	result, err := f.project(history, horizonDays)
	if err != nil {
		f.degraded(err, len(history), horizonDays)
		return flatResult(history, currentBalance)
	}
	return result
}

// Forecast fits the model to history and extrapolates horizonDays beyond its last date.
// horizonDays must be positive. On failure the prediction is the last observed balance.
func (f *Forecaster) Forecast(history []models.BalancePoint, horizonDays int) models.ForecastResult {
	result, err := f.project(history, horizonDays)
	if err != nil {
		f.degraded(err, len(history), horizonDays)
		last := decimal.Zero
		if len(history) > 0 {
			last = history[len(history)-1].Balance
		}
		return flatResult(history, last)
	}
	return result
}

func (f *Forecaster) project(history []models.BalancePoint, horizonDays int) (result models.ForecastResult, err error) {
	if len(history) == 0 {
		return models.ForecastResult{Prediction: decimal.Zero, History: []models.DailyBalancePoint{}}, nil
	}

	// gonum reports some shape and rank problems by panicking
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSolverFailed, r)
		}
	}()

	model, err := f.fitter.Fit(history)
	if err != nil {
		return models.ForecastResult{}, fmt.Errorf("fit: %w", err)
	}

	dates := make([]time.Time, len(history)+1)
	for i, p := range history {
		dates[i] = p.Date
	}
	dates[len(history)] = history[len(history)-1].Date.AddDate(0, 0, horizonDays)

	values, err := model.PredictAt(dates)
	if err != nil {
		return models.ForecastResult{}, fmt.Errorf("predict: %w", err)
	}
	if len(values) != len(dates) {
		return models.ForecastResult{}, fmt.Errorf("predict: got %d values for %d dates", len(values), len(dates))
	}

	final := values[len(values)-1]
	if math.IsNaN(final) || math.IsInf(final, 0) {
		return models.ForecastResult{}, fmt.Errorf("predict: %w", ErrNonFinite)
	}

	out := make([]models.DailyBalancePoint, len(history))
	for i, p := range history {
		trend := p.Balance
		if v := values[i]; !math.IsNaN(v) && !math.IsInf(v, 0) {
			trend = decimal.NewFromFloat(v).Round(2)
		}
		out[i] = models.DailyBalancePoint{
			Date:    p.Date.Format(models.DateLayout),
			Balance: p.Balance,
			Trend:   trend,
		}
	}

	return models.ForecastResult{
		Prediction: decimal.NewFromFloat(final).Round(2),
		History:    out,
	}, nil
}

func (f *Forecaster) degraded(err error, points, horizonDays int) {
	f.log.WithError(err).WithFields(logrus.Fields{
		"points":       points,
		"horizon_days": horizonDays,
	}).Warn("Trend model unavailable, using flat forecast")
}

// flatResult pairs every point with itself as the trend
func flatResult(history []models.BalancePoint, prediction decimal.Decimal) models.ForecastResult {
	out := make([]models.DailyBalancePoint, len(history))
	for i, p := range history {
		out[i] = models.DailyBalancePoint{
			Date:    p.Date.Format(models.DateLayout),
			Balance: p.Balance,
			Trend:   p.Balance,
		}
	}
	return models.ForecastResult{Prediction: prediction, History: out}
}
