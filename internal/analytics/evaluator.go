// Package analytics evaluates savings goals against projected net worth.
package analytics

import (
	"time"

	"github.com/ddj1226/SpendSense/internal/clock"
	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/shopspring/decimal"
)

// BalanceForecaster projects a current balance forward through its transaction history
type BalanceForecaster interface {
	ForecastBalance(currentBalance decimal.Decimal, transactions []models.Transaction, horizonDays int) models.ForecastResult
}

// ValidationError reports a goal request that cannot be evaluated
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Evaluator compares projected net worth with a savings target
type Evaluator struct {
	forecaster BalanceForecaster
	clock      clock.Clock
}

// NewEvaluator initializes an evaluator
func NewEvaluator(forecaster BalanceForecaster, c clock.Clock) *Evaluator {
	return &Evaluator{forecaster: forecaster, clock: c}
}

// Evaluate projects the net worth of accounts to targetDate and reports whether it reaches
// targetAmount. A targetDate that is not after today yields a *ValidationError and no forecast.
func (e *Evaluator) Evaluate(accounts []models.Account, transactions []models.Transaction, targetAmount decimal.Decimal, targetDate time.Time) (*models.GoalEvaluation, error) {
	netWorth := NetWorth(accounts)

	today := clock.Today(e.clock)
	daysUntil := clock.DaysBetween(today, targetDate)
	if daysUntil <= 0 {
		return nil, &ValidationError{Field: "target_date", Message: "goal date must be in the future"}
	}

	result := e.forecaster.ForecastBalance(netWorth, transactions, daysUntil)
	top := TopCategories(transactions, today, CategoryWindowDays, TopCategoryCount)

	return &models.GoalEvaluation{
		CurrentNetWorth:    netWorth,
		ProjectedBalance:   result.Prediction,
		IsOnTrack:          result.Prediction.GreaterThanOrEqual(targetAmount),
		TopCategories:      top,
		TopCategorySummary: FormatCategories(top),
		History:            result.History,
	}, nil
}
