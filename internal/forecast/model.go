package forecast

import (
	"errors"
	"time"

	"github.com/ddj1226/SpendSense/internal/models"
)

// Fitter fits a trend model to a daily balance series
type Fitter interface {
	Fit(series []models.BalancePoint) (Model, error)
}

// Model evaluates a fitted trend at arbitrary dates.
// A NaN entry means the model has no estimate for that date.
type Model interface {
	PredictAt(dates []time.Time) ([]float64, error)
}

// FitterFunc adapts a function to the Fitter interface
type FitterFunc func(series []models.BalancePoint) (Model, error)

// Fit calls f(series)
func (f FitterFunc) Fit(series []models.BalancePoint) (Model, error) {
	return f(series)
}

var (
	// ErrInsufficientHistory is returned when the series spans fewer than two dates
	ErrInsufficientHistory = errors.New("forecast: at least two observations on distinct dates are required")

	// ErrUnorderedHistory is returned when dates are not strictly increasing
	ErrUnorderedHistory = errors.New("forecast: observations must be strictly increasing by date")

	// ErrNonFinite is returned when the series or the fitted model contains NaN or Inf
	ErrNonFinite = errors.New("forecast: non-finite value")

	// ErrSolverFailed is returned when the least-squares solve does not produce a usable solution
	ErrSolverFailed = errors.New("forecast: solver failed")
)
