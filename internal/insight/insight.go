// Package insight turns goal projections and spending into short coaching text.
package insight

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Summary is everything a generator needs to comment on goal progress
type Summary struct {
	NetWorth      decimal.Decimal
	TargetAmount  decimal.Decimal
	TargetDate    string // Format: YYYY-MM-DD
	Projected     decimal.Decimal
	OnTrack       bool
	TopCategories string // "Label ($Total), ..."
}

// ExpenseLine is one recent expense offered for spending analysis
type ExpenseLine struct {
	Name     string
	Amount   decimal.Decimal
	Category string
}

// Generator produces natural-language insights
type Generator interface {
	Summarize(ctx context.Context, s Summary) (string, error)
	AnalyzeSpending(ctx context.Context, lines []ExpenseLine) (string, error)
}

// ErrEmptyResponse is returned when a model answers with no text
var ErrEmptyResponse = errors.New("insight: empty model response")
