package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalancePoint is a reconstructed end-of-day balance
type BalancePoint struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// DailyBalancePoint pairs a reconstructed balance with the model's estimate for the same day
type DailyBalancePoint struct {
	Date    string          `json:"date"` // Format: YYYY-MM-DD
	Balance decimal.Decimal `json:"balance"`
	Trend   decimal.Decimal `json:"trend"`
}

// ForecastResult holds the projected balance and the trended history it was derived from
type ForecastResult struct {
	Prediction decimal.Decimal     `json:"prediction"`
	History    []DailyBalancePoint `json:"history"`
}

// CategorySpend is the total spent in one category over a trailing window
type CategorySpend struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// GoalEvaluation is the outcome of projecting net worth against a savings goal
type GoalEvaluation struct {
	CurrentNetWorth    decimal.Decimal     `json:"current_balance"`
	ProjectedBalance   decimal.Decimal     `json:"projected_balance"`
	IsOnTrack          bool                `json:"is_on_track"`
	TopCategories      []CategorySpend     `json:"top_categories"`
	TopCategorySummary string              `json:"top_category_summary"`
	History            []DailyBalancePoint `json:"history"`
}
