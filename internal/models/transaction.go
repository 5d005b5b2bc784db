package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a posted bank transaction.
// Amount is positive when money leaves the account and negative for inflows.
type Transaction struct {
	ID              string          `json:"id"`
	Date            time.Time       `json:"date"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	PrimaryCategory string          `json:"primary_category,omitempty"` // structured category, e.g. FOOD_AND_DRINK
	Categories      []string        `json:"categories,omitempty"`       // legacy hierarchy, most general first
}

// DateKey returns the calendar date of the transaction as YYYY-MM-DD
func (t Transaction) DateKey() string {
	return t.Date.Format(DateLayout)
}

// DateLayout is the wire and bucketing format for calendar dates
const DateLayout = "2006-01-02"
