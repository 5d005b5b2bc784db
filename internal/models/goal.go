package models

import "github.com/shopspring/decimal"

// Goal is the savings target a user last asked to be projected against
type Goal struct {
	UserID       int64           `json:"user_id"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetDate   string          `json:"target_date"` // Format: YYYY-MM-DD
}

// DigestTarget is a saved goal joined with its owner's contact and bank link
type DigestTarget struct {
	User User
	Goal Goal
}
