package models

import "github.com/shopspring/decimal"

// AccountType is the provider's top-level account classification
type AccountType string

const (
	AccountDepository AccountType = "depository"
	AccountInvestment AccountType = "investment"
	AccountCredit     AccountType = "credit"
	AccountLoan       AccountType = "loan"
	AccountOther      AccountType = "other"
)

// Account represents a linked bank account with its current balance
type Account struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    AccountType     `json:"type"`
	Subtype string          `json:"subtype,omitempty"`
	Balance decimal.Decimal `json:"balance"`
}
