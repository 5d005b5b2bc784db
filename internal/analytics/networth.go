package analytics

import (
	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/shopspring/decimal"
)

// NetWorth adds asset balances and subtracts liability balances.
// Account types other than depository, investment, credit and loan contribute nothing.
func NetWorth(accounts []models.Account) decimal.Decimal {
	total := decimal.Zero
	for _, acc := range accounts {
		switch acc.Type {
		case models.AccountDepository, models.AccountInvestment:
			total = total.Add(acc.Balance)
		case models.AccountCredit, models.AccountLoan:
			total = total.Sub(acc.Balance)
		}
	}
	return total
}
