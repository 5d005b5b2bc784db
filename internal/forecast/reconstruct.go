package forecast

import (
	"time"

	"github.com/ddj1226/SpendSense/internal/clock"
	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/shopspring/decimal"
)

// HistoryWindowDays is the length of the reconstructed balance history
const HistoryWindowDays = 180

// Reconstruct rewinds currentBalance through the transaction list to produce one balance per day
// for the windowDays days ending at today, oldest first.
//
// The balance recorded for a day is the balance at the end of that day. Stepping back past a day
// adds that day's net amount back, so an expense (positive amount) makes every earlier day higher.
// Transactions dated outside the window never touch the series.
func Reconstruct(currentBalance decimal.Decimal, transactions []models.Transaction, today time.Time, windowDays int) []models.BalancePoint {
	if windowDays <= 0 {
		return []models.BalancePoint{}
	}

	netByDate := make(map[string]decimal.Decimal, len(transactions))
	for _, tx := range transactions {
		key := tx.DateKey()
		netByDate[key] = netByDate[key].Add(tx.Amount)
	}

	today = clock.DateOf(today)
	points := make([]models.BalancePoint, windowDays)
	running := currentBalance
	for i := 0; i < windowDays; i++ {
		day := today.AddDate(0, 0, -i)
		points[windowDays-1-i] = models.BalancePoint{
			Date:    day,
			Balance: running.Round(2),
		}
		if net, ok := netByDate[day.Format(models.DateLayout)]; ok {
			running = running.Add(net)
		}
	}

	return points
}
