package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/ddj1226/SpendSense/internal/clock"
	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

type stubForecaster struct {
	calls   int
	horizon int
	balance decimal.Decimal
	result  models.ForecastResult
}

func (s *stubForecaster) ForecastBalance(current decimal.Decimal, _ []models.Transaction, horizonDays int) models.ForecastResult {
	s.calls++
	s.horizon = horizonDays
	s.balance = current
	return s.result
}

func TestNetWorth(t *testing.T) {
	cases := []struct {
		name     string
		accounts []models.Account
		want     string
	}{
		{"asset minus credit", []models.Account{
			{Type: models.AccountDepository, Balance: dec("100")},
			{Type: models.AccountCredit, Balance: dec("30")},
		}, "70"},
		{"loan only", []models.Account{{Type: models.AccountLoan, Balance: dec("50")}}, "-50"},
		{"investment counts", []models.Account{
			{Type: models.AccountInvestment, Balance: dec("1000.10")},
			{Type: models.AccountDepository, Balance: dec("0.90")},
		}, "1001"},
		{"unknown types ignored", []models.Account{
			{Type: models.AccountOther, Balance: dec("999")},
			{Type: "brokerage-ish", Balance: dec("999")},
			{Type: models.AccountDepository, Balance: dec("1")},
		}, "1"},
		{"no accounts", nil, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NetWorth(tc.accounts)
			assert.True(t, got.Equal(dec(tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}

func TestCategoryLabel(t *testing.T) {
	cases := []struct {
		tx   models.Transaction
		want string
	}{
		{models.Transaction{PrimaryCategory: "FOOD_AND_DRINK", Categories: []string{"Food"}}, "Food And Drink"},
		{models.Transaction{PrimaryCategory: "TRANSPORTATION"}, "Transportation"},
		{models.Transaction{Categories: []string{"Travel", "Taxi"}}, "Travel"},
		{models.Transaction{}, "Uncategorized"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CategoryLabel(tc.tx))
	}
}

func TestTopCategoriesOrdering(t *testing.T) {
	txs := []models.Transaction{
		{Date: daysAgo(1), Amount: dec("30"), Categories: []string{"A"}},
		{Date: daysAgo(2), Amount: dec("20"), Categories: []string{"B"}},
		{Date: daysAgo(3), Amount: dec("30"), Categories: []string{"B"}},
		{Date: daysAgo(4), Amount: dec("10"), Categories: []string{"C"}},
		{Date: daysAgo(5), Amount: dec("5"), Categories: []string{"D"}},
	}

	got := TopCategories(txs, now, CategoryWindowDays, TopCategoryCount)

	require.Len(t, got, 3)
	assert.Equal(t, "B", got[0].Category)
	assert.True(t, got[0].Total.Equal(dec("50")))
	assert.Equal(t, "A", got[1].Category)
	assert.Equal(t, "C", got[2].Category)
	assert.Equal(t, "B ($50), A ($30), C ($10)", FormatCategories(got))
}

func TestTopCategoriesWindowAndSign(t *testing.T) {
	txs := []models.Transaction{
		{Date: daysAgo(60), Amount: dec("12"), Categories: []string{"Edge"}},
		{Date: daysAgo(61), Amount: dec("500"), Categories: []string{"Old"}},
		{Date: daysAgo(3), Amount: dec("-900"), Categories: []string{"Payroll"}},
		{Date: daysAgo(3), Amount: dec("0"), Categories: []string{"Zero"}},
	}

	got := TopCategories(txs, now, CategoryWindowDays, TopCategoryCount)

	require.Len(t, got, 1)
	assert.Equal(t, "Edge", got[0].Category)
}

func TestFormatCategoriesRoundsToWholeDollars(t *testing.T) {
	got := FormatCategories([]models.CategorySpend{
		{Category: "Food And Drink", Total: dec("123.6")},
		{Category: "Travel", Total: dec("9.2")},
	})
	assert.Equal(t, "Food And Drink ($124), Travel ($9)", got)
	assert.Equal(t, "", FormatCategories(nil))
}

func TestEvaluateOnTrackBoundary(t *testing.T) {
	stub := &stubForecaster{result: models.ForecastResult{Prediction: dec("5000.00")}}
	e := NewEvaluator(stub, clock.Fixed{T: now})

	got, err := e.Evaluate(
		[]models.Account{{Type: models.AccountDepository, Balance: dec("4000")}},
		[]models.Transaction{{Date: daysAgo(1), Amount: dec("25"), PrimaryCategory: "GENERAL_MERCHANDISE"}},
		dec("5000"),
		now.AddDate(0, 0, 30),
	)

	require.NoError(t, err)
	assert.True(t, got.IsOnTrack)
	assert.Equal(t, 30, stub.horizon)
	assert.True(t, stub.balance.Equal(dec("4000")))
	assert.True(t, got.CurrentNetWorth.Equal(dec("4000")))
	assert.Equal(t, "General Merchandise ($25)", got.TopCategorySummary)

	stub.result.Prediction = dec("4999.99")
	got, err = e.Evaluate(nil, nil, dec("5000"), now.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.False(t, got.IsOnTrack)
}

func TestEvaluateRejectsPastOrTodayTarget(t *testing.T) {
	for _, target := range []time.Time{now.AddDate(0, 0, -1), now, now.Add(10 * time.Hour)} {
		stub := &stubForecaster{}
		e := NewEvaluator(stub, clock.Fixed{T: now})

		_, err := e.Evaluate(nil, nil, dec("1"), target)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "target %s", target)
		assert.Equal(t, "goal date must be in the future", verr.Error())
		assert.Zero(t, stub.calls)
	}
}
