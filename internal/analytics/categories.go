package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ddj1226/SpendSense/internal/clock"
	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// CategoryWindowDays is how far back spending is grouped by category
	CategoryWindowDays = 60

	// TopCategoryCount is the number of categories reported
	TopCategoryCount = 3

	uncategorized = "Uncategorized"
)

// CategoryLabel names the category of a transaction for display.
// The structured primary category wins ("FOOD_AND_DRINK" -> "Food And Drink"), then the first
// legacy category, then "Uncategorized".
func CategoryLabel(tx models.Transaction) string {
	if tx.PrimaryCategory != "" {
		// Casers keep state, so each call gets its own
		return cases.Title(language.English).String(strings.ReplaceAll(tx.PrimaryCategory, "_", " "))
	}
	if len(tx.Categories) > 0 {
		return tx.Categories[0]
	}
	return uncategorized
}

// TopCategories totals expenses dated within windowDays of today (inclusive) per category and
// returns the largest limit totals, biggest first
func TopCategories(transactions []models.Transaction, today time.Time, windowDays, limit int) []models.CategorySpend {
	cutoff := clock.DateOf(today).AddDate(0, 0, -windowDays)

	totals := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if clock.DaysBetween(cutoff, tx.Date) < 0 {
			continue
		}
		if !tx.Amount.IsPositive() {
			continue
		}
		label := CategoryLabel(tx)
		totals[label] = totals[label].Add(tx.Amount)
	}

	spends := make([]models.CategorySpend, 0, len(totals))
	for cat, total := range totals {
		spends = append(spends, models.CategorySpend{Category: cat, Total: total})
	}

	sort.Slice(spends, func(i, j int) bool {
		if c := spends[i].Total.Cmp(spends[j].Total); c != 0 {
			return c > 0
		}
		return spends[i].Category < spends[j].Category
	})

	if len(spends) > limit {
		spends = spends[:limit]
	}
	return spends
}

// FormatCategories renders spends as "Label ($Total), ..." with whole-dollar totals
func FormatCategories(spends []models.CategorySpend) string {
	parts := make([]string, len(spends))
	for i, s := range spends {
		parts[i] = fmt.Sprintf("%s ($%s)", s.Category, s.Total.StringFixed(0))
	}
	return strings.Join(parts, ", ")
}
