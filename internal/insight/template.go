package insight

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// TemplateGenerator produces deterministic insights without a language model
type TemplateGenerator struct{}

// NewTemplateGenerator creates a template generator
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Summarize states how far the projection lands from the target
func (TemplateGenerator) Summarize(_ context.Context, s Summary) (string, error) {
	diff := s.Projected.Sub(s.TargetAmount).Abs()
	verb := "miss"
	if s.OnTrack {
		verb = "exceed"
	}
	return fmt.Sprintf("Projected to %s goal by $%s.", verb, diff.StringFixed(0)), nil
}

// AnalyzeSpending lists the three merchants with the highest total spend
func (TemplateGenerator) AnalyzeSpending(_ context.Context, lines []ExpenseLine) (string, error) {
	if len(lines) == 0 {
		return "No expenses found in the last 60 days.", nil
	}

	type merchant struct {
		name     string
		category string
		total    decimal.Decimal
		count    int
	}
	byName := make(map[string]*merchant)
	for _, l := range lines {
		m, ok := byName[l.Name]
		if !ok {
			m = &merchant{name: l.Name, category: l.Category}
			byName[l.Name] = m
		}
		m.total = m.total.Add(l.Amount)
		m.count++
	}

	merchants := make([]*merchant, 0, len(byName))
	for _, m := range byName {
		merchants = append(merchants, m)
	}
	sort.Slice(merchants, func(i, j int) bool {
		if c := merchants[i].total.Cmp(merchants[j].total); c != 0 {
			return c > 0
		}
		return merchants[i].name < merchants[j].name
	})
	if len(merchants) > 3 {
		merchants = merchants[:3]
	}

	var b strings.Builder
	for i, m := range merchants {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s ($%s) [%s] - %d charge", i+1, m.name, m.total.StringFixed(2), m.category, m.count)
		if m.count != 1 {
			b.WriteString("s")
		}
		b.WriteString(" in the last 60 days.")
	}
	return b.String(), nil
}
