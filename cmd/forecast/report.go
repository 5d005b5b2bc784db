package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/shopspring/decimal"
)

type styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	OnTrack lipgloss.Style
	Behind  lipgloss.Style
	Muted   lipgloss.Style
	Box     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("#bbbbbb")).Width(18),
		OnTrack: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a6e3a1")),
		Behind:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f38ba8")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c")),
		Box:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2),
	}
}

type report struct {
	Accounts     []models.Account
	Transactions int
	TargetAmount decimal.Decimal
	TargetDate   string
	Evaluation   *models.GoalEvaluation
	Insight      string
}

func renderReport(r report, s styles) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, s.Label.Render(label), value)
	}

	status := s.Behind.Render("OFF TRACK")
	if r.Evaluation.IsOnTrack {
		status = s.OnTrack.Render("ON TRACK")
	}

	var accounts strings.Builder
	for _, a := range r.Accounts {
		fmt.Fprintf(&accounts, "%s %s\n", a.Name, s.Muted.Render(fmt.Sprintf("(%s) $%s", a.Type, a.Balance.StringFixed(2))))
	}

	categories := r.Evaluation.TopCategorySummary
	if categories == "" {
		categories = s.Muted.Render("no spending in the last 60 days")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(fmt.Sprintf("Goal: $%s by %s", r.TargetAmount.StringFixed(2), r.TargetDate)),
		"",
		strings.TrimRight(accounts.String(), "\n"),
		s.Muted.Render(fmt.Sprintf("%d transactions", r.Transactions)),
		"",
		row("Net worth", "$"+r.Evaluation.CurrentNetWorth.StringFixed(2)),
		row("Projected", "$"+r.Evaluation.ProjectedBalance.StringFixed(2)),
		row("Status", status),
		row("Top spending", categories),
		"",
		r.Insight,
	)
	return s.Box.Render(body)
}
