package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ddj1226/SpendSense/internal/analytics"
	"github.com/ddj1226/SpendSense/internal/forecast"
	"github.com/ddj1226/SpendSense/internal/insight"
	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/shopspring/decimal"
)

const (
	forecastTxCount = 500
	analysisTxCount = 100

	insightUnavailable  = "AI could not generate insight."
	analysisUnavailable = "Could not generate analysis (AI Error)."
	defaultCategory     = "General"
)

// GoalForecast is the goal projection returned to the dashboard
type GoalForecast struct {
	CurrentBalance   decimal.Decimal            `json:"current_balance"`
	ProjectedBalance decimal.Decimal            `json:"projected_balance"`
	IsOnTrack        bool                       `json:"is_on_track"`
	AIInsight        string                     `json:"ai_insight"`
	TopCategories    []models.CategorySpend     `json:"top_categories"`
	History          []models.DailyBalancePoint `json:"history"`
}

// ForecastGoal projects the user's net worth to targetDate, saves the goal and explains the result
func (s *Service) ForecastGoal(ctx context.Context, userID int64, targetAmount decimal.Decimal, targetDate string) (*GoalForecast, error) {
	date, err := parseTargetDate(targetDate)
	if err != nil {
		return nil, err
	}
	accessToken, err := s.accessToken(userID)
	if err != nil {
		return nil, err
	}

	eval, err := s.evaluate(ctx, accessToken, targetAmount, date)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveGoal(&models.Goal{UserID: userID, TargetAmount: targetAmount, TargetDate: targetDate}); err != nil {
		return nil, err
	}

	return &GoalForecast{
		CurrentBalance:   eval.CurrentNetWorth,
		ProjectedBalance: eval.ProjectedBalance,
		IsOnTrack:        eval.IsOnTrack,
		AIInsight:        s.summarize(ctx, eval, targetAmount, targetDate),
		TopCategories:    eval.TopCategories,
		History:          eval.History,
	}, nil
}

// AnalyzeSpending looks for subscriptions and savings opportunities in the last 60 days of expenses
func (s *Service) AnalyzeSpending(ctx context.Context, userID int64) (string, error) {
	accessToken, err := s.accessToken(userID)
	if err != nil {
		return "", err
	}

	start, end := s.window(analytics.CategoryWindowDays)
	txs, err := s.reader.GetTransactions(ctx, accessToken, start, end, analysisTxCount)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBankData, err)
	}

	var lines []insight.ExpenseLine
	for _, t := range txs {
		if !t.Amount.IsPositive() {
			continue
		}
		category := defaultCategory
		if len(t.Categories) > 0 {
			category = t.Categories[0]
		}
		lines = append(lines, insight.ExpenseLine{Name: t.Name, Amount: t.Amount, Category: category})
	}

	analysis, err := s.insights.AnalyzeSpending(ctx, lines)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("Spending analysis failed")
		return analysisUnavailable, nil
	}
	return analysis, nil
}

// evaluate fetches balances and the forecast window of transactions and runs the evaluator
func (s *Service) evaluate(ctx context.Context, accessToken string, targetAmount decimal.Decimal, targetDate time.Time) (*models.GoalEvaluation, error) {
	accounts, err := s.reader.GetAccounts(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankData, err)
	}
	start, end := s.window(forecast.HistoryWindowDays)
	txs, err := s.reader.GetTransactions(ctx, accessToken, start, end, forecastTxCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankData, err)
	}
	return s.evaluator.Evaluate(accounts, txs, targetAmount, targetDate)
}

func (s *Service) summarize(ctx context.Context, eval *models.GoalEvaluation, targetAmount decimal.Decimal, targetDate string) string {
	text, err := s.insights.Summarize(ctx, insight.Summary{
		NetWorth:      eval.CurrentNetWorth,
		TargetAmount:  targetAmount,
		TargetDate:    targetDate,
		Projected:     eval.ProjectedBalance,
		OnTrack:       eval.IsOnTrack,
		TopCategories: eval.TopCategorySummary,
	})
	if err != nil {
		s.log.WithError(err).Error("Insight generation failed")
		return insightUnavailable
	}
	return text
}

func parseTargetDate(value string) (time.Time, error) {
	date, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, &analytics.ValidationError{Field: "target_date", Message: "target_date must be a date in YYYY-MM-DD format"}
	}
	return date, nil
}
