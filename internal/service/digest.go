package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ddj1226/SpendSense/internal/analytics"
	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/ddj1226/SpendSense/internal/utils/email"
	"github.com/sirupsen/logrus"
)

// DigestReport counts the outcome of one digest run
type DigestReport struct {
	Sent    int
	Skipped int
	Failed  int
}

// SendGoalDigests emails a progress report for every saved goal of a bank-connected user.
// Failures for one user are logged and do not stop the run.
func (s *Service) SendGoalDigests(ctx context.Context) (DigestReport, error) {
	var report DigestReport
	if s.digests == nil || s.reader == nil {
		return report, fmt.Errorf("goal digest is not configured")
	}

	targets, err := s.repo.ListDigestTargets()
	if err != nil {
		return report, err
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		entry := s.log.WithFields(logrus.Fields{
			"user_id":     target.User.ID,
			"target_date": target.Goal.TargetDate,
		})

		err := s.sendDigest(ctx, target)
		var verr *analytics.ValidationError
		switch {
		case err == nil:
			report.Sent++
		case errors.As(err, &verr):
			report.Skipped++
			entry.Infof("Skipping goal digest: %s", verr.Message)
		default:
			report.Failed++
			entry.WithError(err).Error("Goal digest failed")
		}
	}

	s.log.WithFields(logrus.Fields{
		"sent":    report.Sent,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	}).Info("Goal digest run finished")
	return report, nil
}

func (s *Service) sendDigest(ctx context.Context, target models.DigestTarget) error {
	date, err := parseTargetDate(target.Goal.TargetDate)
	if err != nil {
		return err
	}
	accessToken, err := s.openToken(&target.User)
	if err != nil {
		return err
	}

	eval, err := s.evaluate(ctx, accessToken, target.Goal.TargetAmount, date)
	if err != nil {
		return err
	}

	return s.digests.SendGoalDigest(target.User.Email, email.Digest{
		FirstName:     target.User.FirstName,
		NetWorth:      eval.CurrentNetWorth,
		TargetAmount:  target.Goal.TargetAmount,
		TargetDate:    target.Goal.TargetDate,
		Projected:     eval.ProjectedBalance,
		OnTrack:       eval.IsOnTrack,
		TopCategories: eval.TopCategorySummary,
		Insight:       s.summarize(ctx, eval, target.Goal.TargetAmount, target.Goal.TargetDate),
	})
}
