// Command forecast projects a savings goal from an exported OFX statement without a bank link.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ddj1226/SpendSense/internal/analytics"
	"github.com/ddj1226/SpendSense/internal/clock"
	"github.com/ddj1226/SpendSense/internal/forecast"
	"github.com/ddj1226/SpendSense/internal/insight"
	"github.com/ddj1226/SpendSense/internal/integrations/ofx"
	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "forecast:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("forecast", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "OFX statement to read")
	target := fs.String("target", "", "savings target amount")
	date := fs.String("date", "", "goal date (YYYY-MM-DD)")
	asOf := fs.String("asof", "", "treat this date as today (YYYY-MM-DD); defaults to the current date")
	verbose := fs.Bool("v", false, "log model diagnostics")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" || *target == "" || *date == "" {
		fs.Usage()
		return errors.New("-file, -target and -date are required")
	}

	targetAmount, err := decimal.NewFromString(*target)
	if err != nil {
		return fmt.Errorf("invalid -target: %w", err)
	}
	targetDate, err := time.Parse(models.DateLayout, *date)
	if err != nil {
		return fmt.Errorf("invalid -date: %w", err)
	}
	var clk clock.Clock = clock.Real{}
	if *asOf != "" {
		t, err := time.Parse(models.DateLayout, *asOf)
		if err != nil {
			return fmt.Errorf("invalid -asof: %w", err)
		}
		clk = clock.Fixed{T: t}
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(logrus.ErrorLevel)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	stmt, err := ofx.ParseFile(*file)
	if err != nil {
		return err
	}

	forecaster := forecast.NewForecaster(forecast.NewAdditiveFitter(forecast.DefaultOptions()), clk, log)
	eval, err := analytics.NewEvaluator(forecaster, clk).Evaluate(stmt.Accounts, stmt.Transactions, targetAmount, targetDate)
	if err != nil {
		return err
	}

	text, err := insight.NewTemplateGenerator().Summarize(context.Background(), insight.Summary{
		NetWorth:      eval.CurrentNetWorth,
		TargetAmount:  targetAmount,
		TargetDate:    *date,
		Projected:     eval.ProjectedBalance,
		OnTrack:       eval.IsOnTrack,
		TopCategories: eval.TopCategorySummary,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, renderReport(report{
		Accounts:     stmt.Accounts,
		Transactions: len(stmt.Transactions),
		TargetAmount: targetAmount,
		TargetDate:   *date,
		Evaluation:   eval,
		Insight:      text,
	}, defaultStyles()))
	return err
}
