package service

import (
	"context"
	"errors"
	"time"

	"github.com/ddj1226/SpendSense/internal/analytics"
	"github.com/ddj1226/SpendSense/internal/clock"
	"github.com/ddj1226/SpendSense/internal/config"
	"github.com/ddj1226/SpendSense/internal/insight"
	"github.com/ddj1226/SpendSense/internal/integrations/plaid"
	"github.com/ddj1226/SpendSense/internal/repository"
	"github.com/ddj1226/SpendSense/internal/utils"
	"github.com/ddj1226/SpendSense/internal/utils/email"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEmailTaken is returned when signing up with a registered email
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for an unknown email or wrong password
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrBankNotConnected is returned when the user has not linked a bank
	ErrBankNotConnected = errors.New("bank not connected")

	// ErrBankData wraps provider failures while fetching balances or transactions
	ErrBankData = errors.New("failed to fetch bank data")

	// ErrBankUnavailable is returned when no bank provider is configured
	ErrBankUnavailable = errors.New("bank integration is not configured")
)

// BankLinker creates Link sessions and exchanges their public tokens
type BankLinker interface {
	CreateLinkToken(ctx context.Context, clientUserID string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (string, error)
}

// DigestSender delivers goal digests
type DigestSender interface {
	SendGoalDigest(to string, d email.Digest) error
}

// Dependencies are the collaborators a Service is built from.
// Linker, Reader and Digests may be nil when the matching integration is not configured.
type Dependencies struct {
	Repo      *repository.Repository
	Linker    BankLinker
	Reader    plaid.Reader
	Cipher    *utils.TokenCipher
	Evaluator *analytics.Evaluator
	Insights  insight.Generator
	Digests   DigestSender
	Clock     clock.Clock
	Config    *config.Config
	Log       *logrus.Logger
}

// Service handles business logic
type Service struct {
	repo      *repository.Repository
	linker    BankLinker
	reader    plaid.Reader
	cipher    *utils.TokenCipher
	evaluator *analytics.Evaluator
	insights  insight.Generator
	digests   DigestSender
	clock     clock.Clock
	config    *config.Config
	log       *logrus.Logger
}

// NewService initializes a new service
func NewService(d Dependencies) *Service {
	return &Service{
		repo:      d.Repo,
		linker:    d.Linker,
		reader:    d.Reader,
		cipher:    d.Cipher,
		evaluator: d.Evaluator,
		insights:  d.Insights,
		digests:   d.Digests,
		clock:     d.Clock,
		config:    d.Config,
		log:       d.Log,
	}
}

// window returns the [today-days, today] date range
func (s *Service) window(days int) (time.Time, time.Time) {
	today := clock.Today(s.clock)
	return today.AddDate(0, 0, -days), today
}
