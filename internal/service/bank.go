package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ddj1226/SpendSense/internal/analytics"
	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/shopspring/decimal"
)

const (
	recentWindowDays = 30
	recentCount      = 100
)

// invalidator is implemented by readers that cache per access token
type invalidator interface {
	Invalidate(accessToken string)
}

// AccountView is an account as shown on the dashboard
type AccountView struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
	Type    string          `json:"type"`
}

// TransactionView is a transaction as shown on the dashboard
type TransactionView struct {
	Date     string          `json:"date"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}

// Activity is the dashboard payload of balances and recent transactions
type Activity struct {
	Accounts     []AccountView     `json:"accounts"`
	Transactions []TransactionView `json:"transactions"`
}

// CreateLinkToken starts a bank link session for the user
func (s *Service) CreateLinkToken(ctx context.Context, userID int64) (string, error) {
	if s.linker == nil {
		return "", ErrBankUnavailable
	}
	token, err := s.linker.CreateLinkToken(ctx, strconv.FormatInt(userID, 10))
	if err != nil {
		return "", fmt.Errorf("failed to create link token: %w", err)
	}
	return token, nil
}

// ExchangePublicToken completes a bank link and stores the sealed access token
func (s *Service) ExchangePublicToken(ctx context.Context, userID int64, publicToken string) error {
	if s.linker == nil {
		return ErrBankUnavailable
	}
	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return err
	}

	accessToken, err := s.linker.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return fmt.Errorf("failed to exchange public token: %w", err)
	}
	sealed, err := s.cipher.Seal(accessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}
	if err := s.repo.SetAccessToken(userID, sealed); err != nil {
		return err
	}

	if inv, ok := s.reader.(invalidator); ok && user.BankConnected() {
		if previous, err := s.cipher.Open(user.AccessToken); err == nil {
			inv.Invalidate(previous)
		}
	}

	s.log.Infof("Bank connected for user %d", userID)
	return nil
}

// Activity returns account balances and the last 30 days of transactions
func (s *Service) Activity(ctx context.Context, userID int64) (*Activity, error) {
	accessToken, err := s.accessToken(userID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.reader.GetAccounts(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankData, err)
	}
	start, end := s.window(recentWindowDays)
	txs, err := s.reader.GetTransactions(ctx, accessToken, start, end, recentCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankData, err)
	}

	out := &Activity{
		Accounts:     make([]AccountView, 0, len(accounts)),
		Transactions: make([]TransactionView, 0, len(txs)),
	}
	for _, a := range accounts {
		kind := a.Subtype
		if kind == "" {
			kind = string(a.Type)
		}
		out.Accounts = append(out.Accounts, AccountView{Name: a.Name, Balance: a.Balance, Type: kind})
	}
	for _, t := range txs {
		out.Transactions = append(out.Transactions, TransactionView{
			Date:     t.DateKey(),
			Name:     t.Name,
			Amount:   t.Amount,
			Category: analytics.CategoryLabel(t),
		})
	}
	return out, nil
}

// accessToken loads and opens the user's stored provider token
func (s *Service) accessToken(userID int64) (string, error) {
	if s.reader == nil {
		return "", ErrBankUnavailable
	}
	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return "", err
	}
	return s.openToken(user)
}

func (s *Service) openToken(user *models.User) (string, error) {
	if !user.BankConnected() {
		return "", ErrBankNotConnected
	}
	token, err := s.cipher.Open(user.AccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt access token: %w", err)
	}
	return token, nil
}
