package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	sandboxBaseURL     = "https://sandbox.plaid.com"
	developmentBaseURL = "https://development.plaid.com"
	productionBaseURL  = "https://production.plaid.com"

	apiVersion = "2020-09-14"
	clientName = "Spend Sense"
)

// ClientConfig configures the Plaid client
type ClientConfig struct {
	Environment string // sandbox, development or production
	ClientID    string
	Secret      string
	BaseURL     string // overrides Environment when set
	HTTPClient  *http.Client
}

// Client handles integration with Plaid
type Client struct {
	baseURL  string
	clientID string
	secret   string
	client   *http.Client
	log      *logrus.Logger
}

// NewClient initializes a new Plaid client
func NewClient(cfg ClientConfig, log *logrus.Logger) (*Client, error) {
	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, ErrNotConfigured
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		switch strings.ToLower(cfg.Environment) {
		case "production":
			baseURL = productionBaseURL
		case "development":
			baseURL = developmentBaseURL
		default:
			baseURL = sandboxBaseURL
		}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: cfg.ClientID,
		secret:   cfg.Secret,
		client:   httpClient,
		log:      log,
	}, nil
}

// CreateLinkToken creates a Link token for the transactions product
func (c *Client) CreateLinkToken(ctx context.Context, clientUserID string) (string, error) {
	body := map[string]interface{}{
		"client_name":   clientName,
		"language":      "en",
		"country_codes": []string{"US"},
		"products":      []string{"transactions"},
		"user":          map[string]string{"client_user_id": clientUserID},
	}
	resp, err := doPost[linkTokenCreateResponse](ctx, c, "/link/token/create", body)
	if err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

// ExchangePublicToken swaps a Link public token for a long-lived access token
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (string, error) {
	body := map[string]interface{}{
		"public_token": publicToken,
	}
	resp, err := doPost[publicTokenExchangeResponse](ctx, c, "/item/public_token/exchange", body)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// GetAccounts returns every account on the item with its current balance
func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]models.Account, error) {
	body := map[string]interface{}{
		"access_token": accessToken,
	}
	resp, err := doPost[accountsResponse](ctx, c, "/accounts/balance/get", body)
	if err != nil {
		return nil, err
	}

	accounts := make([]models.Account, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		accounts = append(accounts, toAccount(a))
	}
	c.log.Debugf("Plaid returned %d accounts", len(accounts))
	return accounts, nil
}

// GetTransactions returns at most count transactions dated within [start, end]
func (c *Client) GetTransactions(ctx context.Context, accessToken string, start, end time.Time, count int) ([]models.Transaction, error) {
	body := map[string]interface{}{
		"access_token": accessToken,
		"start_date":   start.Format(models.DateLayout),
		"end_date":     end.Format(models.DateLayout),
		"options":      map[string]int{"count": count},
	}
	resp, err := doPost[transactionsResponse](ctx, c, "/transactions/get", body)
	if err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(resp.Transactions))
	for _, t := range resp.Transactions {
		tx, err := toTransaction(t)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	c.log.Debugf("Plaid returned %d of %d transactions", len(txs), resp.TotalTransactions)
	return txs, nil
}

// doPost sends a credentialed JSON request and decodes the response
func doPost[Resp any](ctx context.Context, c *Client, path string, reqBody map[string]interface{}) (*Resp, error) {
	reqBody["client_id"] = c.clientID
	reqBody["secret"] = c.secret

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Plaid-Version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(path, resp)
	}

	var out Resp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// parseError maps a Plaid error body to a sentinel where one exists
func (c *Client) parseError(path string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		apiErr.ErrorType = e.ErrorType
		apiErr.ErrorCode = e.ErrorCode
		apiErr.ErrorMessage = e.ErrorMessage
		apiErr.RequestID = e.RequestID
	} else {
		apiErr.ErrorMessage = string(body)
	}

	c.log.WithFields(logrus.Fields{
		"path":       path,
		"status":     apiErr.StatusCode,
		"error_type": apiErr.ErrorType,
		"error_code": apiErr.ErrorCode,
		"request_id": apiErr.RequestID,
	}).Warn("Plaid request failed")

	switch {
	case apiErr.ErrorCode == "INVALID_ACCESS_TOKEN" || apiErr.ErrorType == "INVALID_ACCESS_TOKEN":
		return ErrInvalidToken
	case apiErr.ErrorType == "RATE_LIMIT_EXCEEDED" || apiErr.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case apiErr.ErrorCode == "ITEM_LOGIN_REQUIRED":
		return ErrItemLoginRequired
	}
	return apiErr
}

func toAccount(a plaidAccount) models.Account {
	balance := decimal.Zero
	if a.Balances.Current != nil {
		balance = decimal.NewFromFloat(*a.Balances.Current)
	}
	var subtype string
	if a.Subtype != nil {
		subtype = *a.Subtype
	}
	return models.Account{
		ID:      a.AccountID,
		Name:    a.Name,
		Type:    models.AccountType(a.Type),
		Subtype: subtype,
		Balance: balance,
	}
}

func toTransaction(t plaidTransaction) (models.Transaction, error) {
	date, err := time.Parse(models.DateLayout, t.Date)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s: invalid date %q: %w", t.TransactionID, t.Date, err)
	}
	var primary string
	if t.PersonalFinanceCategory != nil {
		primary = t.PersonalFinanceCategory.Primary
	}
	return models.Transaction{
		ID:              t.TransactionID,
		Date:            date,
		Name:            t.Name,
		Amount:          decimal.NewFromFloat(t.Amount),
		PrimaryCategory: primary,
		Categories:      t.Category,
	}, nil
}
