package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/ddj1226/SpendSense/internal/analytics"
	"github.com/ddj1226/SpendSense/internal/clock"
	"github.com/ddj1226/SpendSense/internal/config"
	"github.com/ddj1226/SpendSense/internal/forecast"
	"github.com/ddj1226/SpendSense/internal/insight"
	"github.com/ddj1226/SpendSense/internal/integrations/plaid"
	"github.com/ddj1226/SpendSense/internal/repository"
	"github.com/ddj1226/SpendSense/internal/service"
	"github.com/ddj1226/SpendSense/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

// fakePlaid serves canned responses for the endpoints the client calls
func fakePlaid(t *testing.T) *httptest.Server {
	t.Helper()
	responses := map[string]string{
		"/link/token/create":          `{"link_token":"link-sandbox-abc"}`,
		"/item/public_token/exchange": `{"access_token":"access-sandbox-xyz","item_id":"item-1"}`,
		"/accounts/balance/get": `{"accounts":[
			{"account_id":"a1","name":"Plaid Checking","type":"depository","subtype":"checking","balances":{"current":2500}},
			{"account_id":"a2","name":"Plaid Credit Card","type":"credit","subtype":"credit card","balances":{"current":400}}
		]}`,
		"/transactions/get": `{"total_transactions":3,"transactions":[
			{"transaction_id":"t1","amount":89.4,"date":"2026-03-10","name":"Uber Eats","category":["Food and Drink"],"personal_finance_category":{"primary":"FOOD_AND_DRINK"}},
			{"transaction_id":"t2","amount":-1500,"date":"2026-03-01","name":"Payroll","category":["Transfer"],"personal_finance_category":{"primary":"INCOME"}},
			{"transaction_id":"t3","amount":12.99,"date":"2026-02-20","name":"Netflix","category":["Service"],"personal_finance_category":{"primary":"ENTERTAINMENT"}}
		]}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	log, _ := test.NewNullLogger()
	clk := clock.Fixed{T: today}
	cfg := &config.Config{JWTSecret: "handler-secret"}

	db, err := repository.Open(repository.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := repository.NewRepository(db, repository.DriverSQLite)
	require.NoError(t, repo.Migrate())

	client, err := plaid.NewClient(plaid.ClientConfig{ClientID: "cid", Secret: "secret", BaseURL: fakePlaid(t).URL}, log)
	require.NoError(t, err)

	cipher, err := utils.NewTokenCipher([]byte("0123456789abcdef"))
	require.NoError(t, err)

	forecaster := forecast.NewForecaster(forecast.NewAdditiveFitter(forecast.DefaultOptions()), clk, log)
	svc := service.NewService(service.Dependencies{
		Repo:      repo,
		Linker:    client,
		Reader:    client,
		Cipher:    cipher,
		Evaluator: analytics.NewEvaluator(forecaster, clk),
		Insights:  insight.NewTemplateGenerator(),
		Clock:     clk,
		Config:    cfg,
		Log:       log,
	})
	return NewHandler(svc, log).Routes(cfg.JWTSecret)
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func signup(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	status, body := do(t, h, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"first_name": "Jordan", "last_name": "Lee", "email": email, "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, status, body)
	return body["access_token"].(string)
}

func TestHealth(t *testing.T) {
	status, body := do(t, newTestAPI(t), http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "API is running", body["status"])
}

func TestAuthFlow(t *testing.T) {
	h := newTestAPI(t)

	status, body := do(t, h, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"first_name": "Jordan", "last_name": "Lee", "email": "jordan@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bearer", body["token_type"])
	assert.Equal(t, "Jordan", body["first_name"])
	assert.Equal(t, false, body["bank_connected"])
	assert.NotEmpty(t, body["access_token"])
	assert.NotZero(t, body["user_id"])

	status, body = do(t, h, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"first_name": "Jordan", "email": "jordan@example.com", "password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already registered", body["detail"])

	status, body = do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "jordan@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Incorrect email or password", body["detail"])

	status, body = do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "jordan@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Jordan", body["first_name"])
}

func TestSignupValidation(t *testing.T) {
	h := newTestAPI(t)

	status, body := do(t, h, http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["detail"], "required")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newTestAPI(t)
	for _, path := range []string{
		"/api/plaid/create_link_token",
		"/api/plaid/exchange_public_token",
		"/api/plaid/transactions",
		"/api/goals/forecast",
		"/api/goals/analyze_spending",
	} {
		status, _ := do(t, h, http.MethodPost, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}
}

func TestBankLinkAndGoalFlow(t *testing.T) {
	h := newTestAPI(t)
	token := signup(t, h, "jordan@example.com")
	goal := map[string]interface{}{"target_amount": 5000, "target_date": "2027-01-01"}

	status, body := do(t, h, http.MethodPost, "/api/goals/forecast", token, goal)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Connect bank first", body["detail"])

	status, body = do(t, h, http.MethodPost, "/api/plaid/create_link_token", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "link-sandbox-abc", body["link_token"])

	status, body = do(t, h, http.MethodPost, "/api/plaid/exchange_public_token", token, map[string]string{"public_token": "public-sandbox-1"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Success", body["message"])

	status, body = do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "jordan@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["bank_connected"])

	status, body = do(t, h, http.MethodPost, "/api/plaid/transactions", token, nil)
	require.Equal(t, http.StatusOK, status, body)
	accounts := body["accounts"].([]interface{})
	require.Len(t, accounts, 2)
	first := accounts[0].(map[string]interface{})
	assert.Equal(t, "Plaid Checking", first["name"])
	assert.Equal(t, 2500.0, first["balance"])
	assert.Equal(t, "checking", first["type"])
	txs := body["transactions"].([]interface{})
	require.Len(t, txs, 3)
	assert.Equal(t, "Food And Drink", txs[0].(map[string]interface{})["category"])
	assert.Equal(t, 89.4, txs[0].(map[string]interface{})["amount"])

	status, body = do(t, h, http.MethodPost, "/api/goals/forecast", token, goal)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, 2100.0, body["current_balance"])
	assert.IsType(t, float64(0), body["projected_balance"])
	assert.IsType(t, true, body["is_on_track"])
	assert.Contains(t, body["ai_insight"], "Projected to")
	history := body["history"].([]interface{})
	require.Len(t, history, forecast.HistoryWindowDays)
	last := history[len(history)-1].(map[string]interface{})
	assert.Equal(t, "2026-03-15", last["date"])
	assert.Equal(t, 2100.0, last["balance"])
	categories := body["top_categories"].([]interface{})
	require.Len(t, categories, 2)
	assert.Equal(t, "Food And Drink", categories[0].(map[string]interface{})["category"])

	status, body = do(t, h, http.MethodPost, "/api/goals/forecast", token, map[string]interface{}{"target_amount": 5000, "target_date": "2026-03-15"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "goal date must be in the future", body["detail"])

	status, body = do(t, h, http.MethodPost, "/api/goals/forecast", token, map[string]interface{}{"target_amount": 5000, "target_date": "next year"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["detail"], "YYYY-MM-DD")

	status, body = do(t, h, http.MethodPost, "/api/goals/analyze_spending", token, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Contains(t, body["analysis"], "1. Uber Eats ($89.40)")
}
