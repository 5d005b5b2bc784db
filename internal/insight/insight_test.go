package insight

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTemplateSummarize(t *testing.T) {
	gen := NewTemplateGenerator()

	text, err := gen.Summarize(context.Background(), Summary{
		TargetAmount: dec("5000"),
		Projected:    dec("6200.40"),
		OnTrack:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Projected to exceed goal by $1200.", text)

	text, err = gen.Summarize(context.Background(), Summary{
		TargetAmount: dec("5000"),
		Projected:    dec("4200.60"),
		OnTrack:      false,
	})
	require.NoError(t, err)
	assert.Equal(t, "Projected to miss goal by $799.", text)
}

func TestTemplateAnalyzeSpending(t *testing.T) {
	gen := NewTemplateGenerator()

	text, err := gen.AnalyzeSpending(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "No expenses found in the last 60 days.", text)

	lines := []ExpenseLine{
		{Name: "Netflix", Amount: dec("15.99"), Category: "Entertainment"},
		{Name: "Starbucks", Amount: dec("6.50"), Category: "Food And Drink"},
		{Name: "Starbucks", Amount: dec("7.25"), Category: "Food And Drink"},
		{Name: "Rent", Amount: dec("1500"), Category: "Rent And Utilities"},
		{Name: "Bookshop", Amount: dec("3.00"), Category: "General"},
	}
	text, err = gen.AnalyzeSpending(context.Background(), lines)
	require.NoError(t, err)

	got := strings.Split(text, "\n")
	require.Len(t, got, 3)
	assert.Equal(t, "1. Rent ($1500.00) [Rent And Utilities] - 1 charge in the last 60 days.", got[0])
	assert.Equal(t, "2. Netflix ($15.99) [Entertainment] - 1 charge in the last 60 days.", got[1])
	assert.Equal(t, "3. Starbucks ($13.75) [Food And Drink] - 2 charges in the last 60 days.", got[2])
}

type capturedRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func anthropicServer(t *testing.T, reply string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_test",
			"type":          "message",
			"role":          "assistant",
			"model":         captured.Model,
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content": []map[string]any{
				{"type": "text", "text": reply},
			},
			"usage": map[string]any{"input_tokens": 12, "output_tokens": 8},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestAnthropic(srv *httptest.Server) *AnthropicGenerator {
	return NewAnthropicGenerator("test-key", "claude-test",
		option.WithBaseURL(srv.URL+"/"),
		option.WithMaxRetries(0),
	)
}

func TestAnthropicSummarize(t *testing.T) {
	var captured capturedRequest
	srv := anthropicServer(t, "  Great pace! Trim dining out to stay ahead.  ", &captured)
	gen := newTestAnthropic(srv)

	text, err := gen.Summarize(context.Background(), Summary{
		NetWorth:      dec("1234.5"),
		TargetAmount:  dec("5000"),
		TargetDate:    "2027-01-01",
		Projected:     dec("5100"),
		OnTrack:       true,
		TopCategories: "Food And Drink ($420)",
	})
	require.NoError(t, err)
	assert.Equal(t, "Great pace! Trim dining out to stay ahead.", text)

	assert.Equal(t, "claude-test", captured.Model)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	require.Len(t, captured.Messages[0].Content, 1)
	prompt := captured.Messages[0].Content[0].Text
	assert.Contains(t, prompt, "Current Net Worth: $1234.50")
	assert.Contains(t, prompt, "Save $5000 by 2027-01-01")
	assert.Contains(t, prompt, "$5100.00 (ON TRACK)")
	assert.Contains(t, prompt, "Food And Drink ($420)")
}

func TestAnthropicAnalyzeSpending(t *testing.T) {
	var captured capturedRequest
	srv := anthropicServer(t, "1. [Subscription] Netflix", &captured)
	gen := newTestAnthropic(srv)

	text, err := gen.AnalyzeSpending(context.Background(), []ExpenseLine{
		{Name: "Netflix", Amount: dec("15.99"), Category: "Entertainment"},
		{Name: "Corner Shop", Amount: dec("4"), Category: "General"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1. [Subscription] Netflix", text)

	prompt := captured.Messages[0].Content[0].Text
	assert.Contains(t, prompt, "- Netflix ($15.99) [Entertainment]\n")
	assert.Contains(t, prompt, "- Corner Shop ($4) [General]\n")
}

func TestAnthropicEmptyReply(t *testing.T) {
	var captured capturedRequest
	srv := anthropicServer(t, "   ", &captured)
	gen := newTestAnthropic(srv)

	_, err := gen.AnalyzeSpending(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestAnthropicServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}))
	defer srv.Close()

	_, err := newTestAnthropic(srv).Summarize(context.Background(), Summary{})
	assert.Error(t, err)
}
