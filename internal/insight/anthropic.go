package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 400

// AnthropicGenerator asks a Claude model for insights
type AnthropicGenerator struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropicGenerator creates a generator for the given model.
// Extra options are appended after the API key, e.g. a base URL for tests.
func NewAnthropicGenerator(apiKey, model string, opts ...option.RequestOption) *AnthropicGenerator {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicGenerator{
		client:    anthropic.NewClient(opts...),
		model:     anthropic.Model(model),
		maxTokens: defaultMaxTokens,
	}
}

// Summarize writes a two-sentence coaching comment on goal progress
func (g *AnthropicGenerator) Summarize(ctx context.Context, s Summary) (string, error) {
	status := "OFF TRACK"
	if s.OnTrack {
		status = "ON TRACK"
	}
	prompt := fmt.Sprintf(summaryPromptTemplate,
		s.NetWorth.StringFixed(2),
		s.TargetAmount.String(),
		s.TargetDate,
		s.Projected.StringFixed(2),
		status,
		s.TopCategories,
	)
	return g.complete(ctx, prompt)
}

// AnalyzeSpending looks for subscriptions and savings opportunities in recent expenses
func (g *AnthropicGenerator) AnalyzeSpending(ctx context.Context, lines []ExpenseLine) (string, error) {
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "- %s ($%s) [%s]\n", l.Name, l.Amount.String(), l.Category)
	}
	return g.complete(ctx, fmt.Sprintf(analysisPromptTemplate, b.String()))
}

func (g *AnthropicGenerator) complete(ctx context.Context, prompt string) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
