package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is the chat model used when none is configured.
const DefaultAnthropicModel = anthropic.Model("claude-sonnet-4-5-20250929")

const anthropicMaxTokens = 4096

// Anthropic handles chat completion through the Anthropic Messages API.
// It has no image support.
type Anthropic struct {
	client      anthropic.Client
	model       anthropic.Model
	temperature float64
}

// NewAnthropic creates an Anthropic client.
func NewAnthropic(cfg ProviderConfig, opts ...option.RequestOption) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("API key required: set ANTHROPIC_API_KEY or run 'blog config set-key anthropic <key>'")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)

	a := &Anthropic{
		client:      anthropic.NewClient(reqOpts...),
		model:       anthropic.Model(cfg.ChatModel),
		temperature: cfg.temperature(),
	}
	if a.model == "" {
		a.model = DefaultAnthropicModel
	}

	return a, nil
}

// Complete sends the prompt with the given system instruction and returns
// the concatenated text blocks of the reply.
func (a *Anthropic) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: anthropicMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(a.temperature),
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to generate text via Anthropic API: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", errors.New("empty response from Anthropic API")
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(textBlock.Text)
		}
	}

	if sb.Len() == 0 {
		return "", errors.New("unexpected response type from Anthropic API")
	}

	return sb.String(), nil
}
