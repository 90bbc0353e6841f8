package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultOpenAIChatModel is the chat model used when none is configured.
	DefaultOpenAIChatModel = "gpt-4o-mini"
	// DefaultImageModel is the image model used when none is configured.
	DefaultImageModel = "dall-e-3"
	// DefaultTemperature is the sampling temperature for blog generation.
	DefaultTemperature = 0.7
)

// OpenAI handles chat completion and image generation through the OpenAI API.
type OpenAI struct {
	client      openai.Client
	chatModel   string
	imageModel  string
	temperature float64
}

// NewOpenAI creates an OpenAI client. Extra request options are appended
// after the API key and base URL.
func NewOpenAI(cfg ProviderConfig, opts ...option.RequestOption) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("API key required: set OPENAI_API_KEY or run 'blog config set-key openai <key>'")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)

	o := &OpenAI{
		client:      openai.NewClient(reqOpts...),
		chatModel:   cfg.ChatModel,
		imageModel:  cfg.ImageModel,
		temperature: cfg.temperature(),
	}
	if o.chatModel == "" {
		o.chatModel = DefaultOpenAIChatModel
	}
	if o.imageModel == "" {
		o.imageModel = DefaultImageModel
	}

	return o, nil
}

// Complete sends a system and user message and returns the first choice's text.
func (o *OpenAI) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.chatModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(o.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate text via OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty choices from OpenAI API")
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateImage creates one 1024x1024 image and returns its URL.
func (o *OpenAI) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(o.imageModel),
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate image via OpenAI API: %w", err)
	}

	if len(resp.Data) == 0 || strings.TrimSpace(resp.Data[0].URL) == "" {
		return "", errors.New("no image URL in OpenAI API response")
	}

	return resp.Data[0].URL, nil
}
