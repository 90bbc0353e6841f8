// Package ai adapts the OpenAI and Anthropic SDKs to the text and image
// generator interfaces used by the blog generator.
package ai

import (
	"fmt"
	"log/slog"

	"github.com/alkime/writeablog/internal/blog"
)

// Provider names accepted by Settings.Provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey     string
	BaseURL    string
	ChatModel  string
	ImageModel string
	// Temperature is nil for DefaultTemperature; an explicit 0 is kept.
	Temperature *float64
}

func (c ProviderConfig) temperature() float64 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// Settings selects the text provider and carries credentials for both.
type Settings struct {
	Provider        string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	ChatModel       string
	ImageModel      string
	Temperature     *float64
}

// Backends are the generators handed to blog.NewGenerator.
type Backends struct {
	Text   blog.TextGenerator
	Images blog.ImageGenerator
}

// NewBackends builds the text generator for the selected provider. Images
// always come from OpenAI and are left nil when no OpenAI key is set.
func NewBackends(s Settings) (Backends, error) {
	var b Backends

	var oa *OpenAI
	if s.OpenAIAPIKey != "" {
		var err error
		oa, err = NewOpenAI(ProviderConfig{
			APIKey:      s.OpenAIAPIKey,
			ChatModel:   chatModelFor(s, ProviderOpenAI),
			ImageModel:  s.ImageModel,
			Temperature: s.Temperature,
		})
		if err != nil {
			return Backends{}, err
		}
		b.Images = oa
	}

	switch s.Provider {
	case ProviderOpenAI, "":
		if oa == nil {
			return Backends{}, fmt.Errorf("provider %q: missing OpenAI API key", ProviderOpenAI)
		}
		b.Text = oa
	case ProviderAnthropic:
		an, err := NewAnthropic(ProviderConfig{
			APIKey:      s.AnthropicAPIKey,
			ChatModel:   chatModelFor(s, ProviderAnthropic),
			Temperature: s.Temperature,
		})
		if err != nil {
			return Backends{}, fmt.Errorf("provider %q: %w", ProviderAnthropic, err)
		}
		b.Text = an
	default:
		return Backends{}, fmt.Errorf("unknown AI provider %q: must be 'openai' or 'anthropic'", s.Provider)
	}

	if b.Images == nil {
		slog.Warn("No OpenAI API key configured; image placeholders will not be resolved")
	}

	return b, nil
}

// chatModelFor applies the configured chat model only to the selected provider,
// so an Anthropic model name never reaches the OpenAI client.
func chatModelFor(s Settings, provider string) string {
	selected := s.Provider
	if selected == "" {
		selected = ProviderOpenAI
	}
	if selected != provider {
		return ""
	}
	return s.ChatModel
}
