package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/alkime/writeablog/internal/ai"
	"github.com/alkime/writeablog/internal/blog"
	"github.com/alkime/writeablog/internal/keyring"
	"github.com/alkime/writeablog/internal/logger"
	"github.com/alkime/writeablog/internal/premium"
	"github.com/alkime/writeablog/internal/tui/generate"
	"github.com/alkime/writeablog/internal/workdir"
	tea "github.com/charmbracelet/bubbletea"
)

// CLI defines the blog command structure.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Generate GenerateCmd `cmd:"" help:"Generate a blog post and save it"`
	Options  OptionsCmd  `cmd:"" help:"List available tones and word counts"`
	Config   ConfigCmd   `cmd:"" help:"Manage configuration"`
	Premium  PremiumCmd  `cmd:"" help:"Manage premium access tokens"`
}

// GenerateCmd generates a single post.
type GenerateCmd struct {
	Topic    string   `arg:"" help:"What the post is about"`
	Tone     []string `short:"t" default:"professional" help:"Writing tone; repeat or comma-separate for several"`
	Words    int      `short:"w" default:"500" help:"Target word count (300, 500, 750, 1000 or 1500)"`
	Research bool     `help:"Ask for current research and statistics"`
	Images   bool     `help:"Generate images for the post"`
	Seed     string   `help:"Original content the post must include"`
	SeedFile string   `type:"existingfile" help:"Read original content from a file"`
	Output   string   `short:"o" help:"Output file (default: ~/Documents/WriteABlog/posts/<slug>.md)"`
	HTML     bool     `help:"Save a standalone HTML page instead of markdown"`

	Provider         string        `env:"AI_PROVIDER" default:"openai" enum:"openai,anthropic" help:"Text provider"`
	Model            string        `env:"CHAT_MODEL" help:"Chat model override"`
	ImageModel       string        `env:"IMAGE_MODEL" help:"Image model override"`
	Temperature      float64       `env:"TEMPERATURE" default:"0.7" help:"Sampling temperature"`
	Timeout          time.Duration `env:"GENERATE_TIMEOUT" default:"2m" help:"Timeout for the whole generation"`
	ImageConcurrency int           `env:"IMAGE_CONCURRENCY" default:"3" help:"Image requests in flight at once"`
	NoHeaderImage    bool          `help:"Do not add a header image when the post has no image placeholders"`
	OpenAIAPIKey     string        `name:"openai-api-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	AnthropicAPIKey  string        `name:"anthropic-api-key" env:"ANTHROPIC_API_KEY" help:"Anthropic API key"`
}

// Run executes the generate command.
func (c *GenerateCmd) Run() error {
	if c.Seed != "" && c.SeedFile != "" {
		return errors.New("use either --seed or --seed-file, not both")
	}

	seed := c.Seed
	if c.SeedFile != "" {
		data, err := os.ReadFile(c.SeedFile)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}
		seed = string(data)
	}

	req := blog.Request{
		Topic:           c.Topic,
		SeedContent:     seed,
		Tones:           c.Tone,
		WordCount:       c.Words,
		IncludeResearch: c.Research,
		IncludeImages:   c.Images,
	}.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	// Resolve API keys: flags and environment variables take priority, fallback to keychain
	backends, err := ai.NewBackends(ai.Settings{
		Provider:        c.Provider,
		OpenAIAPIKey:    keyring.Resolve(keyring.OpenAI, c.OpenAIAPIKey),
		AnthropicAPIKey: keyring.Resolve(keyring.Anthropic, c.AnthropicAPIKey),
		ChatModel:       c.Model,
		ImageModel:      c.ImageModel,
		Temperature:     &c.Temperature,
	})
	if err != nil {
		return fmt.Errorf("%w. Set via environment variables or run 'blog config set-key'", err)
	}
	if req.IncludeImages && backends.Images == nil {
		return errors.New("--images needs an OpenAI API key")
	}

	outputPath, err := c.outputPath(req.Topic)
	if err != nil {
		return err
	}

	gen := blog.NewGenerator(backends.Text, backends.Images, blog.Options{
		Timeout:          c.Timeout,
		ImageConcurrency: c.ImageConcurrency,
		HeaderImage:      !c.NoHeaderImage,
	})

	model := generate.New(context.Background(), gen, generate.Config{
		Request:    req,
		OutputPath: outputPath,
		HTML:       c.HTML,
	})

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if m, ok := final.(*generate.Model); ok && m.Err() != nil {
		return m.Err()
	}

	return nil
}

func (c *GenerateCmd) outputPath(topic string) (string, error) {
	if c.Output != "" {
		return c.Output, nil
	}

	dir, err := workdir.PostsDir()
	if err != nil {
		return "", err
	}
	if err := workdir.Prep(dir); err != nil {
		return "", err
	}

	ext := ".md"
	if c.HTML {
		ext = ".html"
	}

	return workdir.PostPath(dir, topic, ext), nil
}

// OptionsCmd lists the tone and word count catalogs.
type OptionsCmd struct{}

// Run executes the options command.
//
//nolint:unparam // error return required by Kong interface
func (c *OptionsCmd) Run() error {
	fmt.Printf("Tones: %s\n", strings.Join(blog.Tones, ", "))

	counts := make([]string, 0, len(blog.WordCounts))
	for _, n := range blog.WordCounts {
		counts = append(counts, fmt.Sprint(n))
	}
	fmt.Printf("Word counts: %s (default %d)\n", strings.Join(counts, ", "), blog.DefaultWordCount)

	return nil
}

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetKey   SetKeyCmd   `cmd:"" help:"Store an API key in system keychain"`
	ListKeys ListKeysCmd `cmd:"" name:"list-keys" help:"Show which API keys are configured"`
}

// SetKeyCmd stores an API key in the system keychain.
type SetKeyCmd struct {
	Service string `arg:"" enum:"openai,anthropic" help:"Service name (openai or anthropic)"`
	Secret  string `arg:"" help:"API key value"`
}

// Run executes the set-key command.
func (c *SetKeyCmd) Run() error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("API key cannot be empty")
	}

	apiKey, err := keyring.APIKeyFromServiceName(c.Service)
	if err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	if err := keyring.Set(apiKey, c.Secret); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	fmt.Printf("%s API key stored in keychain\n", c.Service)

	return nil
}

// ListKeysCmd shows which API keys are configured.
type ListKeysCmd struct{}

// Run executes the list-keys command.
//
//nolint:unparam // error return required by Kong interface
func (c *ListKeysCmd) Run() error {
	allSet := true

	for _, apiKey := range keyring.AllAPIKeys() {
		if keyring.IsSet(apiKey) {
			fmt.Printf("%s: configured\n", apiKey.DisplayName())
		} else {
			fmt.Printf("%s: not set\n", apiKey.DisplayName())
			allSet = false
		}
	}

	if !allSet {
		fmt.Println("\nRun 'blog config set-key <service> <key>' to configure.")
	}

	return nil
}

// PremiumCmd groups premium token subcommands.
type PremiumCmd struct {
	Issue IssueCmd `cmd:"" help:"Mint a premium token for a customer"`
}

// IssueCmd mints a premium token signed with PREMIUM_SECRET.
type IssueCmd struct {
	Subject string        `required:"" help:"Customer identifier stored in the token"`
	TTL     time.Duration `name:"ttl" default:"720h" help:"How long the token stays valid"`
	Secret  string        `env:"PREMIUM_SECRET" required:"" help:"Signing secret shared with the server"`
}

// Run executes the issue command.
func (c *IssueCmd) Run() error {
	verifier, err := premium.NewVerifier(c.Secret)
	if err != nil {
		return err
	}

	token, err := verifier.Issue(c.Subject, c.TTL)
	if err != nil {
		return err
	}

	fmt.Println(token)

	return nil
}

func main() {
	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("blog"),
		kong.Description("Generate SEO-optimized blog posts from the terminal."),
		kong.UsageOnError(),
	)

	// Logs go to stderr so they never mix with the TUI or printed tokens
	logger.SetupCLILogger(os.Stderr, cli.Verbose)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
