package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Env       string `envconfig:"ENV" default:"development"`
	Port      string `envconfig:"PORT" default:"8080"`
	StaticDir string `envconfig:"STATIC_DIR" default:"./public"`

	// Security settings
	HSTSMaxAge    int      `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	CSPMode       string   `envconfig:"CSP_MODE" default:"relaxed"`
	CORSOrigins   []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	PremiumSecret string   `envconfig:"PREMIUM_SECRET"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// AI settings
	AIProvider       string        `envconfig:"AI_PROVIDER" default:"openai"`
	OpenAIAPIKey     string        `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey  string        `envconfig:"ANTHROPIC_API_KEY"`
	ChatModel        string        `envconfig:"CHAT_MODEL"`
	ImageModel       string        `envconfig:"IMAGE_MODEL" default:"dall-e-3"`
	Temperature      float64       `envconfig:"TEMPERATURE" default:"0.7"`
	GenerateTimeout  time.Duration `envconfig:"GENERATE_TIMEOUT" default:"2m"`
	ImageConcurrency int           `envconfig:"IMAGE_CONCURRENCY" default:"3"`
	HeaderImage      bool          `envconfig:"HEADER_IMAGE" default:"true"`

	// Session settings
	RedisURL       string        `envconfig:"REDIS_URL"`
	SessionLockTTL time.Duration `envconfig:"SESSION_LOCK_TTL" default:"5m"`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist (expected in production)
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	// Parse environment variables into config struct
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks settings that envconfig cannot express with tags.
func (c *Config) Validate() error {
	if c.ImageConcurrency < 1 {
		return fmt.Errorf("IMAGE_CONCURRENCY must be at least 1, got %d", c.ImageConcurrency)
	}
	if c.GenerateTimeout <= 0 {
		return fmt.Errorf("GENERATE_TIMEOUT must be positive, got %s", c.GenerateTimeout)
	}
	// A lock that expires mid-generation lets a second request for the session in.
	if c.RedisURL != "" && c.SessionLockTTL <= c.GenerateTimeout {
		return fmt.Errorf("SESSION_LOCK_TTL (%s) must be longer than GENERATE_TIMEOUT (%s)",
			c.SessionLockTTL, c.GenerateTimeout)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("TEMPERATURE must be between 0 and 2, got %g", c.Temperature)
	}
	if c.Env == EnvProduction && c.CSPMode != "strict" {
		log.Printf("Warning: running in production with CSP_MODE=%s", c.CSPMode)
	}

	return nil
}

// PremiumEnabled reports whether premium features are gated.
func (c *Config) PremiumEnabled() bool {
	return c.PremiumSecret != ""
}

// BuildCSP constructs Content Security Policy based on mode.
// Generated images are served from the provider's CDN, hence https: in img-src.
func BuildCSP(mode string) string {
	if mode == "strict" {
		// Production CSP
		return "default-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'; " +
			"img-src 'self' https: data:; " +
			"object-src 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	// Development/relaxed CSP
	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"img-src 'self' https: data:"
}
