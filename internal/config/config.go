package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/RichardoC/padchat/internal/llm"
	"github.com/caarlos0/env/v11"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	// Server
	Addr            string        `env:"ADDR" envDefault:":5000"`
	StaticDir       string        `env:"STATIC_DIR" envDefault:"web"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	LogDevelopment  bool          `env:"LOG_DEVELOPMENT" envDefault:"false"`

	// Storage
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite3://padchat.db"`

	// Inference
	Provider    string `env:"LLM_PROVIDER" envDefault:"groq"`
	APIKey      string `env:"LLM_API_KEY"`
	GroqAPIKey  string `env:"GROQ_API_KEY"`
	GeminiKey   string `env:"GEMINI_API_KEY"`
	BaseURL     string `env:"LLM_BASE_URL"`
	TextModel   string `env:"LLM_TEXT_MODEL"`
	VisionModel string `env:"LLM_VISION_MODEL"`
	TitleModel  string `env:"LLM_TITLE_MODEL"`

	// Limits
	MaxImageBase64Bytes int `env:"MAX_IMAGE_BASE64_BYTES" envDefault:"7340032"`
}

type providerDefaults struct {
	baseURL, text, vision, title string
}

var defaults = map[string]providerDefaults{
	ProviderGroq: {
		baseURL: llm.GroqBaseURL,
		text:    "llama-3.3-70b-versatile",
		vision:  "llama-3.2-90b-vision-preview",
		title:   "llama-3.3-70b-versatile",
	},
	ProviderOpenAI: {
		text:   "gpt-4o",
		vision: "gpt-4o",
		title:  "gpt-4o-mini",
	},
	ProviderGemini: {
		text:   "gemini-2.5-flash",
		vision: "gemini-2.5-flash",
		title:  "gemini-2.5-flash-lite",
	},
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.applyProviderDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyProviderDefaults() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	d, ok := defaults[c.Provider]
	if !ok {
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.Provider)
	}

	if c.APIKey == "" {
		switch c.Provider {
		case ProviderGroq:
			c.APIKey = c.GroqAPIKey
		case ProviderGemini:
			c.APIKey = c.GeminiKey
		}
	}
	if c.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required for provider %s", c.Provider)
	}

	if c.BaseURL == "" {
		c.BaseURL = d.baseURL
	}
	if c.TextModel == "" {
		c.TextModel = d.text
	}
	if c.VisionModel == "" {
		c.VisionModel = d.vision
	}
	if c.TitleModel == "" {
		c.TitleModel = d.title
	}
	if c.MaxImageBase64Bytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BASE64_BYTES must be positive")
	}
	return nil
}

// MaxBodyBytes leaves room for the JSON envelope around the largest image.
func (c *Config) MaxBodyBytes() int64 {
	return int64(c.MaxImageBase64Bytes) + 1<<20
}
