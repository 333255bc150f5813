package config

import (
	"os"
	"testing"
	"time"
)

// clearEnv unsets every variable Config reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ADDR", "STATIC_DIR", "SHUTDOWN_TIMEOUT", "LOG_DEVELOPMENT", "DATABASE_URL",
		"LLM_PROVIDER", "LLM_API_KEY", "GROQ_API_KEY", "GEMINI_API_KEY", "LLM_BASE_URL",
		"LLM_TEXT_MODEL", "LLM_VISION_MODEL", "LLM_TITLE_MODEL", "MAX_IMAGE_BASE64_BYTES",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadGroqDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderGroq {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.APIKey != "gsk-test" {
		t.Errorf("api key = %q", cfg.APIKey)
	}
	if cfg.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
	if cfg.TextModel != "llama-3.3-70b-versatile" || cfg.VisionModel != "llama-3.2-90b-vision-preview" {
		t.Errorf("models = %q / %q", cfg.TextModel, cfg.VisionModel)
	}
	if cfg.MaxImageBase64Bytes != 7*1024*1024 {
		t.Errorf("max image = %d", cfg.MaxImageBase64Bytes)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Errorf("shutdown timeout = %s", cfg.ShutdownTimeout)
	}
	if cfg.DatabaseURL != "sqlite3://padchat.db" {
		t.Errorf("database url = %q", cfg.DatabaseURL)
	}
}

func TestLoadGeminiOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("LLM_VISION_MODEL", "gemini-custom")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderGemini || cfg.APIKey != "g-key" {
		t.Errorf("provider = %q, key = %q", cfg.Provider, cfg.APIKey)
	}
	if cfg.VisionModel != "gemini-custom" || cfg.TextModel != "gemini-2.5-flash" {
		t.Errorf("models = %q / %q", cfg.TextModel, cfg.VisionModel)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		clearEnv(t)
		if _, err := Load(); err == nil {
			t.Fatal("expected an error")
		}
	})
	t.Run("unknown provider", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_PROVIDER", "bard")
		t.Setenv("LLM_API_KEY", "x")
		if _, err := Load(); err == nil {
			t.Fatal("expected an error")
		}
	})
	t.Run("bad limit", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_API_KEY", "x")
		t.Setenv("MAX_IMAGE_BASE64_BYTES", "0")
		if _, err := Load(); err == nil {
			t.Fatal("expected an error")
		}
	})
}
