package imagegen

import (
	"fmt"
	"os"
	"time"
)

// Config holds image backend configuration.
type Config struct {
	// Provider selects the backend: "gemini", "openai" or "mock".
	Provider string

	Gemini GeminiConfig
	OpenAI OpenAIConfig

	// Timeout bounds a single Generate call.
	Timeout time.Duration
}

// GeminiConfig configures the Imagen backend.
type GeminiConfig struct {
	APIKey      string
	Model       string // Default: "imagen-4.0-generate-001"
	AspectRatio string // Default: "1:1"
	MIMEType    string // Default: "image/jpeg"
	BaseURL     string
}

// OpenAIConfig configures the OpenAI images backend.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "dall-e-3"
	Size    string // Default: "1024x1024"
	BaseURL string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			Model:       "imagen-4.0-generate-001",
			AspectRatio: "1:1",
			MIMEType:    "image/jpeg",
		},
		OpenAI: OpenAIConfig{
			Model: "dall-e-3",
			Size:  "1024x1024",
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables. API keys are
// shared with the text backends: VISIQ_*_API_KEY first, then the bare
// vendor variable.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("VISIQ_IMAGE_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	cfg.Gemini.APIKey = firstEnv("VISIQ_GEMINI_API_KEY", "GEMINI_API_KEY")
	cfg.OpenAI.APIKey = firstEnv("VISIQ_OPENAI_API_KEY", "OPENAI_API_KEY")

	if m := os.Getenv("VISIQ_IMAGE_MODEL"); m != "" {
		switch cfg.Provider {
		case "openai":
			cfg.OpenAI.Model = m
		default:
			cfg.Gemini.Model = m
		}
	}
	return cfg
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks that the selected backend has its API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("VISIQ_GEMINI_API_KEY or GEMINI_API_KEY is required for gemini images")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("VISIQ_OPENAI_API_KEY or OPENAI_API_KEY is required for openai images")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown image provider: %q", c.Provider)
	}
	return nil
}
