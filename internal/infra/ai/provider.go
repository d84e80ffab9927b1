package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/bryanwahyu/profilepilot/internal/infra/ai/gemini"
	"github.com/bryanwahyu/profilepilot/internal/infra/ai/openai"
	goopenai "github.com/sashabaranov/go-openai"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Settings selects and configures the generation provider.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// NewGenerator returns the generator for s.Provider (gemini when empty).
func NewGenerator(ctx context.Context, s Settings) (analysis.Generator, error) {
	switch s.Provider {
	case "", ProviderGemini:
		return gemini.NewClient(ctx, gemini.Options{
			APIKey:  s.APIKey,
			Model:   s.Model,
			BaseURL: s.BaseURL,
			Timeout: s.Timeout,
		})
	case ProviderOpenAI:
		if s.APIKey == "" {
			return nil, fmt.Errorf("%w: openai api key is empty", analysis.ErrConfiguration)
		}
		cfg := goopenai.DefaultConfig(s.APIKey)
		if s.BaseURL != "" {
			cfg.BaseURL = s.BaseURL
		}
		return openai.NewClientWithConfig(cfg, s.Model, s.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: unknown ai provider %q", analysis.ErrConfiguration, s.Provider)
	}
}
