package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mirrorworld/mirror-api/internal/config"
)

// ErrNoCredential is returned by every call when no API key is configured for
// the selected provider.
var ErrNoCredential = errors.New("no model credential configured")

// JSONRequest is one structured-output call. Schema is optional; without it
// the provider is only asked for a JSON object.
type JSONRequest struct {
	Name   string
	System string
	User   string
	Schema map[string]any
}

// Generator is a language model that answers with a JSON document as text.
type Generator interface {
	GenerateJSON(ctx context.Context, req JSONRequest) (string, error)
	Close() error
}

// NewGenerator builds the provider selected in cfg. A missing key yields a
// generator that always fails, so callers serve fallback content.
func NewGenerator(ctx context.Context, cfg config.Config) (Generator, error) {
	if cfg.APIKey() == "" {
		return unavailableGenerator{provider: cfg.LLMProvider}, nil
	}
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		log.Info().Str("model", cfg.OpenAIModel).Msg("Using OpenAI generator")
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case config.ProviderGemini, "":
		g, err := NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		log.Info().Str("model", cfg.GeminiModel).Msg("Using Gemini generator")
		return g, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

type unavailableGenerator struct {
	provider string
}

func (g unavailableGenerator) GenerateJSON(context.Context, JSONRequest) (string, error) {
	return "", fmt.Errorf("%s: %w", g.provider, ErrNoCredential)
}

func (unavailableGenerator) Close() error { return nil }
