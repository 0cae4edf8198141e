package generate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// New builds the Generator for opts.Provider ("gemini" when empty).
func New(ctx context.Context, opts Options) (Generator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "gemini"
	}

	switch provider {
	case "gemini":
		g, err := NewGeminiGenerator(ctx, opts.APIKey, opts.Model)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "rest":
		return NewRESTGenerator(opts.APIKey, opts.Model, opts.BaseURL, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", opts.Provider)
	}
}
