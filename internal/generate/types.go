package generate

import (
	"context"
	"errors"
)

// NoResponseText is returned in place of an empty model answer.
const NoResponseText = "No response generated."

var ErrMissingAPIKey = errors.New("api key is not configured")

// Generator sends a prompt to a generative-text model and returns its answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
