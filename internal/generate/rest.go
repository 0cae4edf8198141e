package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// responseSchema rejects answers whose shape would otherwise decode into an
// empty reply. Unknown fields are allowed.
var responseSchema = jsonschema.MustCompileString("generate_content_response.json", `{
	"type": "object",
	"properties": {
		"candidates": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"content": {
						"type": "object",
						"properties": {
							"parts": {
								"type": "array",
								"items": {
									"type": "object",
									"properties": {"text": {"type": "string"}}
								}
							}
						}
					}
				}
			}
		}
	}
}`)

// RESTGenerator calls the generateContent endpoint directly over HTTP.
type RESTGenerator struct {
	client  *http.Client
	apiKey  string
	model   string
	baseURL string
}

type restPart struct {
	Text string `json:"text"`
}

type restContent struct {
	Parts []restPart `json:"parts"`
}

type restRequest struct {
	Contents []restContent `json:"contents"`
}

type restResponse struct {
	Candidates []struct {
		Content restContent `json:"content"`
	} `json:"candidates"`
}

type restError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// APIError is a non-2xx answer from the endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func NewRESTGenerator(apiKey, model, baseURL string, timeout time.Duration) *RESTGenerator {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &RESTGenerator{
		client: &http.Client{
			Timeout: timeout,
		},
		apiKey:  apiKey,
		model:   model,
		baseURL: base,
	}
}

func (g *RESTGenerator) endpoint() string {
	return fmt.Sprintf("%s/v1/models/%s:generateContent?key=%s", g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))
}

func (g *RESTGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(g.apiKey) == "" {
		return "", ErrMissingAPIKey
	}
	if strings.TrimSpace(g.model) == "" {
		return "", fmt.Errorf("model is required")
	}

	body, err := json.Marshal(restRequest{
		Contents: []restContent{{Parts: []restPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("API Error: %d", resp.StatusCode)}
		var parsed restError
		if json.Unmarshal(raw, &parsed) == nil && parsed.Error.Message != "" {
			apiErr.Message = parsed.Error.Message
		}
		return "", apiErr
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if err := responseSchema.Validate(doc); err != nil {
		return "", fmt.Errorf("unexpected response shape: %w", err)
	}
	var parsed restResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return NoResponseText, nil
	}
	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return NoResponseText, nil
	}
	return text, nil
}
