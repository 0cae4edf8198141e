package composer

import (
	"bytes"
	"fmt"
	"strings"

	"promptpad/internal/markdown"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns a model response into an HTML fragment.
type Renderer interface {
	Render(text string) (string, error)
}

// QuirkyRenderer is the ordered regex pipeline in package markdown.
type QuirkyRenderer struct{}

func (QuirkyRenderer) Render(text string) (string, error) {
	return markdown.Render(text), nil
}

// CommonMarkRenderer renders with goldmark (GFM). Raw HTML in the input is
// omitted rather than passed through.
type CommonMarkRenderer struct {
	md goldmark.Markdown
}

func NewCommonMarkRenderer() *CommonMarkRenderer {
	return &CommonMarkRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

func (r *CommonMarkRenderer) Render(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewRenderer selects a renderer by engine name: "quirky" (default) or
// "commonmark".
func NewRenderer(engine string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", "quirky":
		return QuirkyRenderer{}, nil
	case "commonmark", "goldmark":
		return NewCommonMarkRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown render engine: %s", engine)
	}
}
