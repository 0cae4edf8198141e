// Package composer is the application layer between the CLI and the core
// packages. It loads the workspace, applies changes, calls the generator and
// renders responses.
package composer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"promptpad/internal/generate"
	"promptpad/internal/storage"
	"promptpad/internal/workspace"

	"github.com/rs/zerolog/log"
)

// GeneratorFactory builds a Generator for the given options.
type GeneratorFactory func(ctx context.Context, opts generate.Options) (generate.Generator, error)

// Settings are the generation options that come from configuration rather
// than from the workspace.
type Settings struct {
	Provider string
	BaseURL  string
	Timeout  time.Duration
	// APIKey is used when the workspace has none.
	APIKey string
	// Model, when set, replaces the workspace model.
	Model string
}

type Service struct {
	store    storage.Store
	factory  GeneratorFactory
	renderer Renderer
	settings Settings
	now      func() time.Time
}

// Result is one completed generation.
type Result struct {
	TabID string
	Entry workspace.HistoryEntry
	HTML  string
}

func NewService(store storage.Store, factory GeneratorFactory, renderer Renderer, settings Settings) *Service {
	if factory == nil {
		factory = generate.New
	}
	if renderer == nil {
		renderer = QuirkyRenderer{}
	}
	return &Service{
		store:    store,
		factory:  factory,
		renderer: renderer,
		settings: settings,
		now:      time.Now,
	}
}

// State returns the current workspace.
func (s *Service) State(ctx context.Context) (*workspace.State, error) {
	return storage.LoadOrInit(ctx, s.store)
}

// Update loads the workspace, applies fn and saves the result. Nothing is
// saved when fn fails.
func (s *Service) Update(ctx context.Context, fn func(*workspace.State) error) (*workspace.State, error) {
	st, err := storage.LoadOrInit(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to save workspace: %w", err)
	}
	return st, nil
}

func (s *Service) options(st *workspace.State) generate.Options {
	opts := generate.Options{
		Provider: s.settings.Provider,
		BaseURL:  s.settings.BaseURL,
		Timeout:  s.settings.Timeout,
		APIKey:   st.APIKey,
		Model:    st.Model,
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		opts.APIKey = s.settings.APIKey
	}
	if s.settings.Model != "" {
		opts.Model = s.settings.Model
	}
	return opts
}

// Generate sends the active tab's prompt to the model, records the answer in
// the tab's history and returns it rendered.
func (s *Service) Generate(ctx context.Context) (*Result, error) {
	st, err := storage.LoadOrInit(ctx, s.store)
	if err != nil {
		return nil, err
	}
	tab, err := st.ActiveTab()
	if err != nil {
		return nil, err
	}

	opts := s.options(st)
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, generate.ErrMissingAPIKey
	}

	prompt, err := workspace.ComposePrompt(tab)
	if err != nil {
		return nil, err
	}

	gen, err := s.factory(ctx, opts)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("tab", tab.Name).Str("model", opts.Model).Int("blocks", len(tab.Blocks)).Msg("generating response")
	started := s.now()
	text, err := gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("error generating response: %w", err)
	}
	log.Info().Str("tab", tab.Name).Dur("took", s.now().Sub(started)).Int("chars", len(text)).Msg("response received")

	entry := workspace.HistoryEntry{
		ID:        workspace.NewID(),
		Timestamp: s.now().UTC(),
		Prompt:    prompt,
		Response:  text,
	}
	tab.Record(entry)
	if err := s.store.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}

	html, err := s.renderer.Render(text)
	if err != nil {
		return nil, err
	}
	return &Result{TabID: tab.ID, Entry: entry, HTML: html}, nil
}

// History returns the active tab's history, newest first.
func (s *Service) History(ctx context.Context) ([]workspace.HistoryEntry, error) {
	st, err := storage.LoadOrInit(ctx, s.store)
	if err != nil {
		return nil, err
	}
	tab, err := st.ActiveTab()
	if err != nil {
		return nil, err
	}
	return tab.History, nil
}

// Entry returns the n-th history entry (1 = newest) of the active tab.
func (s *Service) Entry(ctx context.Context, n int) (workspace.HistoryEntry, error) {
	history, err := s.History(ctx)
	if err != nil {
		return workspace.HistoryEntry{}, err
	}
	if n < 1 || n > len(history) {
		return workspace.HistoryEntry{}, fmt.Errorf("history entry %d: %w (have %d)", n, ErrNoHistory, len(history))
	}
	return history[n-1], nil
}

func (s *Service) Render(text string) (string, error) {
	return s.renderer.Render(text)
}

// Now reads the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}
