// Package workspace holds the composer state: tabs, their prompt blocks and
// the per-tab generation history.
//
// The state is a plain value owned by the caller. Nothing in this package
// keeps global state; the shell loads a State, mutates it through these
// methods and hands it back to storage.
package workspace

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"promptpad/internal/reorder"

	"github.com/google/uuid"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	MaxHistory     = 50
	newBlockHeader = "Heading"
)

var (
	ErrTabNotFound     = errors.New("tab not found")
	ErrBlockNotFound   = errors.New("block not found")
	ErrLastTab         = errors.New("cannot delete the last tab")
	ErrLastBlock       = errors.New("cannot delete the last block")
	ErrEmptyName       = errors.New("tab name must not be empty")
	ErrEmptyPrompt     = errors.New("prompt is empty")
	ErrNoActiveTab     = errors.New("no active tab")
	ErrIndexOutOfRange = errors.New("block index out of range")
	ErrUnknownField    = errors.New("unknown block field")
)

type State struct {
	APIKey      string `json:"apiKey"`
	Model       string `json:"model"`
	DarkMode    bool   `json:"darkMode"`
	Tabs        []*Tab `json:"tabs"`
	ActiveTabID string `json:"activeTabId"`
}

type Tab struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Blocks  []Block        `json:"blocks"`
	History []HistoryEntry `json:"history"`
}

// Block is one heading/content pair of a prompt. Order within a tab is the
// order the blocks are concatenated in.
type Block struct {
	ID      string `json:"id"`
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type HistoryEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
}

// NewID returns a random identifier for tabs, blocks and history entries.
func NewID() string {
	return uuid.NewString()
}

func newTab(name string) *Tab {
	return &Tab{
		ID:     NewID(),
		Name:   name,
		Blocks: []Block{{ID: NewID()}},
	}
}

// NewState returns a state with a single empty tab selected.
func NewState() *State {
	tab := newTab("Tab 1")
	return &State{
		Model:       DefaultModel,
		Tabs:        []*Tab{tab},
		ActiveTabID: tab.ID,
	}
}

// Normalize fills in defaults for fields a stored state may lack.
func (s *State) Normalize() {
	if strings.TrimSpace(s.Model) == "" {
		s.Model = DefaultModel
	}
	if len(s.Tabs) == 0 {
		s.Tabs = []*Tab{newTab("Tab 1")}
	}
	for _, tab := range s.Tabs {
		if len(tab.Blocks) == 0 {
			tab.Blocks = []Block{{ID: NewID()}}
		}
	}
	if s.FindTab(s.ActiveTabID) == nil {
		s.ActiveTabID = s.Tabs[0].ID
	}
}

func (s *State) FindTab(id string) *Tab {
	for _, tab := range s.Tabs {
		if tab.ID == id {
			return tab
		}
	}
	return nil
}

func (s *State) tabIndex(id string) int {
	for i, tab := range s.Tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) ActiveTab() (*Tab, error) {
	tab := s.FindTab(s.ActiveTabID)
	if tab == nil {
		return nil, ErrNoActiveTab
	}
	return tab, nil
}

// AddTab appends a new tab named after its position and selects it.
func (s *State) AddTab() *Tab {
	tab := newTab(fmt.Sprintf("Tab %d", len(s.Tabs)+1))
	s.Tabs = append(s.Tabs, tab)
	s.ActiveTabID = tab.ID
	return tab
}

func (s *State) SwitchTab(id string) error {
	if s.FindTab(id) == nil {
		return fmt.Errorf("switch to %q: %w", id, ErrTabNotFound)
	}
	s.ActiveTabID = id
	return nil
}

func (s *State) RenameTab(id, name string) error {
	tab := s.FindTab(id)
	if tab == nil {
		return fmt.Errorf("rename %q: %w", id, ErrTabNotFound)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	tab.Name = name
	return nil
}

// DeleteTab removes a tab. When the active tab goes away, the tab that moved
// into its position (or the new last tab) becomes active.
func (s *State) DeleteTab(id string) error {
	if len(s.Tabs) <= 1 {
		return ErrLastTab
	}
	idx := s.tabIndex(id)
	if idx < 0 {
		return fmt.Errorf("delete %q: %w", id, ErrTabNotFound)
	}
	s.Tabs = append(s.Tabs[:idx], s.Tabs[idx+1:]...)
	if s.ActiveTabID == id {
		s.ActiveTabID = s.Tabs[min(idx, len(s.Tabs)-1)].ID
	}
	return nil
}

// HasUserData reports whether deleting the tab would lose anything the user
// typed or generated.
func (t *Tab) HasUserData() bool {
	if len(t.History) > 0 {
		return true
	}
	for _, b := range t.Blocks {
		if strings.TrimSpace(b.Heading) != "" || strings.TrimSpace(b.Content) != "" {
			return true
		}
	}
	return false
}

// AddBlock appends a block to the active tab.
func (s *State) AddBlock() (Block, error) {
	tab, err := s.ActiveTab()
	if err != nil {
		return Block{}, err
	}
	b := Block{ID: NewID(), Heading: newBlockHeader}
	tab.Blocks = append(tab.Blocks, b)
	return b, nil
}

// UpdateBlock sets field ("heading" or "content") of a block in the active tab.
func (s *State) UpdateBlock(id, field, value string) error {
	tab, err := s.ActiveTab()
	if err != nil {
		return err
	}
	for i := range tab.Blocks {
		if tab.Blocks[i].ID != id {
			continue
		}
		switch field {
		case "heading":
			tab.Blocks[i].Heading = value
		case "content":
			tab.Blocks[i].Content = value
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		return nil
	}
	return fmt.Errorf("update %q: %w", id, ErrBlockNotFound)
}

func (s *State) DeleteBlock(id string) error {
	tab, err := s.ActiveTab()
	if err != nil {
		return err
	}
	if len(tab.Blocks) <= 1 {
		return ErrLastBlock
	}
	for i, b := range tab.Blocks {
		if b.ID == id {
			tab.Blocks = append(tab.Blocks[:i], tab.Blocks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %q: %w", id, ErrBlockNotFound)
}

// MoveBlock drops the active tab's block at index from onto index to.
func (s *State) MoveBlock(from, to int) error {
	tab, err := s.ActiveTab()
	if err != nil {
		return err
	}
	if !reorder.InRange(len(tab.Blocks), from, to) {
		return fmt.Errorf("move %d -> %d of %d blocks: %w", from, to, len(tab.Blocks), ErrIndexOutOfRange)
	}
	tab.Blocks = reorder.Move(tab.Blocks, from, to)
	return nil
}

// ComposePrompt concatenates the tab's blocks in order as "heading:\ncontent",
// separated by blank lines.
func ComposePrompt(tab *Tab) (string, error) {
	parts := make([]string, 0, len(tab.Blocks))
	for _, b := range tab.Blocks {
		parts = append(parts, b.Heading+":\n"+b.Content)
	}
	prompt := strings.Join(parts, "\n\n")
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	return prompt, nil
}

// Record prepends a history entry, keeping at most MaxHistory entries.
func (t *Tab) Record(entry HistoryEntry) {
	if entry.ID == "" {
		entry.ID = NewID()
	}
	t.History = append([]HistoryEntry{entry}, t.History...)
	if len(t.History) > MaxHistory {
		t.History = t.History[:MaxHistory]
	}
}
