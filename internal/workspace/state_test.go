package workspace

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState_HasSingleActiveTab(t *testing.T) {
	s := NewState()
	require.Len(t, s.Tabs, 1)
	assert.Equal(t, "Tab 1", s.Tabs[0].Name)
	assert.Equal(t, s.Tabs[0].ID, s.ActiveTabID)
	assert.Equal(t, DefaultModel, s.Model)
	require.Len(t, s.Tabs[0].Blocks, 1)
	assert.Empty(t, s.Tabs[0].Blocks[0].Heading)
	assert.NotEmpty(t, s.Tabs[0].Blocks[0].ID)
}

func TestNormalize_FillsDefaults(t *testing.T) {
	s := &State{Tabs: []*Tab{{ID: "t1", Name: "One"}}, ActiveTabID: "gone"}
	s.Normalize()

	assert.Equal(t, DefaultModel, s.Model)
	assert.Equal(t, "t1", s.ActiveTabID)
	assert.Len(t, s.Tabs[0].Blocks, 1)

	empty := &State{}
	empty.Normalize()
	require.Len(t, empty.Tabs, 1)
	assert.Equal(t, empty.Tabs[0].ID, empty.ActiveTabID)
}

func TestAddTab_NamesByCountAndActivates(t *testing.T) {
	s := NewState()
	tab := s.AddTab()
	assert.Equal(t, "Tab 2", tab.Name)
	assert.Equal(t, tab.ID, s.ActiveTabID)
	assert.Len(t, tab.Blocks, 1)
}

func TestSwitchTab(t *testing.T) {
	s := NewState()
	first := s.Tabs[0].ID
	s.AddTab()

	require.NoError(t, s.SwitchTab(first))
	assert.Equal(t, first, s.ActiveTabID)
	assert.ErrorIs(t, s.SwitchTab("missing"), ErrTabNotFound)
}

func TestRenameTab(t *testing.T) {
	s := NewState()
	id := s.Tabs[0].ID

	require.NoError(t, s.RenameTab(id, "  Drafts  "))
	assert.Equal(t, "Drafts", s.Tabs[0].Name)
	assert.ErrorIs(t, s.RenameTab(id, "   "), ErrEmptyName)
	assert.Equal(t, "Drafts", s.Tabs[0].Name)
	assert.ErrorIs(t, s.RenameTab("missing", "x"), ErrTabNotFound)
}

func TestDeleteTab_LastTabIsKept(t *testing.T) {
	s := NewState()
	assert.ErrorIs(t, s.DeleteTab(s.Tabs[0].ID), ErrLastTab)
	assert.Len(t, s.Tabs, 1)
}

func TestDeleteTab_ActivatesNeighbour(t *testing.T) {
	s := NewState()
	t1 := s.Tabs[0].ID
	t2 := s.AddTab().ID
	t3 := s.AddTab().ID

	// Deleting the active middle tab selects the one that slid into its slot.
	require.NoError(t, s.SwitchTab(t2))
	require.NoError(t, s.DeleteTab(t2))
	assert.Equal(t, t3, s.ActiveTabID)

	// Deleting the active last tab selects the new last tab.
	require.NoError(t, s.DeleteTab(t3))
	assert.Equal(t, t1, s.ActiveTabID)
	assert.Len(t, s.Tabs, 1)
}

func TestDeleteTab_InactiveKeepsSelection(t *testing.T) {
	s := NewState()
	t1 := s.Tabs[0].ID
	t2 := s.AddTab().ID
	require.NoError(t, s.DeleteTab(t1))
	assert.Equal(t, t2, s.ActiveTabID)
	assert.ErrorIs(t, s.DeleteTab("missing"), ErrLastTab)
}

func TestHasUserData(t *testing.T) {
	tab := &Tab{Blocks: []Block{{ID: "b", Heading: "  "}}}
	assert.False(t, tab.HasUserData())

	tab.Blocks[0].Content = "hello"
	assert.True(t, tab.HasUserData())

	tab.Blocks[0].Content = ""
	tab.History = []HistoryEntry{{ID: "h"}}
	assert.True(t, tab.HasUserData())
}

func TestBlocks_AddUpdateDelete(t *testing.T) {
	s := NewState()
	first := s.Tabs[0].Blocks[0].ID

	b, err := s.AddBlock()
	require.NoError(t, err)
	assert.Equal(t, "Heading", b.Heading)
	assert.Len(t, s.Tabs[0].Blocks, 2)

	require.NoError(t, s.UpdateBlock(b.ID, "heading", "Role"))
	require.NoError(t, s.UpdateBlock(b.ID, "content", "You review Go code."))
	assert.Equal(t, "Role", s.Tabs[0].Blocks[1].Heading)
	assert.Equal(t, "You review Go code.", s.Tabs[0].Blocks[1].Content)
	assert.ErrorIs(t, s.UpdateBlock(b.ID, "title", "x"), ErrUnknownField)
	assert.ErrorIs(t, s.UpdateBlock("missing", "heading", "x"), ErrBlockNotFound)

	require.NoError(t, s.DeleteBlock(first))
	require.Len(t, s.Tabs[0].Blocks, 1)
	assert.Equal(t, b.ID, s.Tabs[0].Blocks[0].ID)
	assert.ErrorIs(t, s.DeleteBlock(b.ID), ErrLastBlock)
}

func TestMoveBlock(t *testing.T) {
	s := NewState()
	tab := s.Tabs[0]
	tab.Blocks = []Block{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}}

	require.NoError(t, s.MoveBlock(0, 2))
	assert.Equal(t, []string{"B", "C", "A", "D"}, blockIDs(tab))

	require.NoError(t, s.MoveBlock(3, 0))
	assert.Equal(t, []string{"D", "B", "C", "A"}, blockIDs(tab))

	assert.ErrorIs(t, s.MoveBlock(0, 4), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.MoveBlock(-1, 0), ErrIndexOutOfRange)
}

func TestComposePrompt(t *testing.T) {
	tab := &Tab{Blocks: []Block{
		{Heading: "Role", Content: "Reviewer"},
		{Heading: "Task", Content: "Check the diff"},
	}}
	prompt, err := ComposePrompt(tab)
	require.NoError(t, err)
	assert.Equal(t, "Role:\nReviewer\n\nTask:\nCheck the diff", prompt)

	// Blank blocks still carry their separator.
	prompt, err = ComposePrompt(&Tab{Blocks: []Block{{}}})
	require.NoError(t, err)
	assert.Equal(t, ":\n", prompt)

	_, err = ComposePrompt(&Tab{})
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestRecord_NewestFirstAndCapped(t *testing.T) {
	tab := &Tab{}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxHistory+5; i++ {
		tab.Record(HistoryEntry{Timestamp: base.Add(time.Duration(i) * time.Minute), Prompt: fmt.Sprintf("p%d", i)})
	}

	require.Len(t, tab.History, MaxHistory)
	assert.Equal(t, fmt.Sprintf("p%d", MaxHistory+4), tab.History[0].Prompt)
	assert.Equal(t, "p5", tab.History[MaxHistory-1].Prompt)
	assert.NotEmpty(t, tab.History[0].ID)
}

func blockIDs(tab *Tab) []string {
	ids := make([]string, 0, len(tab.Blocks))
	for _, b := range tab.Blocks {
		ids = append(ids, b.ID)
	}
	return ids
}
