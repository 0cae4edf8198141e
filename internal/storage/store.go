package storage

import (
	"context"
	"errors"

	"promptpad/internal/workspace"
)

// ErrNoState is returned by Load when nothing has been saved yet.
var ErrNoState = errors.New("no saved state")

// Store persists the composer state as a single snapshot.
type Store interface {
	// Load reads the last saved state.
	Load(ctx context.Context) (*workspace.State, error)

	// Save replaces the stored state with s. Tabs, blocks and history
	// entries missing from s are removed.
	Save(ctx context.Context, s *workspace.State) error

	Close() error
}

// LoadOrInit loads the saved state, or creates and saves a fresh one when
// the store is empty. The returned state is always normalized.
func LoadOrInit(ctx context.Context, st Store) (*workspace.State, error) {
	s, err := st.Load(ctx)
	if errors.Is(err, ErrNoState) {
		s = workspace.NewState()
		if err := st.Save(ctx, s); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	s.Normalize()
	return s, nil
}
