package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"promptpad/internal/workspace"

	_ "github.com/mattn/go-sqlite3"
)

const (
	keyAPIKey      = "api_key"
	keyModel       = "model"
	keyDarkMode    = "dark_mode"
	keyActiveTabID = "active_tab_id"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS tabs (
			id TEXT PRIMARY KEY,
			name TEXT,
			position INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS blocks (
			id TEXT PRIMARY KEY,
			tab_id TEXT,
			heading TEXT,
			content TEXT,
			position INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			tab_id TEXT,
			created_at TEXT,
			prompt TEXT,
			response TEXT,
			position INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_tab ON blocks(tab_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_history_tab ON history(tab_id, position);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the whole state in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, st *workspace.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Settings
	settings := map[string]string{
		keyAPIKey:      st.APIKey,
		keyModel:       st.Model,
		keyDarkMode:    strconv.FormatBool(st.DarkMode),
		keyActiveTabID: st.ActiveTabID,
	}
	for k, v := range settings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value=excluded.value
		`, k, v); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", k, err)
		}
	}

	// 2. Snapshot sync: drop rows, then write the current tabs in order.
	for _, table := range []string{"tabs", "blocks", "history"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	tabStmt, err := tx.PrepareContext(ctx, `INSERT INTO tabs (id, name, position) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer tabStmt.Close()

	blockStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO blocks (id, tab_id, heading, content, position) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer blockStmt.Close()

	histStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO history (id, tab_id, created_at, prompt, response, position) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer histStmt.Close()

	for i, tab := range st.Tabs {
		if _, err := tabStmt.ExecContext(ctx, tab.ID, tab.Name, i); err != nil {
			return fmt.Errorf("failed to save tab %s: %w", tab.ID, err)
		}
		for j, b := range tab.Blocks {
			if _, err := blockStmt.ExecContext(ctx, b.ID, tab.ID, b.Heading, b.Content, j); err != nil {
				return fmt.Errorf("failed to save block %s: %w", b.ID, err)
			}
		}
		for j, h := range tab.History {
			ts := h.Timestamp.UTC().Format(time.RFC3339Nano)
			if _, err := histStmt.ExecContext(ctx, h.ID, tab.ID, ts, h.Prompt, h.Response, j); err != nil {
				return fmt.Errorf("failed to save history %s: %w", h.ID, err)
			}
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Load(ctx context.Context) (*workspace.State, error) {
	st := &workspace.State{}

	// 1. Settings
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	found := false
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		found = true
		switch k {
		case keyAPIKey:
			st.APIKey = v
		case keyModel:
			st.Model = v
		case keyDarkMode:
			st.DarkMode, _ = strconv.ParseBool(v)
		case keyActiveTabID:
			st.ActiveTabID = v
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoState
	}

	// 2. Tabs
	tabRows, err := s.db.QueryContext(ctx, "SELECT id, name FROM tabs ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query tabs: %w", err)
	}
	byID := make(map[string]*workspace.Tab)
	for tabRows.Next() {
		tab := &workspace.Tab{}
		if err := tabRows.Scan(&tab.ID, &tab.Name); err != nil {
			tabRows.Close()
			return nil, fmt.Errorf("failed to scan tab: %w", err)
		}
		st.Tabs = append(st.Tabs, tab)
		byID[tab.ID] = tab
	}
	tabRows.Close()
	if err := tabRows.Err(); err != nil {
		return nil, err
	}

	// 3. Blocks
	blockRows, err := s.db.QueryContext(ctx, "SELECT id, tab_id, heading, content FROM blocks ORDER BY tab_id, position")
	if err != nil {
		return nil, fmt.Errorf("failed to query blocks: %w", err)
	}
	defer blockRows.Close()
	for blockRows.Next() {
		var b workspace.Block
		var tabID string
		if err := blockRows.Scan(&b.ID, &tabID, &b.Heading, &b.Content); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		if tab, ok := byID[tabID]; ok {
			tab.Blocks = append(tab.Blocks, b)
		}
	}
	if err := blockRows.Err(); err != nil {
		return nil, err
	}

	// 4. History
	histRows, err := s.db.QueryContext(ctx, "SELECT id, tab_id, created_at, prompt, response FROM history ORDER BY tab_id, position")
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer histRows.Close()
	for histRows.Next() {
		var h workspace.HistoryEntry
		var tabID, ts string
		if err := histRows.Scan(&h.ID, &tabID, &ts, &h.Prompt, &h.Response); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		h.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("history %s: bad timestamp %q: %w", h.ID, ts, err)
		}
		if tab, ok := byID[tabID]; ok {
			tab.History = append(tab.History, h)
		}
	}
	if err := histRows.Err(); err != nil {
		return nil, err
	}

	return st, nil
}
