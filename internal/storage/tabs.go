package storage

import (
	"database/sql"
	"fmt"

	"github.com/vidyasagar/ink/internal/navigation"
)

// TabState is one persisted tab: its title and navigation history.
type TabState struct {
	ID       int                 `json:"id"`
	Title    string              `json:"title"`
	Snapshot navigation.Snapshot `json:"history"`
}

// WindowState is the persisted set of open tabs, in tab-bar order.
type WindowState struct {
	Active int        `json:"active"` // id of the focused tab
	Tabs   []TabState `json:"tabs"`
}

// TabStore saves and restores the open tabs between runs.
type TabStore struct {
	db *sql.DB
}

// NewTabStore creates a tab store using the given database.
func NewTabStore(db *DB) *TabStore {
	return &TabStore{db: db.Conn()}
}

// Save replaces any previously saved window state with ws.
func (ts *TabStore) Save(ws WindowState) error {
	tx, err := ts.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning tab state tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tab_entries`); err != nil {
		return fmt.Errorf("clearing tab entries: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM tabs`); err != nil {
		return fmt.Errorf("clearing tabs: %w", err)
	}

	tabStmt, err := tx.Prepare(
		`INSERT INTO tabs (tab_id, ordinal, title, current_pos, max_pos, active) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing tab insert: %w", err)
	}
	defer tabStmt.Close()

	entryStmt, err := tx.Prepare(
		`INSERT INTO tab_entries (tab_id, position, url) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing entry insert: %w", err)
	}
	defer entryStmt.Close()

	for i, tab := range ws.Tabs {
		snap := tab.Snapshot
		if _, err := tabStmt.Exec(tab.ID, i, tab.Title, snap.Current, snap.Max, tab.ID == ws.Active); err != nil {
			return fmt.Errorf("saving tab %d: %w", tab.ID, err)
		}
		for _, e := range snap.Entries {
			if _, err := entryStmt.Exec(tab.ID, e.Position, e.URL); err != nil {
				return fmt.Errorf("saving tab %d entry %d: %w", tab.ID, e.Position, err)
			}
		}
	}

	return tx.Commit()
}

// Load returns the saved window state. The boolean is false when nothing has
// been saved.
func (ts *TabStore) Load() (WindowState, bool, error) {
	var ws WindowState

	rows, err := ts.db.Query(
		`SELECT tab_id, title, current_pos, max_pos, active FROM tabs ORDER BY ordinal`,
	)
	if err != nil {
		return ws, false, fmt.Errorf("loading tabs: %w", err)
	}
	for rows.Next() {
		var tab TabState
		var active bool
		if err := rows.Scan(&tab.ID, &tab.Title, &tab.Snapshot.Current, &tab.Snapshot.Max, &active); err != nil {
			rows.Close()
			return ws, false, fmt.Errorf("scanning tab: %w", err)
		}
		if active {
			ws.Active = tab.ID
		}
		ws.Tabs = append(ws.Tabs, tab)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ws, false, fmt.Errorf("loading tabs: %w", err)
	}
	if len(ws.Tabs) == 0 {
		return ws, false, nil
	}

	for i := range ws.Tabs {
		entries, err := ts.entries(ws.Tabs[i].ID)
		if err != nil {
			return ws, false, err
		}
		ws.Tabs[i].Snapshot.Entries = entries
		ws.Tabs[i].Snapshot.Size = len(entries)
	}

	return ws, true, nil
}

func (ts *TabStore) entries(tabID int) ([]navigation.Entry, error) {
	rows, err := ts.db.Query(
		`SELECT position, url FROM tab_entries WHERE tab_id = ? ORDER BY position`,
		tabID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading entries for tab %d: %w", tabID, err)
	}
	defer rows.Close()

	var entries []navigation.Entry
	for rows.Next() {
		var e navigation.Entry
		if err := rows.Scan(&e.Position, &e.URL); err != nil {
			return nil, fmt.Errorf("scanning entry for tab %d: %w", tabID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear forgets the saved window state.
func (ts *TabStore) Clear() error {
	if _, err := ts.db.Exec(`DELETE FROM tab_entries`); err != nil {
		return fmt.Errorf("clearing tab entries: %w", err)
	}
	if _, err := ts.db.Exec(`DELETE FROM tabs`); err != nil {
		return fmt.Errorf("clearing tabs: %w", err)
	}
	return nil
}
