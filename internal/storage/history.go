package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vidyasagar/ink/internal/navigation"
)

// MaxHistoryEntries caps the global browsing history.
const MaxHistoryEntries = 1000

// HistoryEntry represents a single visited page.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	VisitedAt time.Time `json:"visited_at"`
}

// HistoryStore manages the global browsing history persisted in SQLite.
// It is independent of per-tab navigation history.
type HistoryStore struct {
	db      *sql.DB
	maxSize int
	now     func() time.Time
}

// NewHistoryStore creates a history store using the given database.
func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{
		db:      db.Conn(),
		maxSize: MaxHistoryEntries,
		now:     time.Now,
	}
}

// Add records a page visit. If the URL is already the most recent entry, its
// timestamp (and title, when one is given) is refreshed instead. The new-tab
// page is never recorded.
func (hs *HistoryStore) Add(url, title string) error {
	if url == "" || url == navigation.NewTabURL {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning history tx: %w", err)
	}
	defer tx.Rollback()

	visitedAt := hs.now().UnixNano()

	var lastID int64
	var lastURL string
	err = tx.QueryRow(
		`SELECT id, url FROM history ORDER BY visited_at DESC, id DESC LIMIT 1`,
	).Scan(&lastID, &lastURL)
	switch {
	case err == nil && lastURL == url:
		if _, err := tx.Exec(
			`UPDATE history SET visited_at = ?, title = CASE WHEN ? = '' THEN title ELSE ? END WHERE id = ?`,
			visitedAt, title, title, lastID,
		); err != nil {
			return fmt.Errorf("refreshing history entry: %w", err)
		}
		return tx.Commit()
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("reading latest history entry: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO history (url, title, visited_at) VALUES (?, ?, ?)`,
		url, title, visitedAt,
	); err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}

	// Trim if over max.
	if _, err := tx.Exec(
		`DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY visited_at DESC, id DESC LIMIT ?
		)`,
		hs.maxSize,
	); err != nil {
		return fmt.Errorf("trimming history: %w", err)
	}

	return tx.Commit()
}

// List returns up to limit entries, newest first. A limit <= 0 returns everything.
func (hs *HistoryStore) List(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := hs.db.Query(
		`SELECT id, url, title, visited_at FROM history
		 ORDER BY visited_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

// likeEscaper makes \, % and _ match literally under ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search finds entries whose title or URL contains query, newest first.
// The query is matched literally.
func (hs *HistoryStore) Search(query string) ([]HistoryEntry, error) {
	like := "%" + likeEscaper.Replace(query) + "%"
	rows, err := hs.db.Query(
		`SELECT id, url, title, visited_at FROM history
		 WHERE title LIKE ? ESCAPE '\' OR url LIKE ? ESCAPE '\'
		 ORDER BY visited_at DESC, id DESC`,
		like, like,
	)
	if err != nil {
		return nil, fmt.Errorf("searching history: %w", err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

// Remove deletes a history entry by id. It reports whether the entry existed.
func (hs *HistoryStore) Remove(id int64) (bool, error) {
	res, err := hs.db.Exec(`DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("removing history entry: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Clear removes all history entries.
func (hs *HistoryStore) Clear() error {
	if _, err := hs.db.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// Count returns the number of history entries.
func (hs *HistoryStore) Count() (int, error) {
	var count int
	if err := hs.db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting history: %w", err)
	}
	return count, nil
}

func scanHistory(rows *sql.Rows) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var visitedAt int64
		if err := rows.Scan(&e.ID, &e.URL, &e.Title, &visitedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.VisitedAt = time.Unix(0, visitedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
