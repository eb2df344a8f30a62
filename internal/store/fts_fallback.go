//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not compiled in; search falls back to LIKE over the notes table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _, _ string) error {
	// Title and plain_text already live in the notes row; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) error { return nil }

func (s *Store) searchLocked(query string, limit int) ([]SearchResult, error) {
	q := strings.ReplaceAll(strings.TrimSpace(query), `"`, "")
	like := "%" + q + "%"
	rows, err := s.conn.Query(`
		SELECT id, title, emoji, substr(plain_text, 1, 200)
		FROM notes
		WHERE is_trashed = 0 AND (title LIKE ? OR plain_text LIKE ?)
		ORDER BY updated_at DESC
		LIMIT ?
	`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	out := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Emoji, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) matchOtherNotesLocked(keyword, excludeID string) ([]string, error) {
	rows, err := s.conn.Query(`
		SELECT id FROM notes
		WHERE is_trashed = 0 AND id <> ? AND (title LIKE ? OR plain_text LIKE ?)
	`, excludeID, "%"+keyword+"%", "%"+keyword+"%")
	if err != nil {
		return nil, fmt.Errorf("store: related match: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
