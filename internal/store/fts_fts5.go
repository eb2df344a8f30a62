//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			note_id UNINDEXED,
			title,
			plain_text,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, noteID, title, plain string) error {
	_, _ = tx.Exec(`DELETE FROM notes_fts WHERE note_id = ?`, noteID)
	_, err := tx.Exec(`INSERT INTO notes_fts (note_id, title, plain_text) VALUES (?, ?, ?)`,
		noteID, title, plain)
	if err != nil {
		return fmt.Errorf("store: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, noteID string) error {
	if _, err := tx.Exec(`DELETE FROM notes_fts WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("store: delete fts: %w", err)
	}
	return nil
}

func (s *Store) searchLocked(query string, limit int) ([]SearchResult, error) {
	rows, err := s.conn.Query(`
		SELECT f.note_id,
		       highlight(notes_fts, 1, '<mark>', '</mark>'),
		       n.emoji,
		       snippet(notes_fts, 2, '<mark>', '</mark>', '...', 32)
		FROM notes_fts f
		JOIN notes n ON n.id = f.note_id AND n.is_trashed = 0
		WHERE notes_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, phrasePrefix(query), limit)
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

// matchOtherNotesLocked returns the ids of non-trashed notes other than
// excludeID whose text matches the given keyword as a phrase.
func (s *Store) matchOtherNotesLocked(keyword, excludeID string) ([]string, error) {
	rows, err := s.conn.Query(`
		SELECT f.note_id
		FROM notes_fts f
		JOIN notes n ON n.id = f.note_id AND n.is_trashed = 0
		WHERE notes_fts MATCH ? AND f.note_id <> ?
	`, `"`+keyword+`"`, excludeID)
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
