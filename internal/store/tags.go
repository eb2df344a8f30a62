package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nasby/ansuz/internal/apperr"
)

// Tag is a label row plus its live (non-trashed) note count. Source is set
// on per-note listings: "inline" for tags derived from #hashtags in content,
// "manual" for explicit attachments.
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt int64  `json:"created_at"`
	NoteCount int64  `json:"note_count"`
	Source    string `json:"source,omitempty"`
}

// Tags returns every tag with its count of non-trashed member notes. Tags
// whose members are all trashed report zero but are still listed; rows are
// never reaped automatically.
func (s *Store) Tags() ([]Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.Query(`
		SELECT t.id, t.name, t.color, t.created_at,
		       COUNT(CASE WHEN n.is_trashed = 0 THEN nt.note_id END)
		FROM tags t
		LEFT JOIN note_tags nt ON nt.tag_id = t.id
		LEFT JOIN notes n ON n.id = nt.note_id
		GROUP BY t.id
		ORDER BY t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list tags: %w", err)
	}
	defer rows.Close()

	out := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.NoteCount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// NoteTags returns the tags attached to one note.
func (s *Store) NoteTags(noteID string) ([]Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.Query(`
		SELECT t.id, t.name, t.color, t.created_at, 0, nt.source
		FROM tags t
		JOIN note_tags nt ON nt.tag_id = t.id
		WHERE nt.note_id = ?
		ORDER BY t.name
	`, noteID)
	if err != nil {
		return nil, fmt.Errorf("store: note tags: %w", err)
	}
	defer rows.Close()

	out := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.NoteCount, &t.Source); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AddTag attaches a tag to a note by name, creating the tag row on first use,
// and returns the tag id. Attaching an already-attached tag is a no-op.
func (s *Store) AddTag(noteID, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	tagID, err := getOrCreateTagTx(tx, name, s.unix())
	if err != nil {
		return "", err
	}
	_, err = tx.Exec(`INSERT OR IGNORE INTO note_tags (note_id, tag_id, source) VALUES (?, ?, 'manual')`, noteID, tagID)
	if err != nil {
		return "", fmt.Errorf("store: add tag: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}
	return tagID, nil
}

// RemoveTag detaches a tag from a note. The tag row itself survives.
func (s *Store) RemoveTag(noteID, tagID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.conn.Exec(`DELETE FROM note_tags WHERE note_id = ? AND tag_id = ?`, noteID, tagID)
	if err != nil {
		return fmt.Errorf("store: remove tag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// SyncInlineTags replaces a note's inline-sourced tag memberships with the
// given set. Manually attached tags are untouched; tag rows are created as
// needed and never deleted here.
func (s *Store) SyncInlineTags(noteID string, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM note_tags WHERE note_id = ? AND source = 'inline'`, noteID); err != nil {
		return fmt.Errorf("store: sync inline tags: %w", err)
	}
	for _, name := range names {
		tagID, err := getOrCreateTagTx(tx, name, s.unix())
		if err != nil {
			return err
		}
		_, err = tx.Exec(`INSERT OR IGNORE INTO note_tags (note_id, tag_id, source) VALUES (?, ?, 'inline')`, noteID, tagID)
		if err != nil {
			return fmt.Errorf("store: sync inline tags: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// MoveToTag moves a note's membership from one named tag to another, the
// card-between-columns operation. The source membership is dropped whatever
// its provenance; the target tag is created on first use and attached as
// manual. Other tags on the note are untouched.
func (s *Store) MoveToTag(noteID, fromTag, toTag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		DELETE FROM note_tags
		WHERE note_id = ? AND tag_id IN (SELECT id FROM tags WHERE name = ?)
	`, noteID, fromTag)
	if err != nil {
		return fmt.Errorf("store: move to tag: %w", err)
	}
	tagID, err := getOrCreateTagTx(tx, toTag, s.unix())
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT OR IGNORE INTO note_tags (note_id, tag_id, source) VALUES (?, ?, 'manual')`, noteID, tagID)
	if err != nil {
		return fmt.Errorf("store: move to tag: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// DeleteTag removes a tag row; memberships cascade away.
func (s *Store) DeleteTag(tagID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.conn.Exec(`DELETE FROM tags WHERE id = ?`, tagID)
	if err != nil {
		return fmt.Errorf("store: delete tag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// NotesByTag returns the non-trashed notes attached to a tag.
func (s *Store) NotesByTag(tagID string) ([]NoteRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryRefsLocked(`
		SELECT n.id, n.title, n.emoji
		FROM notes n
		JOIN note_tags nt ON nt.note_id = n.id
		WHERE nt.tag_id = ? AND n.is_trashed = 0
		ORDER BY n.title
	`, tagID)
}

// getOrCreateTagTx resolves a tag name to its id inside tx, inserting the
// row when missing. Names collide case-sensitively, matching the unique
// index.
func getOrCreateTagTx(tx *sql.Tx, name string, now int64) (string, error) {
	_, err := tx.Exec(`INSERT OR IGNORE INTO tags (id, name, created_at) VALUES (?, ?, ?)`, uuid.NewString(), name, now)
	if err != nil {
		return "", fmt.Errorf("store: upsert tag: %w", err)
	}
	var id string
	if err := tx.QueryRow(`SELECT id FROM tags WHERE name = ?`, name).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.ErrNotFound
		}
		return "", fmt.Errorf("store: resolve tag: %w", err)
	}
	return id, nil
}
