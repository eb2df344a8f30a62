package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nasby/ansuz/internal/apperr"
	"github.com/nasby/ansuz/internal/richtext"
)

// Note is the full representation of a document or folder row.
type Note struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	PlainText  string  `json:"plain_text"`
	Emoji      string  `json:"emoji"`
	ParentID   *string `json:"parent_id"`
	IsFolder   bool    `json:"is_folder"`
	IsFavorite bool    `json:"is_favorite"`
	IsPinned   bool    `json:"is_pinned"`
	IsTrashed  bool    `json:"is_trashed"`
	SortOrder  int64   `json:"sort_order"`
	CreatedAt  int64   `json:"created_at"`
	UpdatedAt  int64   `json:"updated_at"`
	TrashedAt  *int64  `json:"trashed_at"`
	WordCount  int64   `json:"word_count"`
}

// TreeNote is the lightweight shape used by the sidebar tree.
type TreeNote struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	ParentID   *string `json:"parent_id"`
	Emoji      string  `json:"emoji"`
	IsFolder   bool    `json:"is_folder"`
	IsFavorite bool    `json:"is_favorite"`
	IsPinned   bool    `json:"is_pinned"`
	SortOrder  int64   `json:"sort_order"`
}

// NoteRef is a minimal (id, title, emoji) reference.
type NoteRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Emoji string `json:"emoji"`
}

// RecentNote is one entry of the recently-edited list.
type RecentNote struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Emoji     string `json:"emoji"`
	UpdatedAt int64  `json:"updated_at"`
}

// TrashedNote is one entry of the trash view.
type TrashedNote struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Emoji     string `json:"emoji"`
	TrashedAt int64  `json:"trashed_at"`
}

const noteColumns = `id, title, content, plain_text, emoji, parent_id,
	is_folder, is_favorite, is_pinned, is_trashed, sort_order,
	created_at, updated_at, trashed_at, word_count`

func scanNote(row interface{ Scan(...any) error }) (*Note, error) {
	var n Note
	var parent sql.NullString
	var trashedAt sql.NullInt64
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.PlainText, &n.Emoji, &parent,
		&n.IsFolder, &n.IsFavorite, &n.IsPinned, &n.IsTrashed, &n.SortOrder,
		&n.CreatedAt, &n.UpdatedAt, &trashedAt, &n.WordCount)
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		n.ParentID = &parent.String
	}
	if trashedAt.Valid {
		n.TrashedAt = &trashedAt.Int64
	}
	return &n, nil
}

// CreateNote inserts an empty untitled note under the given parent (nil for
// root) and returns its id.
func (s *Store) CreateNote(parentID *string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	now := s.unix()

	tx, err := s.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO notes (id, title, content, parent_id, created_at, updated_at)
		VALUES (?, 'Untitled', '[]', ?, ?, ?)
	`, id, parentID, now, now)
	if err != nil {
		return "", fmt.Errorf("store: create note: %w", err)
	}
	if err := ftsUpsert(tx, id, "Untitled", ""); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// CreateFolder inserts a folder row with the given name and returns its id.
func (s *Store) CreateFolder(name string, parentID *string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	now := s.unix()

	tx, err := s.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO notes (id, title, is_folder, emoji, parent_id, created_at, updated_at)
		VALUES (?, ?, 1, '📁', ?, ?, ?)
	`, id, name, parentID, now, now)
	if err != nil {
		return "", fmt.Errorf("store: create folder: %w", err)
	}
	if err := ftsUpsert(tx, id, name, ""); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// CreateNoteFromTemplate inserts a fully-populated note and returns its id.
// plainText is the caller's projection of content; word count derives from it.
func (s *Store) CreateNoteFromTemplate(title, emoji, content, plainText string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertNoteLocked(title, emoji, content, plainText)
}

func (s *Store) insertNoteLocked(title, emoji, content, plainText string) (string, error) {
	id := uuid.NewString()
	now := s.unix()

	tx, err := s.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO notes (id, title, emoji, content, plain_text, word_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, title, emoji, content, plainText, richtext.WordCount(plainText), now, now)
	if err != nil {
		return "", fmt.Errorf("store: create note: %w", err)
	}
	if err := ftsUpsert(tx, id, title, plainText); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// SaveContent stores new content, title and plain text for a note,
// recomputing word_count and updated_at and refreshing the search shadow in
// the same transaction.
func (s *Store) SaveContent(id, content, title, plainText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`
		UPDATE notes SET content = ?, title = ?, plain_text = ?, word_count = ?, updated_at = ?
		WHERE id = ?
	`, content, title, plainText, richtext.WordCount(plainText), s.unix(), id)
	if err != nil {
		return fmt.Errorf("store: save content: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	if err := ftsUpsert(tx, id, title, plainText); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Rename updates a note's title and its search shadow.
func (s *Store) Rename(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var plain string
	if err := tx.QueryRow(`SELECT plain_text FROM notes WHERE id = ?`, id).Scan(&plain); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("store: rename: %w", err)
	}
	if _, err := tx.Exec(`UPDATE notes SET title = ? WHERE id = ?`, title, id); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	if err := ftsUpsert(tx, id, title, plain); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Move reparents a note. The parent reference is not checked for folder-ness
// or cycles; the model accepts whatever hierarchy the caller declares.
func (s *Store) Move(id string, newParentID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simpleUpdate(`UPDATE notes SET parent_id = ? WHERE id = ?`, newParentID, id)
}

// ToggleFavorite flips the favorite flag.
func (s *Store) ToggleFavorite(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simpleUpdate(`UPDATE notes SET is_favorite = CASE WHEN is_favorite = 1 THEN 0 ELSE 1 END WHERE id = ?`, id)
}

// TogglePin flips the pinned flag.
func (s *Store) TogglePin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simpleUpdate(`UPDATE notes SET is_pinned = CASE WHEN is_pinned = 1 THEN 0 ELSE 1 END WHERE id = ?`, id)
}

func (s *Store) simpleUpdate(query string, args ...any) error {
	res, err := s.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("store: update note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Trash soft-deletes a note and cascades to its direct children only.
// Grandchildren keep their state; restore is deliberately asymmetric and
// never cascades.
func (s *Store) Trash(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.unix()

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`UPDATE notes SET is_trashed = 1, trashed_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("store: trash note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	_, err = tx.Exec(`UPDATE notes SET is_trashed = 1, trashed_at = ? WHERE parent_id = ? AND is_trashed = 0`, now, id)
	if err != nil {
		return fmt.Errorf("store: trash children: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Restore clears the trash flags of a single note. Children trashed by the
// cascade stay in the trash.
func (s *Store) Restore(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simpleUpdate(`UPDATE notes SET is_trashed = 0, trashed_at = NULL WHERE id = ?`, id)
}

// Purge permanently deletes a note along with its tag memberships, wikilink
// edges (both directions), flashcards, and search shadow. Irreversible.
func (s *Store) Purge(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM note_tags WHERE note_id = ?`, id); err != nil {
		return fmt.Errorf("store: purge tags: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM wikilinks WHERE source_note_id = ? OR target_note_id = ?`, id, id); err != nil {
		return fmt.Errorf("store: purge links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM flashcards WHERE note_id = ?`, id); err != nil {
		return fmt.Errorf("store: purge flashcards: %w", err)
	}
	if err := ftsDelete(tx, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: purge note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Get returns the full note row regardless of trash state.
func (s *Store) Get(id string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := scanNote(s.conn.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get note: %w", err)
	}
	return n, nil
}

// Tree returns all non-trashed notes in sidebar order: pinned first, then
// sort_order, then creation time.
func (s *Store) Tree() ([]TreeNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.Query(`
		SELECT id, title, parent_id, emoji, is_folder, is_favorite, is_pinned, sort_order
		FROM notes
		WHERE is_trashed = 0
		ORDER BY is_pinned DESC, sort_order ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: tree: %w", err)
	}
	defer rows.Close()

	out := []TreeNote{}
	for rows.Next() {
		var t TreeNote
		var parent sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &parent, &t.Emoji, &t.IsFolder, &t.IsFavorite, &t.IsPinned, &t.SortOrder); err != nil {
			return nil, err
		}
		if parent.Valid {
			t.ParentID = &parent.String
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Recent returns the most recently edited non-folder notes.
func (s *Store) Recent(limit int) ([]RecentNote, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.Query(`
		SELECT id, title, emoji, updated_at FROM notes
		WHERE is_trashed = 0 AND is_folder = 0
		ORDER BY updated_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent: %w", err)
	}
	defer rows.Close()

	out := []RecentNote{}
	for rows.Next() {
		var r RecentNote
		if err := rows.Scan(&r.ID, &r.Title, &r.Emoji, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Favorites returns all non-trashed favorite notes.
func (s *Store) Favorites() ([]NoteRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryRefsLocked(`SELECT id, title, emoji FROM notes WHERE is_favorite = 1 AND is_trashed = 0`)
}

// Trashed returns trash-view entries, most recently trashed first.
func (s *Store) Trashed() ([]TrashedNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.Query(`
		SELECT id, title, emoji, trashed_at FROM notes
		WHERE is_trashed = 1
		ORDER BY trashed_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: trashed: %w", err)
	}
	defer rows.Close()

	out := []TrashedNote{}
	for rows.Next() {
		var t TrashedNote
		if err := rows.Scan(&t.ID, &t.Title, &t.Emoji, &t.TrashedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// MostRecent returns the most recently edited non-folder note, or
// apperr.ErrNotFound on an empty store.
func (s *Store) MostRecent() (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := scanNote(s.conn.QueryRow(`
		SELECT ` + noteColumns + ` FROM notes
		WHERE is_trashed = 0 AND is_folder = 0
		ORDER BY updated_at DESC LIMIT 1
	`))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: most recent: %w", err)
	}
	return n, nil
}

// Titles returns (id, title, emoji) for every non-trashed, non-folder note,
// the candidate set for the wikilink picker.
func (s *Store) Titles() ([]NoteRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryRefsLocked(`SELECT id, title, emoji FROM notes WHERE is_trashed = 0 AND is_folder = 0 ORDER BY title`)
}

// FindByTitle returns the id of the first non-trashed note whose title
// matches case-insensitively, or apperr.ErrNotFound.
func (s *Store) FindByTitle(title string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	err := s.conn.QueryRow(`
		SELECT id FROM notes WHERE title = ? COLLATE NOCASE AND is_trashed = 0 LIMIT 1
	`, title).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: find by title: %w", err)
	}
	return id, nil
}

// GetOrCreateDailyNote returns the note titled with the given YYYY-MM-DD
// date, creating it when absent. Idempotent per date.
func (s *Store) GetOrCreateDailyNote(date string) (string, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", fmt.Errorf("%w: date %q", apperr.ErrInvalid, date)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	err := s.conn.QueryRow(`
		SELECT id FROM notes
		WHERE title = ? COLLATE NOCASE AND is_trashed = 0 AND is_folder = 0
		LIMIT 1
	`, date).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("store: daily note: %w", err)
	}

	id = uuid.NewString()
	now := s.unix()

	tx, err := s.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO notes (id, title, content, emoji, created_at, updated_at)
		VALUES (?, ?, '[]', '📅', ?, ?)
	`, id, date, now, now)
	if err != nil {
		return "", fmt.Errorf("store: daily note: %w", err)
	}
	if err := ftsUpsert(tx, id, date, ""); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

func (s *Store) queryRefsLocked(query string, args ...any) ([]NoteRef, error) {
	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query notes: %w", err)
	}
	defer rows.Close()

	out := []NoteRef{}
	for rows.Next() {
		var r NoteRef
		if err := rows.Scan(&r.ID, &r.Title, &r.Emoji); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
