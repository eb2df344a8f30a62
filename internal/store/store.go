// Package store implements the SQLite-backed note store: hierarchical notes,
// tag memberships, the wikilink graph, flashcard scheduling, and the
// full-text shadow index that is maintained in the same transaction as every
// note write (optional FTS5 via the sqlite_fts5 build tag, LIKE fallback
// otherwise).
//
// Concurrency model: one connection guarded by one coarse mutex. Every public
// operation is a single critical section; multi-statement sequences run
// inside one transaction under the lock so readers never observe torn state.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT 'Untitled',
	content     TEXT NOT NULL DEFAULT '[]',
	plain_text  TEXT NOT NULL DEFAULT '',
	emoji       TEXT NOT NULL DEFAULT '📝',
	parent_id   TEXT,
	is_folder   INTEGER NOT NULL DEFAULT 0,
	is_favorite INTEGER NOT NULL DEFAULT 0,
	is_pinned   INTEGER NOT NULL DEFAULT 0,
	is_trashed  INTEGER NOT NULL DEFAULT 0,
	sort_order  INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL DEFAULT (strftime('%s','now')),
	updated_at  INTEGER NOT NULL DEFAULT (strftime('%s','now')),
	trashed_at  INTEGER,
	word_count  INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_notes_parent   ON notes(parent_id);
CREATE INDEX IF NOT EXISTS idx_notes_trashed  ON notes(is_trashed);
CREATE INDEX IF NOT EXISTS idx_notes_favorite ON notes(is_favorite);
CREATE INDEX IF NOT EXISTS idx_notes_pinned   ON notes(is_pinned);
CREATE INDEX IF NOT EXISTS idx_notes_updated  ON notes(updated_at);

CREATE TABLE IF NOT EXISTS tags (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '#6366f1',
	created_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_name ON tags(name);

CREATE TABLE IF NOT EXISTS note_tags (
	note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	tag_id  TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
	source  TEXT NOT NULL DEFAULT 'inline',
	UNIQUE(note_id, tag_id)
);

CREATE INDEX IF NOT EXISTS idx_note_tags_tag ON note_tags(tag_id);

CREATE TABLE IF NOT EXISTS wikilinks (
	source_note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	target_note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	UNIQUE(source_note_id, target_note_id)
);

CREATE INDEX IF NOT EXISTS idx_wikilinks_source ON wikilinks(source_note_id);
CREATE INDEX IF NOT EXISTS idx_wikilinks_target ON wikilinks(target_note_id);

CREATE TABLE IF NOT EXISTS flashcards (
	id          TEXT PRIMARY KEY,
	note_id     TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	question    TEXT NOT NULL,
	answer      TEXT NOT NULL,
	next_review INTEGER NOT NULL DEFAULT (strftime('%s','now')),
	interval    REAL NOT NULL DEFAULT 1.0,
	ease_factor REAL NOT NULL DEFAULT 2.5,
	repetitions INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL DEFAULT (strftime('%s','now')),
	updated_at  INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);

CREATE INDEX IF NOT EXISTS idx_flashcards_note   ON flashcards(note_id);
CREATE INDEX IF NOT EXISTS idx_flashcards_review ON flashcards(next_review);
`

// Store owns the single database connection.
type Store struct {
	mu   sync.Mutex
	conn *sql.DB
	now  func() time.Time
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	// One shared connection; the mutex is the concurrency contract.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply fts schema: %w", err)
	}
	return &Store{conn: conn, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// unix returns the current clock reading as a unix timestamp.
func (s *Store) unix() int64 {
	return s.now().Unix()
}
