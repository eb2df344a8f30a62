package store

import "fmt"

// GraphNode is one vertex of the knowledge graph.
type GraphNode struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Emoji     string `json:"emoji"`
	LinkCount int64  `json:"link_count"`
}

// GraphEdge connects two notes either by an explicit wikilink or by sharing
// a tag.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"` // "wikilink" or "tag"
}

// Graph is the full graph-view payload.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// SyncWikilinks replaces the outgoing link edges of a note with the edges
// derived from the given target titles. Titles resolve case-insensitively
// against non-trashed notes; unresolved titles and self-references are
// silently dropped so a dangling [[link]] is not an error.
func (s *Store) SyncWikilinks(noteID string, targets []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM wikilinks WHERE source_note_id = ?`, noteID); err != nil {
		return fmt.Errorf("store: sync links: %w", err)
	}
	for _, title := range targets {
		_, err := tx.Exec(`
			INSERT OR IGNORE INTO wikilinks (source_note_id, target_note_id)
			SELECT ?, id FROM notes
			WHERE title = ? COLLATE NOCASE AND is_trashed = 0 AND id <> ?
			LIMIT 1
		`, noteID, title, noteID)
		if err != nil {
			return fmt.Errorf("store: sync links: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Backlinks returns the non-trashed notes that link to the given note.
func (s *Store) Backlinks(noteID string) ([]NoteRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryRefsLocked(`
		SELECT n.id, n.title, n.emoji
		FROM notes n
		JOIN wikilinks w ON w.source_note_id = n.id
		WHERE w.target_note_id = ? AND n.is_trashed = 0
		ORDER BY n.title
	`, noteID)
}

// OutgoingLinks returns the non-trashed notes the given note links to.
func (s *Store) OutgoingLinks(noteID string) ([]NoteRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryRefsLocked(`
		SELECT n.id, n.title, n.emoji
		FROM notes n
		JOIN wikilinks w ON w.target_note_id = n.id
		WHERE w.source_note_id = ? AND n.is_trashed = 0
		ORDER BY n.title
	`, noteID)
}

// Graph builds the graph view: every non-trashed, non-folder note as a node,
// wikilink edges between live endpoints, plus one deduplicated "tag" edge
// per note pair sharing at least one tag.
func (s *Store) Graph() (*Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := &Graph{Nodes: []GraphNode{}, Edges: []GraphEdge{}}

	rows, err := s.conn.Query(`
		SELECT n.id, n.title, n.emoji,
		       (SELECT COUNT(*) FROM wikilinks w WHERE w.source_note_id = n.id OR w.target_note_id = n.id)
		FROM notes n
		WHERE n.is_trashed = 0 AND n.is_folder = 0
		ORDER BY n.title
	`)
	if err != nil {
		return nil, fmt.Errorf("store: graph nodes: %w", err)
	}
	for rows.Next() {
		var n GraphNode
		if err := rows.Scan(&n.ID, &n.Title, &n.Emoji, &n.LinkCount); err != nil {
			rows.Close()
			return nil, err
		}
		g.Nodes = append(g.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = s.conn.Query(`
		SELECT w.source_note_id, w.target_note_id
		FROM wikilinks w
		JOIN notes src ON src.id = w.source_note_id AND src.is_trashed = 0 AND src.is_folder = 0
		JOIN notes dst ON dst.id = w.target_note_id AND dst.is_trashed = 0 AND dst.is_folder = 0
	`)
	if err != nil {
		return nil, fmt.Errorf("store: graph edges: %w", err)
	}
	for rows.Next() {
		var e GraphEdge
		if err := rows.Scan(&e.Source, &e.Target); err != nil {
			rows.Close()
			return nil, err
		}
		e.Kind = "wikilink"
		g.Edges = append(g.Edges, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Canonical ordering on the pair dedups the co-occurrence join.
	rows, err = s.conn.Query(`
		SELECT DISTINCT a.note_id, b.note_id
		FROM note_tags a
		JOIN note_tags b ON a.tag_id = b.tag_id AND a.note_id < b.note_id
		JOIN notes na ON na.id = a.note_id AND na.is_trashed = 0 AND na.is_folder = 0
		JOIN notes nb ON nb.id = b.note_id AND nb.is_trashed = 0 AND nb.is_folder = 0
	`)
	if err != nil {
		return nil, fmt.Errorf("store: graph tag edges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e GraphEdge
		if err := rows.Scan(&e.Source, &e.Target); err != nil {
			return nil, err
		}
		e.Kind = "tag"
		g.Edges = append(g.Edges, e)
	}
	return g, rows.Err()
}
