//go:build sqlite_fts5

package store

import (
	"strings"
	"testing"
)

func TestSearch_HighlightAndSnippet(t *testing.T) {
	s := testStore(t)
	addNote(t, s, "Gardening Tips", "water the tomato plants every morning before the sun gets hot")

	res, err := s.Search("tomato", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("hits = %d, want 1", len(res))
	}
	if !strings.Contains(res[0].Snippet, "<mark>tomato</mark>") {
		t.Errorf("snippet missing highlight: %q", res[0].Snippet)
	}
}

func TestSearch_PhrasePrefixSemantics(t *testing.T) {
	s := testStore(t)
	addNote(t, s, "A", "quarterly revenue report")
	addNote(t, s, "B", "revenue grew while the report shipped late")

	// The query is one phrase, not two OR'd terms.
	res, err := s.Search("quarterly revenue", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 || !strings.Contains(res[0].Title, "A") {
		t.Errorf("phrase query hits = %+v, want only note A", res)
	}

	// Last token matches as a prefix.
	res, err = s.Search("quarterly rev", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 {
		t.Errorf("prefix query hits = %+v, want 1", res)
	}
}

func TestSearch_QuotesAreLiteral(t *testing.T) {
	s := testStore(t)
	addNote(t, s, "Ops", "deploy OR rollback procedures")

	// Embedded quotes must not let MATCH syntax through.
	if _, err := s.Search(`deploy" OR "rollback`, 10); err != nil {
		t.Fatalf("quoted query should not error: %v", err)
	}
}

func TestFTSShadowFollowsRename(t *testing.T) {
	s := testStore(t)
	id := addNote(t, s, "Before", "body text here")
	if err := s.Rename(id, "Afterwards"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	res, err := s.Search("afterwards", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("renamed title not searchable: %+v", res)
	}
	res, _ = s.Search("before", 10)
	if len(res) != 0 {
		t.Errorf("stale title still indexed: %+v", res)
	}
}

func TestFTSShadowRemovedOnPurge(t *testing.T) {
	s := testStore(t)
	id := addNote(t, s, "Ephemeral", "transient content zanzibar")
	if err := s.Purge(id); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	var count int
	if err := s.conn.QueryRow(`SELECT count(*) FROM notes_fts WHERE note_id = ?`, id).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("fts row survived purge")
	}
}
