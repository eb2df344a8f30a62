package store

import (
	"errors"
	"testing"

	"github.com/nasby/ansuz/internal/apperr"
)

func TestAddTagIdempotent(t *testing.T) {
	s := testStore(t)
	id := addNote(t, s, "Tagged", "")

	tag1, err := s.AddTag(id, "work")
	if err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	tag2, err := s.AddTag(id, "work")
	if err != nil {
		t.Fatalf("AddTag repeat: %v", err)
	}
	if tag1 != tag2 {
		t.Errorf("same name resolved to different tags: %s vs %s", tag1, tag2)
	}

	tags, err := s.NoteTags(id)
	if err != nil {
		t.Fatalf("NoteTags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "work" {
		t.Errorf("note tags = %+v", tags)
	}
}

func TestTagCountsSkipTrashed(t *testing.T) {
	s := testStore(t)
	a := addNote(t, s, "A", "")
	b := addNote(t, s, "B", "")
	if _, err := s.AddTag(a, "shared"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddTag(b, "shared"); err != nil {
		t.Fatal(err)
	}
	if err := s.Trash(b); err != nil {
		t.Fatal(err)
	}

	tags, err := s.Tags()
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(tags) != 1 || tags[0].NoteCount != 1 {
		t.Errorf("tags = %+v, want one tag with count 1", tags)
	}
}

func TestSyncInlineTagsPreservesManual(t *testing.T) {
	s := testStore(t)
	id := addNote(t, s, "Mixed", "")
	if _, err := s.AddTag(id, "manual-tag"); err != nil {
		t.Fatal(err)
	}
	if err := s.SyncInlineTags(id, []string{"alpha", "beta"}); err != nil {
		t.Fatalf("SyncInlineTags: %v", err)
	}
	if err := s.SyncInlineTags(id, []string{"beta"}); err != nil {
		t.Fatalf("SyncInlineTags resync: %v", err)
	}

	tags, err := s.NoteTags(id)
	if err != nil {
		t.Fatalf("NoteTags: %v", err)
	}
	names := map[string]bool{}
	for _, tag := range tags {
		names[tag.Name] = true
	}
	if len(tags) != 2 || !names["manual-tag"] || !names["beta"] {
		t.Errorf("tags after resync = %+v", tags)
	}
}

func TestNoteTagsReportSource(t *testing.T) {
	s := testStore(t)
	id := addNote(t, s, "Mixed", "")
	if _, err := s.AddTag(id, "curated"); err != nil {
		t.Fatal(err)
	}
	if err := s.SyncInlineTags(id, []string{"hashtag"}); err != nil {
		t.Fatal(err)
	}

	tags, err := s.NoteTags(id)
	if err != nil {
		t.Fatalf("NoteTags: %v", err)
	}
	sources := map[string]string{}
	for _, tag := range tags {
		sources[tag.Name] = tag.Source
	}
	if sources["curated"] != "manual" || sources["hashtag"] != "inline" {
		t.Errorf("sources = %v", sources)
	}
}

func TestRemoveTagLeavesTagRow(t *testing.T) {
	s := testStore(t)
	id := addNote(t, s, "N", "")
	tagID, err := s.AddTag(id, "sticky")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveTag(id, tagID); err != nil {
		t.Fatalf("RemoveTag: %v", err)
	}

	tags, _ := s.Tags()
	if len(tags) != 1 || tags[0].NoteCount != 0 {
		t.Errorf("tag row should survive detachment: %+v", tags)
	}

	if err := s.RemoveTag(id, tagID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second removal should be not-found, got %v", err)
	}
}

func TestMoveToTag(t *testing.T) {
	s := testStore(t)
	id := addNote(t, s, "N", "")
	if _, err := s.AddTag(id, "todo"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddTag(id, "project"); err != nil {
		t.Fatal(err)
	}
	if err := s.MoveToTag(id, "todo", "done"); err != nil {
		t.Fatalf("MoveToTag: %v", err)
	}

	tags, _ := s.NoteTags(id)
	names := map[string]bool{}
	for _, tag := range tags {
		names[tag.Name] = true
	}
	if names["todo"] || !names["done"] || !names["project"] {
		t.Errorf("tags after move = %+v", tags)
	}
}

func TestNotesByTag(t *testing.T) {
	s := testStore(t)
	a := addNote(t, s, "Alpha", "")
	b := addNote(t, s, "Beta", "")
	tagID, _ := s.AddTag(a, "both")
	if _, err := s.AddTag(b, "both"); err != nil {
		t.Fatal(err)
	}
	if err := s.Trash(b); err != nil {
		t.Fatal(err)
	}

	notes, err := s.NotesByTag(tagID)
	if err != nil {
		t.Fatalf("NotesByTag: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != a {
		t.Errorf("notes by tag = %+v", notes)
	}
}
