package store

import (
	"os"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	f, err := os.CreateTemp("", "ansuz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	s, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// addNote creates a note with content in one step.
func addNote(t *testing.T, s *Store, title, text string) string {
	t.Helper()
	id, err := s.CreateNote(nil)
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if err := s.SaveContent(id, `[{"type":"p","children":[{"text":"`+text+`"}]}]`, title, text); err != nil {
		t.Fatalf("SaveContent: %v", err)
	}
	return id
}

func TestSchemaCreation(t *testing.T) {
	s := testStore(t)
	for _, table := range []string{"notes", "tags", "note_tags", "wikilinks", "flashcards"} {
		var count int
		if err := s.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestCreateNoteDefaults(t *testing.T) {
	s := testStore(t)
	id, err := s.CreateNote(nil)
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	n, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n.Title != "Untitled" || n.Content != "[]" || n.Emoji != "📝" {
		t.Errorf("unexpected defaults: %+v", n)
	}
	if n.IsTrashed || n.IsFolder {
		t.Errorf("new note should be live and not a folder: %+v", n)
	}
}

func TestSaveContentUpdatesWordCount(t *testing.T) {
	s := testStore(t)
	id := addNote(t, s, "Counted", "one two three")
	n, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n.WordCount != 3 {
		t.Errorf("word_count = %d, want 3", n.WordCount)
	}
}

func TestSaveContent_NotFound(t *testing.T) {
	s := testStore(t)
	if err := s.SaveContent("missing", "[]", "x", ""); err == nil {
		t.Fatal("expected error for missing note")
	}
}

func TestTrashCascadesToDirectChildrenOnly(t *testing.T) {
	s := testStore(t)
	parent, _ := s.CreateFolder("Parent", nil)
	child, _ := s.CreateNote(&parent)
	grandchild, _ := s.CreateNote(&child)

	if err := s.Trash(parent); err != nil {
		t.Fatalf("Trash: %v", err)
	}

	for _, tc := range []struct {
		id   string
		want bool
	}{
		{parent, true}, {child, true}, {grandchild, false},
	} {
		n, err := s.Get(tc.id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if n.IsTrashed != tc.want {
			t.Errorf("note %s trashed = %v, want %v", tc.id, n.IsTrashed, tc.want)
		}
	}
}

func TestRestoreDoesNotCascade(t *testing.T) {
	s := testStore(t)
	parent, _ := s.CreateFolder("Parent", nil)
	child, _ := s.CreateNote(&parent)

	if err := s.Trash(parent); err != nil {
		t.Fatalf("Trash: %v", err)
	}
	if err := s.Restore(parent); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	p, _ := s.Get(parent)
	c, _ := s.Get(child)
	if p.IsTrashed {
		t.Error("restored parent still trashed")
	}
	if p.TrashedAt != nil {
		t.Error("restore should clear trashed_at")
	}
	if !c.IsTrashed {
		t.Error("child should stay in trash after parent restore")
	}
}

func TestPurgeRemovesDependents(t *testing.T) {
	s := testStore(t)
	id := addNote(t, s, "Doomed", "text with #tagged stuff")
	other := addNote(t, s, "Other", "links back")

	if _, err := s.AddTag(id, "keep"); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if err := s.SyncWikilinks(other, []string{"Doomed"}); err != nil {
		t.Fatalf("SyncWikilinks: %v", err)
	}
	if err := s.SyncFlashcards(id, []CardInput{{Question: "q", Answer: "a"}}); err != nil {
		t.Fatalf("SyncFlashcards: %v", err)
	}

	if err := s.Purge(id); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if _, err := s.Get(id); err == nil {
		t.Fatal("purged note still readable")
	}
	for _, q := range []string{
		`SELECT count(*) FROM note_tags WHERE note_id = '` + id + `'`,
		`SELECT count(*) FROM wikilinks WHERE target_note_id = '` + id + `'`,
		`SELECT count(*) FROM flashcards WHERE note_id = '` + id + `'`,
	} {
		var count int
		if err := s.conn.QueryRow(q).Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 0 {
			t.Errorf("dependents survived purge: %s -> %d", q, count)
		}
	}
}

func TestPurge_NotFound(t *testing.T) {
	s := testStore(t)
	if err := s.Purge("missing"); err == nil {
		t.Fatal("expected error for missing note")
	}
}

func TestTreeOrdering(t *testing.T) {
	s := testStore(t)
	s.now = func() time.Time { return time.Unix(1000, 0) }
	a := addNote(t, s, "A", "")
	s.now = func() time.Time { return time.Unix(2000, 0) }
	b := addNote(t, s, "B", "")
	if err := s.TogglePin(b); err != nil {
		t.Fatalf("TogglePin: %v", err)
	}

	tree, err := s.Tree()
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if len(tree) != 2 || tree[0].ID != b || tree[1].ID != a {
		t.Errorf("pinned note should sort first: %+v", tree)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	s := testStore(t)
	addNote(t, s, "Anything", "content here")
	res, err := s.Search("   ", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 0 {
		t.Errorf("blank query should match nothing, got %d hits", len(res))
	}
}

func TestSearch_ExcludesTrashed(t *testing.T) {
	s := testStore(t)
	id := addNote(t, s, "Hidden", "xylophone practice notes")
	if err := s.Trash(id); err != nil {
		t.Fatalf("Trash: %v", err)
	}
	res, err := s.Search("xylophone", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 0 {
		t.Errorf("trashed note should be unsearchable, got %+v", res)
	}
}

func TestGetOrCreateDailyNote(t *testing.T) {
	s := testStore(t)
	id1, err := s.GetOrCreateDailyNote("2026-08-31")
	if err != nil {
		t.Fatalf("GetOrCreateDailyNote: %v", err)
	}
	id2, err := s.GetOrCreateDailyNote("2026-08-31")
	if err != nil {
		t.Fatalf("GetOrCreateDailyNote second call: %v", err)
	}
	if id1 != id2 {
		t.Errorf("daily note not idempotent: %s vs %s", id1, id2)
	}
	n, _ := s.Get(id1)
	if n.Emoji != "📅" {
		t.Errorf("daily note emoji = %q", n.Emoji)
	}

	if _, err := s.GetOrCreateDailyNote("31/08/2026"); err == nil {
		t.Fatal("expected error for bad date format")
	}
}

func TestFindByTitle_CaseInsensitive(t *testing.T) {
	s := testStore(t)
	id := addNote(t, s, "Project Plan", "")
	got, err := s.FindByTitle("project plan")
	if err != nil {
		t.Fatalf("FindByTitle: %v", err)
	}
	if got != id {
		t.Errorf("FindByTitle = %s, want %s", got, id)
	}
	if _, err := s.FindByTitle("nope"); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestToggleFavorite(t *testing.T) {
	s := testStore(t)
	id := addNote(t, s, "Fav", "")
	if err := s.ToggleFavorite(id); err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	favs, err := s.Favorites()
	if err != nil {
		t.Fatalf("Favorites: %v", err)
	}
	if len(favs) != 1 || favs[0].ID != id {
		t.Errorf("favorites = %+v", favs)
	}
	if err := s.ToggleFavorite(id); err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	favs, _ = s.Favorites()
	if len(favs) != 0 {
		t.Errorf("favorites after untoggle = %+v", favs)
	}
}
