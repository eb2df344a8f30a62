package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nasby/ansuz/internal/store"
	"github.com/nasby/ansuz/internal/testutil"
)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	s := testutil.TestStore(t)
	return New(s), s
}

// callTool invokes a tool handler directly; mcp-go has no in-process
// call-tool test helper.
func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "due_flashcards":
		result, err = srv.dueFlashcards(ctx, req)
	case "get_note_conventions":
		result, err = srv.getNoteConventions(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadNote(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_note", map[string]any{
		"title":   "Test Note",
		"content": "first paragraph\n\nsecond paragraph",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	id := strings.TrimPrefix(text, "created: ")

	r = callTool(t, srv, "read_note", map[string]any{"id": id})
	text = resultText(r)
	if !strings.Contains(text, "# Test Note") || !strings.Contains(text, "second paragraph") {
		t.Errorf("read result = %q", text)
	}
}

func TestCreateNoteIndexesTagsAndLinks(t *testing.T) {
	srv, s := testServer(t)

	callTool(t, srv, "create_note", map[string]any{
		"title":   "Target",
		"content": "just a target",
	})
	r := callTool(t, srv, "create_note", map[string]any{
		"title":   "Source",
		"content": "links to [[Target]] about #testing",
	})
	id := strings.TrimPrefix(resultText(r), "created: ")

	tags, err := s.NoteTags(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[0].Name != "testing" {
		t.Errorf("tags = %+v", tags)
	}

	out, err := s.OutgoingLinks(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Title != "Target" {
		t.Errorf("outgoing links = %+v", out)
	}
}

func TestListNotes(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_note", map[string]any{"title": "A", "content": "a"})
	callTool(t, srv, "create_note", map[string]any{"title": "B", "content": "b"})

	text := resultText(callTool(t, srv, "list_notes", map[string]any{}))
	if !strings.Contains(text, "A") || !strings.Contains(text, "B") {
		t.Errorf("list = %q", text)
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]any{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestGetBacklinks(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_note", map[string]any{"title": "Hub", "content": "the hub"})
	hubID := strings.TrimPrefix(resultText(r), "created: ")

	callTool(t, srv, "create_note", map[string]any{
		"title":   "Spoke",
		"content": "points at [[Hub]]",
	})

	text := resultText(callTool(t, srv, "get_backlinks", map[string]any{"id": hubID}))
	if !strings.Contains(text, "Spoke") {
		t.Errorf("backlinks = %q, want Spoke", text)
	}
}

func TestDueFlashcards(t *testing.T) {
	srv, s := testServer(t)
	r := callTool(t, srv, "create_note", map[string]any{"title": "Deck", "content": "cards"})
	id := strings.TrimPrefix(resultText(r), "created: ")
	if err := s.SyncFlashcards(id, []store.CardInput{{Question: "q", Answer: "a"}}); err != nil {
		t.Fatal(err)
	}

	text := resultText(callTool(t, srv, "due_flashcards", map[string]any{}))
	if !strings.Contains(text, `"question": "q"`) {
		t.Errorf("due cards = %q", text)
	}
}

func TestNoteConventions(t *testing.T) {
	srv, _ := testServer(t)
	text := resultText(callTool(t, srv, "get_note_conventions", map[string]any{}))
	if !strings.Contains(text, "wikilinks") && !strings.Contains(text, "[[") {
		t.Errorf("conventions look wrong: %q", text)
	}
}
