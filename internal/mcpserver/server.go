// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the note store to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nasby/ansuz/internal/richtext"
	"github.com/nasby/ansuz/internal/store"
)

// Server wraps the MCP server with note tools.
type Server struct {
	mcp   *server.MCPServer
	store *store.Store
}

// New creates a new MCP server with all tools registered.
func New(s *store.Store) *Server {
	srv := &Server{store: s}

	srv.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	srv.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through note content and titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), srv.searchNotes)

	srv.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note rendered as Markdown."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), srv.readNote)

	srv.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note from plain text. "+
			"Text may contain [[wikilinks]] and inline #tags; both are indexed. "+
			"Read the conventions first via the get_note_conventions tool or the "+
			"ansuz://note-conventions resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Plain-text body, paragraphs separated by blank lines")),
	), srv.createNote)

	srv.mcp.AddTool(mcp.NewTool("get_note_conventions",
		mcp.WithDescription("Returns the note content conventions. "+
			"Call this before creating notes to ensure correct structure."),
	), srv.getNoteConventions)

	srv.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List every live note as 'id<TAB>title'."),
	), srv.listNotes)

	srv.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all notes that link to the specified note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Id of the note to find backlinks for")),
	), srv.getBacklinks)

	srv.mcp.AddTool(mcp.NewTool("due_flashcards",
		mcp.WithDescription("List flashcards that are due for review."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of cards (default 50)")),
	), srv.dueFlashcards)

	// Resource: note conventions.
	srv.mcp.AddResource(
		mcp.NewResource("ansuz://note-conventions", "Note Conventions",
			mcp.WithResourceDescription("Content conventions that notes should follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		srv.readConventionsResource,
	)

	return srv
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.store.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.store.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(richtext.Markdown(note.Title, note.Content)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content := richtext.FromPlainText(text)
	plain := richtext.PlainText(content)

	id, err := s.store.CreateNoteFromTemplate(title, "🤖", content, plain)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if tags := richtext.ExtractTags(plain); len(tags) > 0 {
		_ = s.store.SyncInlineTags(id, tags)
	}
	if links := richtext.ExtractLinks(plain); len(links) > 0 {
		_ = s.store.SyncWikilinks(id, links)
	}

	return mcp.NewToolResultText(fmt.Sprintf("created: %s", id)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	titles, err := s.store.Titles()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var lines []string
	for _, n := range titles {
		lines = append(lines, n.ID+"\t"+n.Title)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getNoteConventions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteConventions), nil
}

func (s *Server) readConventionsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://note-conventions",
			MIMEType: "text/markdown",
			Text:     NoteConventions,
		},
	}, nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.store.Backlinks(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	var lines []string
	for _, n := range bl {
		lines = append(lines, n.ID+"\t"+n.Title)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) dueFlashcards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 50)
	cards, err := s.store.DueFlashcards(limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(cards, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
