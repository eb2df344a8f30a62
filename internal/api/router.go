package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nasby/ansuz/internal/sse"
	"github.com/nasby/ansuz/internal/store"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, is mounted at GET /events and fed note change events.
// dataDir is used to resolve the attachments directory.
func NewRouter(s *store.Store, broker *sse.Broker, authEnabled bool, token string, dataDir string) chi.Router {
	h := NewHandler(s, broker)
	ah := NewAttachmentHandler(dataDir)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes.
	r.Post("/notes", h.CreateNote)
	r.Post("/notes/template", h.CreateFromTemplate)
	r.Post("/notes/daily", h.DailyNote)
	r.Get("/notes/tree", h.Tree)
	r.Get("/notes/recent", h.Recent)
	r.Get("/notes/favorites", h.Favorites)
	r.Get("/notes/trash", h.Trashed)
	r.Get("/notes/titles", h.Titles)
	r.Get("/notes/most-recent", h.MostRecent)
	r.Get("/notes/{id}", h.GetNote)
	r.Delete("/notes/{id}", h.Purge)
	r.Put("/notes/{id}/content", h.SaveContent)
	r.Post("/notes/{id}/rename", h.Rename)
	r.Post("/notes/{id}/move", h.Move)
	r.Post("/notes/{id}/favorite", h.ToggleFavorite)
	r.Post("/notes/{id}/pin", h.TogglePin)
	r.Post("/notes/{id}/trash", h.Trash)
	r.Post("/notes/{id}/restore", h.Restore)
	r.Get("/notes/{id}/export", h.ExportMarkdown)

	// Links and graph.
	r.Get("/notes/{id}/backlinks", h.Backlinks)
	r.Get("/notes/{id}/links", h.OutgoingLinks)
	r.Put("/notes/{id}/links", h.SyncWikilinks)
	r.Get("/notes/{id}/related", h.RelatedNotes)
	r.Get("/graph", h.Graph)

	// Tags.
	r.Get("/tags", h.Tags)
	r.Delete("/tags/{tagID}", h.DeleteTag)
	r.Get("/tags/{tagID}/notes", h.NotesByTag)
	r.Get("/notes/{id}/tags", h.NoteTags)
	r.Post("/notes/{id}/tags", h.AddTag)
	r.Delete("/notes/{id}/tags/{tagID}", h.RemoveTag)
	r.Put("/notes/{id}/tags/inline", h.SyncInlineTags)
	r.Post("/notes/{id}/tags/move", h.MoveToTag)

	// Search.
	r.Get("/search", h.Search)

	// Flashcards.
	r.Put("/notes/{id}/flashcards", h.SyncFlashcards)
	r.Get("/notes/{id}/flashcards", h.NoteFlashcards)
	r.Get("/flashcards/due", h.DueFlashcards)
	r.Post("/flashcards/{cardID}/review", h.ReviewFlashcard)
	r.Get("/flashcards/stats", h.FlashcardStats)

	// Raw SQL passthrough.
	r.Post("/exec", h.Exec)

	// Attachments upload (auth-protected).
	r.Post("/attachments", ah.Upload)

	// SSE endpoint (protected by same auth middleware).
	if broker != nil {
		r.Method(http.MethodGet, "/events", broker)
	}

	return r
}
