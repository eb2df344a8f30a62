package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nasby/ansuz/internal/richtext"
	"github.com/nasby/ansuz/internal/sse"
	"github.com/nasby/ansuz/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	store  *store.Store
	broker *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil when SSE is disabled.
func NewHandler(s *store.Store, broker *sse.Broker) *Handler {
	return &Handler{store: s, broker: broker}
}

func (h *Handler) notify(kind, id string) {
	if h.broker != nil {
		h.broker.NoteChanged(kind, id)
	}
}

// decode reads a JSON body into req and runs its validator when present.
func decode(w http.ResponseWriter, r *http.Request, req any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	if v, ok := req.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return false
		}
	}
	return true
}

func noteID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// CreateNote handles POST /api/notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decode(w, r, &req) {
		return
	}

	var id string
	var err error
	if req.IsFolder {
		id, err = h.store.CreateFolder(req.Name, req.ParentID)
	} else {
		id, err = h.store.CreateNote(req.ParentID)
	}
	if err != nil {
		respondError(w, "create note", err)
		return
	}
	h.notify("created", id)
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// CreateFromTemplate handles POST /api/notes/template.
func (h *Handler) CreateFromTemplate(w http.ResponseWriter, r *http.Request) {
	var req TemplateNoteRequest
	if !decode(w, r, &req) {
		return
	}
	emoji := req.Emoji
	if emoji == "" {
		emoji = "📝"
	}
	id, err := h.store.CreateNoteFromTemplate(req.Title, emoji, req.Content, richtext.PlainText(req.Content))
	if err != nil {
		respondError(w, "create note from template", err)
		return
	}
	h.notify("created", id)
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// GetNote handles GET /api/notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.store.Get(noteID(r))
	if err != nil {
		respondError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// SaveContent handles PUT /api/notes/{id}/content.
func (h *Handler) SaveContent(w http.ResponseWriter, r *http.Request) {
	var req SaveContentRequest
	if !decode(w, r, &req) {
		return
	}
	id := noteID(r)
	if err := h.store.SaveContent(id, req.Content, req.Title, req.PlainText); err != nil {
		respondError(w, "save content", err)
		return
	}
	h.notify("updated", id)
	w.WriteHeader(http.StatusNoContent)
}

// Rename handles POST /api/notes/{id}/rename.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if !decode(w, r, &req) {
		return
	}
	id := noteID(r)
	if err := h.store.Rename(id, req.Title); err != nil {
		respondError(w, "rename note", err)
		return
	}
	h.notify("updated", id)
	w.WriteHeader(http.StatusNoContent)
}

// Move handles POST /api/notes/{id}/move.
func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !decode(w, r, &req) {
		return
	}
	id := noteID(r)
	if err := h.store.Move(id, req.ParentID); err != nil {
		respondError(w, "move note", err)
		return
	}
	h.notify("updated", id)
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFavorite handles POST /api/notes/{id}/favorite.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	if err := h.store.ToggleFavorite(id); err != nil {
		respondError(w, "toggle favorite", err)
		return
	}
	h.notify("updated", id)
	w.WriteHeader(http.StatusNoContent)
}

// TogglePin handles POST /api/notes/{id}/pin.
func (h *Handler) TogglePin(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	if err := h.store.TogglePin(id); err != nil {
		respondError(w, "toggle pin", err)
		return
	}
	h.notify("updated", id)
	w.WriteHeader(http.StatusNoContent)
}

// Trash handles POST /api/notes/{id}/trash.
func (h *Handler) Trash(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	if err := h.store.Trash(id); err != nil {
		respondError(w, "trash note", err)
		return
	}
	h.notify("trashed", id)
	w.WriteHeader(http.StatusNoContent)
}

// Restore handles POST /api/notes/{id}/restore.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	if err := h.store.Restore(id); err != nil {
		respondError(w, "restore note", err)
		return
	}
	h.notify("restored", id)
	w.WriteHeader(http.StatusNoContent)
}

// Purge handles DELETE /api/notes/{id}.
func (h *Handler) Purge(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	if err := h.store.Purge(id); err != nil {
		respondError(w, "purge note", err)
		return
	}
	h.notify("purged", id)
	w.WriteHeader(http.StatusNoContent)
}

// Tree handles GET /api/notes/tree.
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.store.Tree()
	if err != nil {
		respondError(w, "note tree", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": tree})
}

// Recent handles GET /api/notes/recent.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	notes, err := h.store.Recent(limit)
	if err != nil {
		respondError(w, "recent notes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

// Favorites handles GET /api/notes/favorites.
func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.Favorites()
	if err != nil {
		respondError(w, "favorite notes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

// Trashed handles GET /api/notes/trash.
func (h *Handler) Trashed(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.Trashed()
	if err != nil {
		respondError(w, "trashed notes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

// MostRecent handles GET /api/notes/most-recent.
func (h *Handler) MostRecent(w http.ResponseWriter, r *http.Request) {
	note, err := h.store.MostRecent()
	if err != nil {
		respondError(w, "most recent note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Titles handles GET /api/notes/titles.
func (h *Handler) Titles(w http.ResponseWriter, r *http.Request) {
	titles, err := h.store.Titles()
	if err != nil {
		respondError(w, "note titles", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": titles})
}

// DailyNote handles POST /api/notes/daily.
func (h *Handler) DailyNote(w http.ResponseWriter, r *http.Request) {
	var req DailyNoteRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := h.store.GetOrCreateDailyNote(req.Date)
	if err != nil {
		respondError(w, "daily note", err)
		return
	}
	writeJSON(w, http.StatusOK, IDResponse{ID: id})
}

// ExportMarkdown handles GET /api/notes/{id}/export.
func (h *Handler) ExportMarkdown(w http.ResponseWriter, r *http.Request) {
	note, err := h.store.Get(noteID(r))
	if err != nil {
		respondError(w, "export note", err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(richtext.Markdown(note.Title, note.Content)))
}
