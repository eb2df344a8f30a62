package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Tags handles GET /api/tags.
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.Tags()
	if err != nil {
		respondError(w, "list tags", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// NoteTags handles GET /api/notes/{id}/tags.
func (h *Handler) NoteTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.NoteTags(noteID(r))
	if err != nil {
		respondError(w, "note tags", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// AddTag handles POST /api/notes/{id}/tags.
func (h *Handler) AddTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if !decode(w, r, &req) {
		return
	}
	id := noteID(r)
	tagID, err := h.store.AddTag(id, req.Name)
	if err != nil {
		respondError(w, "add tag", err)
		return
	}
	h.notify("updated", id)
	writeJSON(w, http.StatusCreated, IDResponse{ID: tagID})
}

// RemoveTag handles DELETE /api/notes/{id}/tags/{tagID}.
func (h *Handler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	if err := h.store.RemoveTag(id, chi.URLParam(r, "tagID")); err != nil {
		respondError(w, "remove tag", err)
		return
	}
	h.notify("updated", id)
	w.WriteHeader(http.StatusNoContent)
}

// SyncInlineTags handles PUT /api/notes/{id}/tags/inline.
func (h *Handler) SyncInlineTags(w http.ResponseWriter, r *http.Request) {
	var req SyncTagsRequest
	if !decode(w, r, &req) {
		return
	}
	id := noteID(r)
	if err := h.store.SyncInlineTags(id, req.Tags); err != nil {
		respondError(w, "sync inline tags", err)
		return
	}
	h.notify("updated", id)
	w.WriteHeader(http.StatusNoContent)
}

// MoveToTag handles POST /api/notes/{id}/tags/move.
func (h *Handler) MoveToTag(w http.ResponseWriter, r *http.Request) {
	var req MoveTagRequest
	if !decode(w, r, &req) {
		return
	}
	id := noteID(r)
	if err := h.store.MoveToTag(id, req.From, req.To); err != nil {
		respondError(w, "move to tag", err)
		return
	}
	h.notify("updated", id)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteTag handles DELETE /api/tags/{tagID}.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTag(chi.URLParam(r, "tagID")); err != nil {
		respondError(w, "delete tag", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NotesByTag handles GET /api/tags/{tagID}/notes.
func (h *Handler) NotesByTag(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.NotesByTag(chi.URLParam(r, "tagID"))
	if err != nil {
		respondError(w, "notes by tag", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}
