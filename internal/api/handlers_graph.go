package api

import (
	"net/http"
	"strconv"
)

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.store.Search(q, limit)
	if err != nil {
		respondError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// Graph handles GET /api/graph.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	g, err := h.store.Graph()
	if err != nil {
		respondError(w, "graph", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Backlinks handles GET /api/notes/{id}/backlinks.
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.Backlinks(noteID(r))
	if err != nil {
		respondError(w, "backlinks", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

// OutgoingLinks handles GET /api/notes/{id}/links.
func (h *Handler) OutgoingLinks(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.OutgoingLinks(noteID(r))
	if err != nil {
		respondError(w, "outgoing links", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

// SyncWikilinks handles PUT /api/notes/{id}/links.
func (h *Handler) SyncWikilinks(w http.ResponseWriter, r *http.Request) {
	var req SyncLinksRequest
	if !decode(w, r, &req) {
		return
	}
	id := noteID(r)
	if err := h.store.SyncWikilinks(id, req.Targets); err != nil {
		respondError(w, "sync wikilinks", err)
		return
	}
	h.notify("updated", id)
	w.WriteHeader(http.StatusNoContent)
}

// RelatedNotes handles GET /api/notes/{id}/related.
func (h *Handler) RelatedNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.RelatedNotes(noteID(r))
	if err != nil {
		respondError(w, "related notes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}
