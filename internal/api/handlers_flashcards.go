package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// SyncFlashcards handles PUT /api/notes/{id}/flashcards.
func (h *Handler) SyncFlashcards(w http.ResponseWriter, r *http.Request) {
	var req SyncFlashcardsRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.store.SyncFlashcards(noteID(r), req.Cards); err != nil {
		respondError(w, "sync flashcards", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NoteFlashcards handles GET /api/notes/{id}/flashcards.
func (h *Handler) NoteFlashcards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.store.NoteFlashcards(noteID(r))
	if err != nil {
		respondError(w, "note flashcards", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

// DueFlashcards handles GET /api/flashcards/due.
func (h *Handler) DueFlashcards(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cards, err := h.store.DueFlashcards(limit)
	if err != nil {
		respondError(w, "due flashcards", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

// ReviewFlashcard handles POST /api/flashcards/{cardID}/review.
func (h *Handler) ReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if !decode(w, r, &req) {
		return
	}
	card, err := h.store.ReviewFlashcard(chi.URLParam(r, "cardID"), req.Rating)
	if err != nil {
		respondError(w, "review flashcard", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// FlashcardStats handles GET /api/flashcards/stats.
func (h *Handler) FlashcardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats()
	if err != nil {
		respondError(w, "flashcard stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
