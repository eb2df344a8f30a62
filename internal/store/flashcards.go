package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nasby/ansuz/internal/apperr"
)

// Flashcard is one spaced-repetition card with its scheduling state.
type Flashcard struct {
	ID          string  `json:"id"`
	NoteID      string  `json:"note_id"`
	Question    string  `json:"question"`
	Answer      string  `json:"answer"`
	NextReview  int64   `json:"next_review"`
	Interval    float64 `json:"interval"`
	EaseFactor  float64 `json:"ease_factor"`
	Repetitions int64   `json:"repetitions"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

// CardInput is one question/answer pair extracted from a note.
type CardInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FlashcardStats summarizes the review workload.
type FlashcardStats struct {
	Total         int64 `json:"total"`
	Due           int64 `json:"due"`
	ReviewedToday int64 `json:"reviewed_today"`
	ActiveDays    int64 `json:"active_days"`
}

const cardColumns = `id, note_id, question, answer, next_review, interval,
	ease_factor, repetitions, created_at, updated_at`

func scanCard(row interface{ Scan(...any) error }) (*Flashcard, error) {
	var c Flashcard
	err := row.Scan(&c.ID, &c.NoteID, &c.Question, &c.Answer, &c.NextReview,
		&c.Interval, &c.EaseFactor, &c.Repetitions, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SyncFlashcards replaces a note's card set with the pairs currently present
// in its content. Replacement is wholesale: every existing card is dropped
// and the new set starts fresh, due immediately. Scheduling state changes
// only through ReviewFlashcard.
func (s *Store) SyncFlashcards(noteID string, cards []CardInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.unix()

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM flashcards WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("store: sync flashcards: %w", err)
	}
	for _, c := range cards {
		_, err := tx.Exec(`
			INSERT INTO flashcards (id, note_id, question, answer, next_review, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), noteID, c.Question, c.Answer, now, now, now)
		if err != nil {
			return fmt.Errorf("store: sync flashcards: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// ReviewFlashcard records one review at the given rating (0..5) and returns
// the card with its updated scheduling state.
func (s *Store) ReviewFlashcard(id string, rating int) (*Flashcard, error) {
	if rating < 0 || rating > 5 {
		return nil, fmt.Errorf("%w: rating %d out of range", apperr.ErrInvalid, rating)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := scanCard(s.conn.QueryRow(`SELECT `+cardColumns+` FROM flashcards WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: review flashcard: %w", err)
	}

	now := s.unix()
	card.Interval, card.EaseFactor, card.Repetitions = sm2(card.Interval, card.EaseFactor, card.Repetitions, rating)
	card.NextReview = now + int64(card.Interval*86400+0.5)
	card.UpdatedAt = now

	_, err = s.conn.Exec(`
		UPDATE flashcards
		SET next_review = ?, interval = ?, ease_factor = ?, repetitions = ?, updated_at = ?
		WHERE id = ?
	`, card.NextReview, card.Interval, card.EaseFactor, card.Repetitions, card.UpdatedAt, card.ID)
	if err != nil {
		return nil, fmt.Errorf("store: review flashcard: %w", err)
	}
	return card, nil
}

// NoteFlashcards returns the cards belonging to one note.
func (s *Store) NoteFlashcards(noteID string) ([]Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryCardsLocked(`
		SELECT `+cardColumns+` FROM flashcards WHERE note_id = ? ORDER BY created_at
	`, noteID)
}

// DueFlashcards returns cards of non-trashed notes that are due now,
// soonest-due first.
func (s *Store) DueFlashcards(limit int) ([]Flashcard, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryCardsLocked(`
		SELECT f.id, f.note_id, f.question, f.answer, f.next_review, f.interval,
		       f.ease_factor, f.repetitions, f.created_at, f.updated_at
		FROM flashcards f
		JOIN notes n ON n.id = f.note_id AND n.is_trashed = 0
		WHERE f.next_review <= ?
		ORDER BY f.next_review ASC
		LIMIT ?
	`, s.unix(), limit)
}

// Stats reports the review workload: total cards, cards due now, cards
// reviewed since the start of today (UTC), and distinct active review days
// over the last 30 days.
func (s *Store) Stats() (*FlashcardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Unix()
	windowStart := now.Unix() - 30*86400

	var st FlashcardStats
	err := s.conn.QueryRow(`
		SELECT COUNT(*),
		       COUNT(CASE WHEN next_review <= ? THEN 1 END),
		       COUNT(CASE WHEN repetitions > 0 AND updated_at >= ? THEN 1 END)
		FROM flashcards
	`, now.Unix(), dayStart).Scan(&st.Total, &st.Due, &st.ReviewedToday)
	if err != nil {
		return nil, fmt.Errorf("store: flashcard stats: %w", err)
	}
	err = s.conn.QueryRow(`
		SELECT COUNT(DISTINCT updated_at / 86400)
		FROM flashcards
		WHERE repetitions > 0 AND updated_at >= ?
	`, windowStart).Scan(&st.ActiveDays)
	if err != nil {
		return nil, fmt.Errorf("store: flashcard stats: %w", err)
	}
	return &st, nil
}

func (s *Store) queryCardsLocked(query string, args ...any) ([]Flashcard, error) {
	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query flashcards: %w", err)
	}
	defer rows.Close()

	out := []Flashcard{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
