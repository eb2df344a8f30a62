package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nasby/ansuz/internal/apperr"
)

// RelatedNote is one entry of the "related notes" suggestion list.
type RelatedNote struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Emoji string `json:"emoji"`
	Score int    `json:"score"`
}

// relatedKeywordCount caps how many keywords drive the similarity probe.
const relatedKeywordCount = 5

var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "also": {}, "because": {},
	"been": {}, "before": {}, "being": {}, "between": {}, "both": {},
	"could": {}, "does": {}, "doing": {}, "down": {}, "during": {},
	"each": {}, "from": {}, "have": {}, "having": {}, "here": {},
	"into": {}, "just": {}, "like": {}, "more": {}, "most": {},
	"only": {}, "other": {}, "over": {}, "same": {}, "should": {},
	"some": {}, "such": {}, "than": {}, "that": {}, "their": {},
	"them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "under": {}, "very": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "will": {}, "with": {}, "would": {}, "your": {},
}

// RelatedNotes suggests up to five notes whose text shares this note's most
// frequent keywords. Score is the percentage of probe keywords each
// candidate matched; ties break on note id for a stable ordering.
func (s *Store) RelatedNotes(noteID string) ([]RelatedNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var plain string
	err := s.conn.QueryRow(`SELECT plain_text FROM notes WHERE id = ?`, noteID).Scan(&plain)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: related notes: %w", err)
	}

	keywords := topKeywords(plain, relatedKeywordCount)
	if len(keywords) == 0 {
		return []RelatedNote{}, nil
	}

	hits := map[string]int{}
	for _, kw := range keywords {
		ids, err := s.matchOtherNotesLocked(kw, noteID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			hits[id]++
		}
	}

	scored := make([]RelatedNote, 0, len(hits))
	for id, n := range hits {
		scored = append(scored, RelatedNote{ID: id, Score: n * 100 / len(keywords)})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})
	if len(scored) > 5 {
		scored = scored[:5]
	}

	for i := range scored {
		err := s.conn.QueryRow(`SELECT title, emoji FROM notes WHERE id = ?`, scored[i].ID).
			Scan(&scored[i].Title, &scored[i].Emoji)
		if err != nil {
			return nil, fmt.Errorf("store: related notes: %w", err)
		}
	}
	return scored, nil
}

// topKeywords returns the n most frequent words of length >= 4 that are not
// stopwords, most frequent first, ties in first-seen order.
func topKeywords(text string, n int) []string {
	counts := map[string]int{}
	order := map[string]int{}
	for i, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?()[]{}\"'#")
		if len(w) < 4 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, seen := counts[w]; !seen {
			order[w] = i
		}
		counts[w]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return order[words[i]] < order[words[j]]
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}
