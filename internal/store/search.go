package store

import "strings"

// SearchResult is one full-text hit. Title carries <mark> highlight markers
// around matched tokens; Snippet is a bounded window of the matching plain
// text.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Emoji   string `json:"emoji"`
	Snippet string `json:"snippet"`
}

// Search runs a full-text query over non-trashed notes. The query is treated
// as one literal phrase with prefix matching on its last token, never as
// query-language syntax. A blank query returns no results.
func (s *Store) Search(query string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []SearchResult{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchLocked(query, limit)
}

// phrasePrefix converts free text into a literal FTS5 phrase-prefix query.
// Embedded double quotes are stripped so user input can never smuggle in
// MATCH operators.
func phrasePrefix(query string) string {
	q := strings.ReplaceAll(strings.TrimSpace(query), `"`, "")
	if q == "" {
		return ""
	}
	return `"` + q + `"*`
}
