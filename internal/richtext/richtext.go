// Package richtext projects the editor's serialized rich-text tree onto
// plain text and extracts the inline #tags and [[wikilinks]] embedded in it.
package richtext

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	tagRe      = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
)

// Node is one element of the serialized editor tree. Leaves carry Text,
// interior nodes carry Children; both may be present on malformed input and
// are then walked in that order.
type Node struct {
	Type     string  `json:"type,omitempty"`
	Text     *string `json:"text,omitempty"`
	Children []Node  `json:"children,omitempty"`
}

// Result holds everything derivable from a content tree.
type Result struct {
	PlainText string
	Tags      []string
	Links     []string
}

// Extract parses a serialized content tree and derives the plain-text
// projection plus inline tags and wikilink targets. Malformed JSON yields an
// empty projection rather than an error: the store persists whatever the
// caller declared, and an unreadable tree simply projects to nothing.
func Extract(content string) *Result {
	text := PlainText(content)
	return &Result{
		PlainText: text,
		Tags:      ExtractTags(text),
		Links:     ExtractLinks(text),
	}
}

// PlainText flattens the content tree into text. Top-level blocks are
// separated by newlines; leaf texts within a block are concatenated as-is.
func PlainText(content string) string {
	var blocks []Node
	if err := json.Unmarshal([]byte(content), &blocks); err != nil {
		return ""
	}
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		var sb strings.Builder
		collectText(b, &sb)
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, "\n")
}

func collectText(n Node, sb *strings.Builder) {
	if n.Text != nil {
		sb.WriteString(*n.Text)
	}
	for _, c := range n.Children {
		collectText(c, sb)
	}
}

// WordCount returns the whitespace-token count of plain text.
func WordCount(plain string) int {
	return len(strings.Fields(plain))
}

// ExtractLinks returns deduplicated wikilink targets from text, resolving
// [[Target|Alias]] forms to Target and preserving first-seen order.
func ExtractLinks(text string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := m[1]
		if i := strings.Index(target, "|"); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// ExtractTags returns deduplicated inline #tags from text.
func ExtractTags(text string) []string {
	matches := tagRe.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		t := m[1]
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// FromPlainText builds a minimal content tree from plain text: one paragraph
// node per blank-line-separated chunk. Used by imports that only have text.
func FromPlainText(text string) string {
	var blocks []Node
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		p := para
		blocks = append(blocks, Node{Type: "p", Children: []Node{{Text: &p}}})
	}
	if blocks == nil {
		blocks = []Node{}
	}
	data, err := json.Marshal(blocks)
	if err != nil {
		return "[]"
	}
	return string(data)
}
