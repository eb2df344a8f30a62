// Package inbox imports Markdown files dropped into a watched directory as
// notes. Each imported file is renamed with an .imported suffix so a restart
// never double-imports it.
package inbox

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nasby/ansuz/internal/richtext"
	"github.com/nasby/ansuz/internal/store"
)

// Imported is called after each successfully imported note.
type Imported func(noteID string)

// Importer turns Markdown files into store notes.
type Importer struct {
	store  *store.Store
	logger *slog.Logger

	// seen guards against the same content being imported twice in one
	// session (e.g. a Create followed by a Write event for one drop).
	seen map[string]struct{}
}

// NewImporter creates an importer writing into the given store.
func NewImporter(s *store.Store, logger *slog.Logger) *Importer {
	return &Importer{store: s, logger: logger, seen: map[string]struct{}{}}
}

// Scan imports every pending .md file already present in dir.
func (imp *Importer) Scan(dir string, cb Imported) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("inbox: scan: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !isPending(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		id, err := imp.ImportFile(path)
		if err != nil {
			imp.logger.Warn("inbox: import failed", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		if id != "" && cb != nil {
			cb(id)
		}
	}
	return nil
}

// ImportFile imports one Markdown file and renames it with the .imported
// suffix. It returns the new note id, or "" when the file was a duplicate of
// something already imported this session.
func (imp *Importer) ImportFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("inbox: read: %w", err)
	}

	sum := checksum(data)
	if _, dup := imp.seen[sum]; dup {
		imp.logger.Debug("inbox: duplicate skipped", slog.String("path", path))
		if err := markImported(path); err != nil {
			return "", err
		}
		return "", nil
	}

	fm, body := splitFrontmatter(data)
	content, plain, err := treeFromMarkdown(body)
	if err != nil {
		return "", err
	}

	title := deriveTitle(fm, body)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	id, err := imp.store.CreateNoteFromTemplate(title, "📥", content, plain)
	if err != nil {
		return "", err
	}

	tags := richtext.ExtractTags(plain)
	tags = append(tags, frontmatterTags(fm)...)
	if len(tags) > 0 {
		if err := imp.store.SyncInlineTags(id, dedup(tags)); err != nil {
			return "", err
		}
	}
	if links := richtext.ExtractLinks(plain); len(links) > 0 {
		if err := imp.store.SyncWikilinks(id, links); err != nil {
			return "", err
		}
	}

	imp.seen[sum] = struct{}{}
	if err := markImported(path); err != nil {
		return "", err
	}
	imp.logger.Info("inbox: imported", slog.String("path", path), slog.String("note_id", id))
	return id, nil
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func markImported(path string) error {
	if err := os.Rename(path, path+".imported"); err != nil {
		return fmt.Errorf("inbox: mark imported: %w", err)
	}
	return nil
}

func isPending(name string) bool {
	return strings.HasSuffix(name, ".md") && !strings.HasSuffix(name, ".imported")
}

// splitFrontmatter separates YAML frontmatter (between leading ---
// delimiters) from the body. Missing or invalid frontmatter yields the whole
// input as body.
func splitFrontmatter(data []byte) (map[string]any, []byte) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, data
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, data
	}

	var fm map[string]any
	if err := yaml.Unmarshal(rest[:idx], &fm); err != nil {
		return nil, data
	}
	body := bytes.TrimLeft(rest[idx+1+len(delim):], "\n\r")
	return fm, body
}

func deriveTitle(fm map[string]any, body []byte) string {
	if t, ok := fm["title"].(string); ok && t != "" {
		return t
	}
	for _, line := range strings.Split(string(body), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

func frontmatterTags(fm map[string]any) []string {
	raw, ok := fm["tags"].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
