package inbox

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/nasby/ansuz/internal/richtext"
)

var md = goldmark.New()

// treeFromMarkdown converts a Markdown body into the editor's serialized
// block tree plus its plain-text projection. Inline formatting is flattened;
// only block structure (headings, quotes, code, lists, paragraphs) survives.
func treeFromMarkdown(body []byte) (string, string, error) {
	root := md.Parser().Parse(text.NewReader(body))

	var blocks []richtext.Node
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		blocks = append(blocks, blocksFor(child, body)...)
	}
	if blocks == nil {
		blocks = []richtext.Node{}
	}

	data, err := json.Marshal(blocks)
	if err != nil {
		return "", "", fmt.Errorf("inbox: marshal tree: %w", err)
	}
	content := string(data)
	return content, richtext.PlainText(content), nil
}

func blocksFor(n ast.Node, src []byte) []richtext.Node {
	switch b := n.(type) {
	case *ast.Heading:
		level := b.Level
		if level > 3 {
			level = 3
		}
		return []richtext.Node{block(fmt.Sprintf("h%d", level), textOf(b, src))}
	case *ast.Blockquote:
		return []richtext.Node{block("blockquote", textOf(b, src))}
	case *ast.FencedCodeBlock:
		return []richtext.Node{block("code_block", linesOf(b, src))}
	case *ast.CodeBlock:
		return []richtext.Node{block("code_block", linesOf(b, src))}
	case *ast.List:
		var items []richtext.Node
		for item := b.FirstChild(); item != nil; item = item.NextSibling() {
			items = append(items, block("li", textOf(item, src)))
		}
		return items
	case *ast.ThematicBreak:
		return nil
	default:
		t := textOf(b, src)
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []richtext.Node{block("p", t)}
	}
}

func block(kind, txt string) richtext.Node {
	return richtext.Node{Type: kind, Children: []richtext.Node{{Text: &txt}}}
}

// textOf flattens every inline text leaf under n.
func textOf(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// linesOf reads the raw source lines of a code block, without the fence.
func linesOf(n ast.Node, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return strings.TrimRight(sb.String(), "\n")
}
