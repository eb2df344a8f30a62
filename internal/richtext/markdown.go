package richtext

import (
	"encoding/json"
	"strings"
)

// Markdown renders a content tree as Markdown with the note title as the
// top-level heading. Block types without a Markdown equivalent fall back to
// plain paragraphs; unknown trees render as just the heading.
func Markdown(title, content string) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n")

	var blocks []Node
	if err := json.Unmarshal([]byte(content), &blocks); err != nil {
		return sb.String()
	}

	for _, b := range blocks {
		var text strings.Builder
		collectText(b, &text)
		line := text.String()
		if strings.TrimSpace(line) == "" && b.Type != "code_block" {
			continue
		}

		sb.WriteString("\n")
		switch b.Type {
		case "h1":
			sb.WriteString("# " + line + "\n")
		case "h2":
			sb.WriteString("## " + line + "\n")
		case "h3":
			sb.WriteString("### " + line + "\n")
		case "blockquote":
			sb.WriteString("> " + line + "\n")
		case "code_block":
			sb.WriteString("```\n" + line + "\n```\n")
		case "ul", "li":
			sb.WriteString("- " + line + "\n")
		default:
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}
