package mcpserver

// NoteConventions describes the content conventions LLM consumers should
// follow when creating notes.
const NoteConventions = `# Ansuz Note Conventions

Notes created through this server are plain text; the store converts each
blank-line-separated chunk into one paragraph block.

## Rules

1. **Titles are the identity.** [[wikilinks]] resolve against note titles
   (case-insensitive), so pick stable, descriptive titles.
2. **Wikilinks** use double brackets: ` + "`" + `[[Other Note]]` + "`" + `. Use
   ` + "`" + `[[Target|display text]]` + "`" + ` when the display text should differ.
   Links to titles that do not exist yet are kept in the text but produce no
   graph edge until a matching note appears.
3. **Inline tags** start with ` + "`" + `#` + "`" + ` followed by a letter:
   ` + "`" + `#project-x` + "`" + `, ` + "`" + `#meeting_notes` + "`" + `. They are extracted into the tag
   index automatically. Prefer lowercase kebab-case.
4. **Paragraphs** are separated by one blank line. There is no Markdown
   rendering on this path; headings and emphasis markers are stored verbatim.
5. **Encoding** is UTF-8. Titles and tags may use any language.

## Example

` + "```" + `
Weekly standup with [[Alice]] and [[Bob|the other Bob]].

Action items: review the [[Design Doc]] before Friday. #meeting-notes
#project-x
` + "```" + `
`
