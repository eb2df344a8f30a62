package richtext

import (
	"reflect"
	"strings"
	"testing"
)

const sampleTree = `[
	{"type":"h1","children":[{"text":"Heading"}]},
	{"type":"p","children":[{"text":"hello "},{"text":"world","bold":true}]},
	{"type":"p","children":[{"text":"see [[Other Note|alias]] and [[Second]] #golang #notes"}]}
]`

func TestPlainText(t *testing.T) {
	got := PlainText(sampleTree)
	want := "Heading\nhello world\nsee [[Other Note|alias]] and [[Second]] #golang #notes"
	if got != want {
		t.Errorf("PlainText = %q, want %q", got, want)
	}
}

func TestPlainText_Malformed(t *testing.T) {
	if got := PlainText("not json"); got != "" {
		t.Errorf("malformed content should project to empty, got %q", got)
	}
	if got := PlainText("[]"); got != "" {
		t.Errorf("empty tree should project to empty, got %q", got)
	}
}

func TestWordCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one  two\nthree\tfour", 4},
	}
	for _, c := range cases {
		if got := WordCount(c.in); got != c.want {
			t.Errorf("WordCount(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestExtractLinks(t *testing.T) {
	res := Extract(sampleTree)
	want := []string{"Other Note", "Second"}
	if !reflect.DeepEqual(res.Links, want) {
		t.Errorf("Links = %v, want %v", res.Links, want)
	}
}

func TestExtractLinks_DedupAndEmpty(t *testing.T) {
	links := ExtractLinks("[[A]] [[A|x]] [[ ]] [[B]]")
	want := []string{"A", "B"}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("links = %v, want %v", links, want)
	}
}

func TestExtractTags(t *testing.T) {
	tags := ExtractTags("intro #go stuff #go #multi-word_tag #1bad")
	want := []string{"go", "multi-word_tag"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %v, want %v", tags, want)
	}
}

func TestFromPlainText_RoundTrip(t *testing.T) {
	content := FromPlainText("first para\n\nsecond para")
	if got := PlainText(content); got != "first para\nsecond para" {
		t.Errorf("round trip = %q", got)
	}
}

func TestFromPlainText_Empty(t *testing.T) {
	if got := FromPlainText("  \n\n "); got != "[]" {
		t.Errorf("empty input should yield empty tree, got %q", got)
	}
}

func TestMarkdown(t *testing.T) {
	content := `[
		{"type":"h2","children":[{"text":"Section"}]},
		{"type":"p","children":[{"text":"body text"}]},
		{"type":"blockquote","children":[{"text":"quoted"}]},
		{"type":"code_block","children":[{"text":"x := 1"}]}
	]`
	md := Markdown("My Note", content)
	for _, want := range []string{"# My Note\n", "## Section\n", "body text\n", "> quoted\n", "```\nx := 1\n```"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdown_MalformedContent(t *testing.T) {
	if got := Markdown("Title", "oops"); got != "# Title\n" {
		t.Errorf("malformed content should render heading only, got %q", got)
	}
}
