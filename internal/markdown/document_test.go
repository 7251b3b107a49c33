package markdown_test

import (
	"strings"
	"testing"

	"chat2md/internal/markdown"

	"github.com/adrg/frontmatter"
)

func sampleDocument() *markdown.Document {
	doc := markdown.NewDocument()
	doc.Title = "Hi"
	doc.Header = &markdown.Header{
		Parser: "Claude to Markdown v0.3.0",
		Title:  "Hi",
		URL:    "https://claude.ai/chat/1",
		Tags:   []string{"Claude"},
	}
	doc.AddTurn("User", "hello")
	doc.AddTurn("Claude", "\n\nworld\n\n\n\n!")
	doc.AddTurn("User", "again")
	return doc
}

func TestDocument_Markdown(t *testing.T) {
	want := strings.Join([]string{
		"---",
		`parser: "Claude to Markdown v0.3.0"`,
		`title: "Hi"`,
		`url: "https://claude.ai/chat/1"`,
		"tags: Claude",
		"---",
		"",
		"# Hi",
		"",
		"## User 1",
		"",
		"hello",
		"",
		"## Claude 1",
		"",
		"world",
		"",
		"!",
		"",
		"## User 2",
		"",
		"again",
	}, "\n")
	if got := sampleDocument().Markdown(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDocument_TurnCounters(t *testing.T) {
	doc := sampleDocument()
	if got := doc.Turns("User"); got != 2 {
		t.Fatalf("User turns = %d, want 2", got)
	}
	if got := doc.Turns("Claude"); got != 1 {
		t.Fatalf("Claude turns = %d, want 1", got)
	}
	headings := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		headings = append(headings, s.Heading)
	}
	if strings.Join(headings, ",") != "User 1,Claude 1,User 2" {
		t.Fatalf("headings = %v", headings)
	}
}

func TestDocument_WithoutHeaderOrTitle(t *testing.T) {
	doc := &markdown.Document{Preamble: "\n\nintro\n\n\n"}
	doc.AddSection("Post from 2024-01-02T03:04:05.000Z", "body")
	want := "intro\n\n## Post from 2024-01-02T03:04:05.000Z\n\nbody"
	if got := doc.Markdown(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestHeader_IsValidFrontMatter(t *testing.T) {
	doc := sampleDocument()
	doc.Header.Title = `Say "hi": a test`
	doc.Header.Fields = []markdown.Field{{Key: "author", Value: "Jane"}, {Key: "username", Value: ""}}

	var meta struct {
		Parser   string `yaml:"parser"`
		Title    string `yaml:"title"`
		Author   string `yaml:"author"`
		Username string `yaml:"username"`
		URL      string `yaml:"url"`
		Tags     string `yaml:"tags"`
	}
	rest, err := frontmatter.Parse(strings.NewReader(doc.Markdown()), &meta)
	if err != nil {
		t.Fatalf("parse front matter: %v", err)
	}
	if meta.Title != `Say "hi": a test` || meta.Author != "Jane" || meta.Tags != "Claude" {
		t.Fatalf("unexpected front matter %+v", meta)
	}
	if meta.Username != "" {
		t.Fatalf("empty field should be skipped, got %q", meta.Username)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(rest)), "# Hi") {
		t.Fatalf("body should start with the title, got %q", rest)
	}

	header := doc.Header.String()
	order := []string{"parser:", "title:", "author:", "url:", "tags:"}
	last := -1
	for _, key := range order {
		idx := strings.Index(header, key)
		if idx <= last {
			t.Fatalf("%s out of order in %q", key, header)
		}
		last = idx
	}
}

func TestDocument_FileStem(t *testing.T) {
	doc := markdown.NewDocument()
	doc.Title = "Title"
	if doc.FileStem() != "Title" {
		t.Fatalf("FileStem = %q", doc.FileStem())
	}
	doc.Stem = "board-M.1.A.2"
	if doc.FileStem() != "board-M.1.A.2" {
		t.Fatalf("FileStem = %q", doc.FileStem())
	}
}
