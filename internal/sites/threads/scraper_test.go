package threads

import (
	"errors"
	"strings"
	"testing"

	"chat2md/internal/markdown"
	"chat2md/internal/scraper"
)

const profileURL = "https://www.threads.net/@gopher"

const profileHTML = `<html><body><h1>Go Gopher</h1>` +
	`<div data-pressable-container="true">` +
	`<div><a href="/@gopher"><img alt="gopher的大頭貼照" src="/avatar.jpg"></a>` +
	`<a href="/@gopher/post/ABC"><time datetime="2025-10-06T10:00:00.000Z">1d</time></a></div>` +
	`<div><span>Hello<br>world</span></div>` +
	`<img alt="photo" src="/small.jpg" srcset="https://cdn.example/s.jpg 320w, https://cdn.example/l.jpg 1080w">` +
	`<div><svg aria-label="讚"></svg><span>12</span></div>` +
	`<div><svg aria-label="回覆"></svg><span>3</span></div>` +
	`</div>` +
	`<div data-pressable-container="true">` +
	`<a href="/@gopher/post/DEF"><time datetime="2025-10-05T08:30:00+08:00">2d</time></a>` +
	`<div><span>Look at this</span></div>` +
	`<video src="https://cdn.example/v.mp4"></video>` +
	`<div role="link"><div data-pressable-container="true">` +
	`<a href="/@other">other</a>` +
	`<a href="/@other/post/XYZ"><time datetime="2025-10-01T00:00:00Z">5d</time></a>` +
	`<div><span>quoted` + "\n" + `text</span></div>` +
	`</div></div>` +
	`</div>` +
	`<div data-pressable-container="true"><span>suggested profile</span></div>` +
	`</body></html>`

func extract(t *testing.T) *markdown.Document {
	t.Helper()
	page, err := scraper.NewPage(strings.NewReader(profileHTML), profileURL, "")
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	doc, err := (&ThreadsScraper{}).Extract(page, scraper.Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return doc
}

func TestExtract_Posts(t *testing.T) {
	doc := extract(t)
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(doc.Sections))
	}

	first := doc.Sections[0]
	if first.Heading != "Post from 2025-10-06T10:00:00.000Z" {
		t.Fatalf("heading = %q", first.Heading)
	}
	want := strings.Join([]string{
		"**Metadata:**",
		"- **Permalink:** [https://www.threads.net/@gopher/post/ABC](https://www.threads.net/@gopher/post/ABC)",
		"- **Likes:** 12",
		"- **Replies:** 3",
		"- **Shares/Reposts:** 0",
		"",
		"Hello",
		"world",
		"",
		"**Media:**",
		"![Image](https://cdn.example/l.jpg)",
		"",
		"---",
	}, "\n")
	if first.Body != want {
		t.Fatalf("first post:\n%s\n\nwant:\n%s", first.Body, want)
	}

	second := doc.Sections[1]
	if second.Heading != "Post from 2025-10-05T00:30:00.000Z" {
		t.Fatalf("heading = %q", second.Heading)
	}
	for _, part := range []string{
		"[Video](https://cdn.example/v.mp4)",
		"> [!quote] **other**\n> quoted text\n> [Link to quoted post](https://www.threads.net/@other/post/XYZ)",
	} {
		if !strings.Contains(second.Body, part) {
			t.Errorf("second post missing %q:\n%s", part, second.Body)
		}
	}
}

func TestExtract_DocumentHeader(t *testing.T) {
	doc := extract(t)
	got := doc.Markdown()
	wantPrefix := strings.Join([]string{
		"---",
		`parser: "Threads to Markdown v` + scraper.Version + `"`,
		`author: "Go Gopher"`,
		`username: "gopher"`,
		`url: "` + profileURL + `"`,
		"tags: Threads",
		"---",
		"",
		"# Go Gopher (@gopher)",
		"",
		"## Post from",
	}, "\n")
	if !strings.HasPrefix(got, wantPrefix) {
		t.Fatalf("got:\n%s", got)
	}
	if doc.FileStem() != "Threads-Go Gopher (gopher)" {
		t.Fatalf("stem = %q", doc.FileStem())
	}
}

func TestExtract_NoPosts(t *testing.T) {
	page, err := scraper.NewPage(strings.NewReader(`<h1>x</h1><div data-pressable-container="true">no time</div>`), profileURL, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := (&ThreadsScraper{}).Extract(page, scraper.Options{}); !errors.Is(err, scraper.ErrNoTurns) {
		t.Fatalf("expected ErrNoTurns, got %v", err)
	}
}

func TestHelpers(t *testing.T) {
	if got := isoTime("not a date"); got != "not a date" {
		t.Errorf("isoTime kept %q", got)
	}
	if got := isoTime("2024-02-29T23:59:59.5-01:00"); got != "2024-03-01T00:59:59.500Z" {
		t.Errorf("isoTime = %q", got)
	}
	if got := stem("", ""); got != "Threads-profile" {
		t.Errorf("stem = %q", got)
	}
	if got := markdown.Filename(stem("A/B", "ab"), ".md"); got != "Threads-A_B_(ab).md" {
		t.Errorf("filename = %q", got)
	}
}
