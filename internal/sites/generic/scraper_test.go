package generic

import (
	"errors"
	"strings"
	"testing"

	"chat2md/internal/scraper"
)

const pageHTML = `<html><head><title>Release   notes</title></head><body>` +
	`<nav>Home</nav>` +
	`<article><h2>v1.2</h2><p>See <a href="/changes">changes</a>.</p>` +
	`<table><thead><tr><th>Fix</th><th>Issue</th></tr></thead><tbody><tr><td>crash</td><td>42</td></tr></tbody></table>` +
	`</article>` +
	`<div class="note">one</div><div class="note">two</div>` +
	`</body></html>`

func page(t *testing.T, src string) *scraper.Page {
	t.Helper()
	p, err := scraper.NewPage(strings.NewReader(src), "https://example.com/blog/1", "")
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	return p
}

func TestExtract_Article(t *testing.T) {
	doc, err := (&GenericScraper{}).Extract(page(t, pageHTML), scraper.Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Title != "Release notes" {
		t.Fatalf("title = %q", doc.Title)
	}
	got := doc.Markdown()
	for _, want := range []string{
		`parser: "Web to Markdown v` + scraper.Version + `"`,
		"## v1.2",
		"[changes](https://example.com/changes)",
		"| Fix",
		"| crash",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Home") {
		t.Errorf("navigation outside the article leaked:\n%s", got)
	}
}

func TestExtract_Selector(t *testing.T) {
	doc, err := (&GenericScraper{}).Extract(page(t, pageHTML), scraper.Options{Selector: ".note", OmitHeader: true})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := doc.Sections[0].Body; got != "one\n\ntwo" {
		t.Fatalf("body = %q", got)
	}
}

func TestExtract_NothingMatches(t *testing.T) {
	_, err := (&GenericScraper{}).Extract(page(t, pageHTML), scraper.Options{Selector: "#missing"})
	if !errors.Is(err, scraper.ErrNoTurns) {
		t.Fatalf("expected ErrNoTurns, got %v", err)
	}
	if !strings.Contains(err.Error(), "#missing") {
		t.Fatalf("error should name the selector: %v", err)
	}

	_, err = (&GenericScraper{}).Extract(page(t, "<html><body>  </body></html>"), scraper.Options{})
	if !errors.Is(err, scraper.ErrNoTurns) {
		t.Fatalf("expected ErrNoTurns for an empty page, got %v", err)
	}
}

func TestNotMatchedByURL(t *testing.T) {
	if s, ok := scraper.ForURL("https://example.com/"); ok {
		t.Fatalf("generic should only be a fallback, matched %s", s.Name())
	}
}
