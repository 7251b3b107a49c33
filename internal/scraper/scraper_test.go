package scraper

import (
	"errors"
	"strings"
	"testing"

	"chat2md/internal/markdown"
)

type fakeSite struct {
	name  string
	hosts []string
}

func (f *fakeSite) Name() string          { return f.name }
func (f *fakeSite) Hosts() []string       { return f.hosts }
func (f *fakeSite) ReadySelector() string { return "body" }
func (f *fakeSite) Extract(*Page, Options) (*markdown.Document, error) {
	return markdown.NewDocument(), nil
}

func TestRegistry_LookupAndHostMatching(t *testing.T) {
	Register(&fakeSite{name: "Test-Chat", hosts: []string{"chat.example.test"}})
	Register(&fakeSite{name: "test-forum", hosts: []string{"forum.test"}})

	if _, ok := Get("test-chat"); !ok {
		t.Fatal("lookup should be case-insensitive")
	}
	if _, err := Lookup("nope"); !errors.Is(err, ErrUnknownSite) {
		t.Fatalf("expected ErrUnknownSite, got %v", err)
	}

	cases := []struct {
		url  string
		want string
	}{
		{url: "https://chat.example.test/c/1", want: "test-chat"},
		{url: "https://CHAT.example.test", want: "test-chat"},
		{url: "https://www.forum.test/bbs/1.html", want: "test-forum"},
		{url: "https://notforum.test/", want: ""},
		{url: "not a url", want: ""},
		{url: "", want: ""},
	}
	for _, tc := range cases {
		s, ok := ForURL(tc.url)
		got := ""
		if ok {
			got = strings.ToLower(s.Name())
		}
		if got != tc.want {
			t.Errorf("ForURL(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestNewPage(t *testing.T) {
	page, err := NewPage(strings.NewReader(`<html><head><title> Chat </title></head><body><a href="x">x</a></body></html>`),
		"https://claude.ai/chat/1", "")
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	if page.Title != "Chat" {
		t.Fatalf("Title = %q", page.Title)
	}
	if page.Path() != "/chat/1" {
		t.Fatalf("Path = %q", page.Path())
	}
	if got := page.Resolve("x"); got != "https://claude.ai/chat/x" {
		t.Fatalf("Resolve = %q", got)
	}
	if page.Node(page.Doc.Find("table")) != nil {
		t.Fatal("empty selection should give nil node")
	}
}

func TestOptions(t *testing.T) {
	opts := Options{IndentWidth: 3}
	h := opts.Header("Claude", "T", "https://claude.ai/chat/1")
	if h == nil || h.Parser != "Claude to Markdown v"+Version || h.Tags[0] != "Claude" {
		t.Fatalf("unexpected header %+v", h)
	}
	if (Options{OmitHeader: true}).Header("Claude", "T", "") != nil {
		t.Fatal("header should be omitted")
	}
	if !errors.Is(NotFound(".x"), ErrNoTurns) {
		t.Fatal("NotFound should wrap ErrNoTurns")
	}
}
