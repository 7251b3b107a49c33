package scraper

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"chat2md/internal/dom"
	"chat2md/internal/markdown"

	"github.com/PuerkitoBio/goquery"
)

// Version is written into the parser line of every document header.
var Version = "0.3.0"

var (
	// ErrNoTurns is returned when a page holds no conversation turns or posts.
	ErrNoTurns = errors.New("could not find conversation content")
	// ErrUnknownSite is returned for site names that are not registered.
	ErrUnknownSite = errors.New("unknown site")
)

// Site extracts one document from a rendered page snapshot.
type Site interface {
	Name() string
	// Hosts lists the host names the site serves; matching is by suffix.
	Hosts() []string
	// ReadySelector matches an element that only exists once the page has
	// rendered its content.
	ReadySelector() string
	Extract(page *Page, opts Options) (*markdown.Document, error)
}

// Options tune extraction and conversion.
type Options struct {
	Selector            string // generic site only
	IndentWidth         int    // 0 keeps the site default
	ListTrailingNewline bool
	OmitHeader          bool
}

// Converter builds a markdown.Converter with the site defaults and the
// user's overrides applied on top.
func (o Options) Converter(defaultIndent int, extra ...markdown.Option) *markdown.Converter {
	indent := defaultIndent
	if o.IndentWidth > 0 {
		indent = o.IndentWidth
	}
	opts := append([]markdown.Option{
		markdown.WithIndentWidth(indent),
		markdown.WithListTrailingNewline(o.ListTrailingNewline),
	}, extra...)
	return markdown.New(opts...)
}

// Header returns the front matter for a document produced by site, or nil
// when headers are disabled.
func (o Options) Header(site, title, pageURL string, fields ...markdown.Field) *markdown.Header {
	if o.OmitHeader {
		return nil
	}
	return &markdown.Header{
		Parser: fmt.Sprintf("%s to Markdown v%s", site, Version),
		Title:  title,
		Fields: fields,
		URL:    pageURL,
		Tags:   []string{site},
	}
}

// Page is an immutable snapshot of a rendered page.
type Page struct {
	URL   string
	Title string
	Doc   *goquery.Document
	Base  *url.URL
}

// NewPage parses rendered HTML. When title is empty the document title is
// used.
func NewPage(r io.Reader, pageURL, title string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return &Page{
		URL:   pageURL,
		Title: title,
		Doc:   doc,
		Base:  dom.ParseBase(pageURL),
	}, nil
}

// Node wraps the first element of s for conversion.
func (p *Page) Node(s *goquery.Selection) markdown.Node {
	return dom.FromSelection(s, p.Base)
}

// Resolve resolves ref against the page URL.
func (p *Page) Resolve(ref string) string {
	return dom.Resolve(p.Base, ref)
}

// Path returns the path of the page URL, or "" when it has none.
func (p *Page) Path() string {
	if p.Base == nil {
		return ""
	}
	return p.Base.Path
}

// NotFound wraps ErrNoTurns with the selector that matched nothing.
func NotFound(selector string) error {
	return fmt.Errorf("%w: no element matches %q", ErrNoTurns, selector)
}
