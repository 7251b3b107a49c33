package generic

import (
	"fmt"
	"strings"

	"chat2md/internal/markdown"
	"chat2md/internal/scraper"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

// contentSelectors are tried in order when no selector is given; the first
// one matching a non-empty element wins.
var contentSelectors = []string{"article", "main", ".content", ".article", ".post", ".entry-content", "body"}

const fallbackTitle = "page"

func init() {
	scraper.Register(&GenericScraper{})
}

// GenericScraper converts the main content of any page. It serves no hosts
// and is used when no other site matches.
type GenericScraper struct{}

func (g *GenericScraper) Name() string          { return "generic" }
func (g *GenericScraper) Hosts() []string       { return nil }
func (g *GenericScraper) ReadySelector() string { return "body" }

// Extract converts every element matching opts.Selector, or the first
// common content container when no selector is set.
func (g *GenericScraper) Extract(page *scraper.Page, opts scraper.Options) (*markdown.Document, error) {
	sel, selector := contentSelection(page.Doc, opts.Selector)
	if sel == nil {
		return nil, scraper.NotFound(selector)
	}

	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.Table())

	var parts []string
	var convErr error
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		html, err := goquery.OuterHtml(absolute(page, s))
		if err != nil {
			convErr = fmt.Errorf("failed to read element HTML: %w", err)
			return false
		}
		out, err := conv.ConvertString(html)
		if err != nil {
			convErr = fmt.Errorf("failed to convert HTML to Markdown: %w", err)
			return false
		}
		if out = strings.TrimSpace(out); out != "" {
			parts = append(parts, out)
		}
		return true
	})
	if convErr != nil {
		return nil, convErr
	}
	if len(parts) == 0 {
		return nil, scraper.NotFound(selector)
	}

	title := markdown.Collapse(page.Title)
	if title == "" {
		title = fallbackTitle
	}
	doc := markdown.NewDocument()
	doc.Title = title
	doc.URL = page.URL
	doc.AddSection("", strings.Join(parts, "\n\n"))
	doc.Header = opts.Header("Web", title, page.URL)
	return doc, nil
}

// absolute returns a copy of s with link and image URLs resolved against
// the page URL. The snapshot itself is left untouched.
func absolute(page *scraper.Page, s *goquery.Selection) *goquery.Selection {
	c := s.Clone()
	c.Find("[href]").AddSelection(c.Filter("[href]")).Each(func(_ int, el *goquery.Selection) {
		el.SetAttr("href", page.Resolve(el.AttrOr("href", "")))
	})
	c.Find("[src]").Each(func(_ int, el *goquery.Selection) {
		el.SetAttr("src", page.Resolve(el.AttrOr("src", "")))
	})
	return c
}

// contentSelection returns the matches of selector, or of the first
// content selector with a non-empty match. It returns nil and the selector
// that was tried last when nothing matches.
func contentSelection(doc *goquery.Document, selector string) (*goquery.Selection, string) {
	if selector != "" {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel, selector
		}
		return nil, selector
	}
	for _, candidate := range contentSelectors {
		sel := doc.Find(candidate).First()
		if sel.Length() > 0 && strings.TrimSpace(sel.Text()) != "" {
			return sel, candidate
		}
	}
	return nil, contentSelectors[len(contentSelectors)-1]
}
