package ptt

import (
	"regexp"
	"strings"

	"chat2md/internal/markdown"
	"chat2md/internal/scraper"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	rootSelector     = `#main-content`
	metaLineSelector = `.article-metaline, .article-metaline-right`
	pushSelector     = `.push`
	quoteSelector    = `.f2, .f6`

	fallbackTitle = "No Title"
	fallbackStem  = "ptt-article"
	missing       = "N/A"
)

var articlePath = regexp.MustCompile(`bbs/(.+)/(M\..+\.A\..+)\.html`)

func init() {
	scraper.Register(&PTTScraper{})
}

// PTTScraper extracts articles and push comments from the PTT web BBS.
type PTTScraper struct{}

func (s *PTTScraper) Name() string          { return "ptt" }
func (s *PTTScraper) Hosts() []string       { return []string{"ptt.cc"} }
func (s *PTTScraper) ReadySelector() string { return rootSelector }

// Extract walks the direct children of the article root. Text and links
// accumulate into paragraphs; push comments are grouped into one fenced
// block; system lines become block quotes.
func (s *PTTScraper) Extract(page *scraper.Page, opts scraper.Options) (*markdown.Document, error) {
	root := page.Doc.Find(rootSelector).First()
	if root.Length() == 0 {
		return nil, scraper.NotFound(rootSelector)
	}

	meta := map[string]string{}
	root.Find(metaLineSelector).Each(func(_ int, line *goquery.Selection) {
		tag := strings.TrimSpace(line.Find(".article-meta-tag").First().Text())
		value := strings.TrimSpace(line.Find(".article-meta-value").First().Text())
		if tag != "" && value != "" {
			meta[tag] = value
		}
	})

	w := &articleWriter{page: page}
	root.Contents().Each(func(_ int, node *goquery.Selection) {
		w.visit(node)
	})
	w.finish()

	title := meta["標題"]
	if title == "" {
		title = fallbackTitle
	}

	doc := markdown.NewDocument()
	doc.Title = title
	doc.URL = page.URL
	doc.Preamble = strings.Join([]string{
		"**作者:** " + valueOr(meta["作者"]),
		"**看板:** " + valueOr(meta["看板"]),
		"**時間:** " + valueOr(meta["時間"]),
		"",
		"---",
	}, "\n")
	doc.AddSection("", w.out.String())
	doc.Stem = stem(meta["標題"], page.Path())
	doc.Header = opts.Header("PTT", title, page.URL,
		markdown.Field{Key: "author", Value: meta["作者"]},
		markdown.Field{Key: "board", Value: meta["看板"]},
	)
	return doc, nil
}

func valueOr(v string) string {
	if v == "" {
		return missing
	}
	return v
}

// stem names the output file after the title without its reply prefix,
// falling back to the board and article id from the URL path.
func stem(title, path string) string {
	if title != "" {
		return strings.TrimPrefix(title, "Re: ")
	}
	if m := articlePath.FindStringSubmatch(path); m != nil {
		return m[1] + "-" + m[2]
	}
	return fallbackStem
}

type articleWriter struct {
	page   *scraper.Page
	out    strings.Builder
	text   strings.Builder
	inPush bool
}

func (w *articleWriter) visit(node *goquery.Selection) {
	n := node.Nodes[0]
	isElement := n.Type == html.ElementNode

	if isElement && node.Is(metaLineSelector) {
		return
	}
	if isElement && node.Is(pushSelector) {
		w.flush()
		if !w.inPush {
			w.out.WriteString("```\n")
			w.inPush = true
		}
		w.out.WriteString(pushLine(node))
		return
	}
	w.closePush()

	switch {
	case isElement && node.Is(quoteSelector):
		w.flush()
		w.quote(node)
	case n.Type == html.TextNode && strings.TrimSpace(n.Data) == "--":
		w.flush()
		w.out.WriteString("---\n\n")
	case isElement && n.Data == "a":
		w.text.WriteString(w.link(node))
	default:
		w.text.WriteString(node.Text())
	}
}

func pushLine(node *goquery.Selection) string {
	tag := strings.TrimSpace(node.Find(".push-tag").First().Text())
	user := strings.TrimSpace(node.Find(".push-userid").First().Text())
	content := node.Find(".push-content").First().Text()
	when := strings.TrimSpace(node.Find(".push-ipdatetime").First().Text())
	return tag + " " + user + content + " " + when + "\n"
}

func (w *articleWriter) quote(node *goquery.Selection) {
	var b strings.Builder
	node.Contents().Each(func(_ int, child *goquery.Selection) {
		if goquery.NodeName(child) == "a" {
			b.WriteString(w.link(child))
			return
		}
		b.WriteString(child.Text())
	})
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			w.out.WriteString("> " + line + "\n")
		}
	}
	w.out.WriteString("\n")
}

func (w *articleWriter) link(a *goquery.Selection) string {
	href, _ := a.Attr("href")
	return "[" + a.Text() + "](" + w.page.Resolve(href) + ")"
}

// flush writes the buffered paragraph text, trimmed, followed by a blank
// line.
func (w *articleWriter) flush() {
	if text := strings.TrimSpace(w.text.String()); text != "" {
		w.out.WriteString(text + "\n\n")
	}
	w.text.Reset()
}

func (w *articleWriter) closePush() {
	if w.inPush {
		w.out.WriteString("```\n\n")
		w.inPush = false
	}
}

func (w *articleWriter) finish() {
	w.flush()
	if w.inPush {
		w.out.WriteString("```\n")
		w.inPush = false
	}
}
