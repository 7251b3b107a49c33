package claude

import (
	"strings"

	"chat2md/internal/markdown"
	"chat2md/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

const (
	turnSelector     = `div[data-test-render-count]`
	userSelector     = `div[data-testid="user-message"]`
	responseSelector = `.font-claude-response-body`

	// Code blocks sit in a copy frame whose header carries the language.
	codeFrameClass    = "group/copy"
	codeFrameSelector = `.relative.group\/copy`
	codeLabelSelector = `.text-text-500.font-small`

	indentWidth   = 4
	titleLength   = 40
	fallbackTitle = "claude-chat"
)

func init() {
	scraper.Register(&ClaudeScraper{})
}

// ClaudeScraper extracts claude.ai chats.
type ClaudeScraper struct{}

func (s *ClaudeScraper) Name() string          { return "claude" }
func (s *ClaudeScraper) Hosts() []string       { return []string{"claude.ai"} }
func (s *ClaudeScraper) ReadySelector() string { return userSelector }

// Extract converts every turn into alternating "User n" and "Claude n"
// sections. The title is the start of the first prompt.
func (s *ClaudeScraper) Extract(page *scraper.Page, opts scraper.Options) (*markdown.Document, error) {
	turns := page.Doc.Find(turnSelector)
	if turns.Length() == 0 {
		return nil, scraper.NotFound(turnSelector)
	}

	conv := opts.Converter(indentWidth,
		markdown.WithLanguage(codeLanguage),
		markdown.WithOverride(codeFrameClass, codeFrame),
	)
	doc := markdown.NewDocument()
	firstPrompt := ""

	turns.Each(func(_ int, turn *goquery.Selection) {
		if user := turn.Find(userSelector).First(); user.Length() > 0 {
			text := strings.TrimSpace(conv.Convert(page.Node(user)))
			if firstPrompt == "" {
				firstPrompt = text
			}
			doc.AddTurn("User", text)
		}
		if resp := turn.Find(responseSelector).First(); resp.Length() > 0 {
			doc.AddTurn("Claude", conv.Convert(page.Node(resp)))
		}
	})

	if len(doc.Sections) == 0 {
		return nil, scraper.NotFound(turnSelector)
	}

	title := markdown.Truncate(markdown.Collapse(firstPrompt), titleLength)
	if title == "" {
		title = fallbackTitle
	}
	doc.Title = title
	doc.URL = page.URL
	doc.Header = opts.Header("Claude", title, page.URL)
	return doc, nil
}

// codeFrame renders only the code block of a copy frame, dropping the
// header label and buttons.
func codeFrame(c *markdown.Converter, n markdown.Node, depth int) string {
	if pre := n.Find("pre"); pre != nil {
		return c.ConvertAt(pre, depth)
	}
	return c.Inner(n, depth)
}

func codeLanguage(block markdown.Node) string {
	if frame := block.Closest(codeFrameSelector); frame != nil {
		if lang := markdown.TextOf(frame.Find(codeLabelSelector)); lang != "" {
			return lang
		}
	}
	return markdown.ClassLanguage(block)
}
