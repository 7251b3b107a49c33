package gemini

import (
	"strings"

	"chat2md/internal/markdown"
	"chat2md/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

const (
	shareTurnSelector = `.chat-history share-turn-viewer`
	appTurnSelector   = `.conversation-container`
	userSelector      = `user-query .query-text`
	responseSelector  = `.markdown`
	titleSelector     = `h1 strong`

	codeBlockTag  = "code-block"
	codeLabel     = `.code-block-decoration .gds-title-s`
	indentWidth   = 2
	titleLength   = 40
	fallbackTitle = "gemini-chat"
)

func init() {
	scraper.Register(&GeminiScraper{})
}

// GeminiScraper extracts gemini.google.com app and share pages.
type GeminiScraper struct{}

func (s *GeminiScraper) Name() string          { return "gemini" }
func (s *GeminiScraper) Hosts() []string       { return []string{"gemini.google.com"} }
func (s *GeminiScraper) ReadySelector() string { return appTurnSelector + ", .chat-history" }

// turnSelectors lists the turn selectors to try, the one matching the page
// kind first.
func turnSelectors(path string) []string {
	if strings.HasPrefix(path, "/share/") {
		return []string{shareTurnSelector, appTurnSelector}
	}
	return []string{appTurnSelector, shareTurnSelector}
}

func (s *GeminiScraper) Extract(page *scraper.Page, opts scraper.Options) (*markdown.Document, error) {
	selectors := turnSelectors(page.Path())
	var turns *goquery.Selection
	for _, sel := range selectors {
		if turns = page.Doc.Find(sel); turns.Length() > 0 {
			break
		}
	}
	if turns.Length() == 0 {
		return nil, scraper.NotFound(selectors[0])
	}

	conv := opts.Converter(indentWidth,
		markdown.WithCodeBlockTag(codeBlockTag),
		markdown.WithLanguage(markdown.LabelLanguage(codeLabel, true)),
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
			doc.AddTurn("Gemini", conv.Convert(page.Node(resp)))
		}
	})

	if len(doc.Sections) == 0 {
		return nil, scraper.NotFound(selectors[0])
	}

	title := markdown.Collapse(page.Doc.Find(titleSelector).First().Text())
	if title == "" {
		title = markdown.Truncate(markdown.Collapse(firstPrompt), titleLength)
	}
	if title == "" {
		title = fallbackTitle
	}
	doc.Title = title
	doc.URL = page.URL
	doc.Header = opts.Header("Gemini", title, page.URL)
	return doc, nil
}
