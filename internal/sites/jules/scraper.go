package jules

import (
	"chat2md/internal/markdown"
	"chat2md/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

const (
	turnSelector    = `.chat-history > *`
	messageSelector = `.message`
	promptSelector  = `swebot-user-chat-bubble .message p`

	userTag  = "swebot-user-chat-bubble"
	agentTag = "swebot-agent-chat-bubble"

	filePreviewClass = "file-preview-container"
	tableFooterClass = "table-footer"

	codeBlockTag  = "code-block"
	codeLabel     = `.code-block-decoration > span`
	indentWidth   = 2
	titleLength   = 40
	fallbackTitle = "jules-chat"
)

func init() {
	scraper.Register(&JulesScraper{})
}

// JulesScraper extracts jules.google.com task conversations.
type JulesScraper struct{}

func (s *JulesScraper) Name() string          { return "jules" }
func (s *JulesScraper) Hosts() []string       { return []string{"jules.google.com"} }
func (s *JulesScraper) ReadySelector() string { return userTag + ", " + agentTag }

func (s *JulesScraper) Extract(page *scraper.Page, opts scraper.Options) (*markdown.Document, error) {
	turns := page.Doc.Find(turnSelector)
	if turns.Length() == 0 {
		return nil, scraper.NotFound(turnSelector)
	}

	conv := opts.Converter(indentWidth,
		markdown.WithCodeBlockTag(codeBlockTag),
		markdown.WithLanguage(markdown.LabelLanguage(codeLabel, false)),
		markdown.WithOverride(filePreviewClass, filePreview),
		markdown.WithSuppressedClass(tableFooterClass),
	)
	doc := markdown.NewDocument()

	turns.Each(func(_ int, turn *goquery.Selection) {
		role := ""
		switch goquery.NodeName(turn) {
		case userTag:
			role = "User"
		case agentTag:
			role = "Jules"
		default:
			return
		}
		if msg := turn.Find(messageSelector).First(); msg.Length() > 0 {
			doc.AddTurn(role, conv.Convert(page.Node(msg)))
		}
	})

	if len(doc.Sections) == 0 {
		return nil, scraper.NotFound(turnSelector)
	}

	title := markdown.Truncate(markdown.Collapse(page.Doc.Find(promptSelector).First().Text()), titleLength)
	if title == "" {
		title = fallbackTitle
	}
	doc.Title = title
	doc.URL = page.URL
	doc.Header = opts.Header("Jules", title, page.URL)
	return doc, nil
}

// filePreview renders a file card as an attachment line.
func filePreview(_ *markdown.Converter, n markdown.Node, _ int) string {
	name := markdown.TextOf(n.Find(".new-file-name"))
	if name == "" {
		return ""
	}
	if ext := markdown.TextOf(n.Find(".new-file-type")); ext != "" {
		name += "." + ext
	}
	return markdown.Attachment(name)
}
