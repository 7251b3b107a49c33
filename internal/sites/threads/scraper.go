package threads

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"chat2md/internal/dom"
	"chat2md/internal/markdown"
	"chat2md/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

const (
	postSelector  = `div[data-pressable-container="true"]`
	timeSelector  = `time[datetime]`
	quoteSelector = `div[role="link"]`
	textSelector  = `div > span`

	missing = "N/A"
)

var (
	usernamePattern = regexp.MustCompile(`@([^/]+)`)

	// Counters sit right after an icon labelled in the page language.
	likeLabels   = []string{"讚", "Like"}
	replyLabels  = []string{"回覆", "Reply"}
	repostLabels = []string{"轉發", "Repost"}

	avatarAlts = []string{"大頭貼照", "profile picture"}
)

func init() {
	scraper.Register(&ThreadsScraper{})
}

// ThreadsScraper extracts the posts shown on a Threads profile or post page.
type ThreadsScraper struct{}

func (s *ThreadsScraper) Name() string          { return "threads" }
func (s *ThreadsScraper) Hosts() []string       { return []string{"threads.net", "threads.com"} }
func (s *ThreadsScraper) ReadySelector() string { return postSelector + " " + timeSelector }

func (s *ThreadsScraper) Extract(page *scraper.Page, opts scraper.Options) (*markdown.Document, error) {
	posts := page.Doc.Find(postSelector).FilterFunction(func(_ int, post *goquery.Selection) bool {
		return post.Find(timeSelector).Length() > 0 && post.Closest(quoteSelector).Length() == 0
	})
	if posts.Length() == 0 {
		return nil, scraper.NotFound(postSelector)
	}

	author := strings.TrimSpace(page.Doc.Find("h1").First().Text())
	username := ""
	if m := usernamePattern.FindStringSubmatch(page.Path()); m != nil {
		username = m[1]
	}

	doc := markdown.NewDocument()
	doc.Title = fmt.Sprintf("%s (@%s)", valueOr(author), valueOr(username))
	doc.URL = page.URL
	doc.Stem = stem(author, username)
	doc.Header = opts.Header("Threads", "", page.URL,
		markdown.Field{Key: "author", Value: valueOr(author)},
		markdown.Field{Key: "username", Value: valueOr(username)},
	)

	posts.Each(func(_ int, post *goquery.Selection) {
		when, _ := post.Find(timeSelector).First().Attr("datetime")
		doc.AddSection("Post from "+isoTime(when), renderPost(page, post))
	})
	return doc, nil
}

func renderPost(page *scraper.Page, post *goquery.Selection) string {
	var b strings.Builder

	permalink := "No permalink found"
	if a := post.Find(timeSelector).First().Closest("a"); a.Length() > 0 {
		href, _ := a.Attr("href")
		permalink = page.Resolve(href)
	}
	b.WriteString("**Metadata:**\n")
	fmt.Fprintf(&b, "- **Permalink:** [%s](%s)\n", permalink, permalink)
	fmt.Fprintf(&b, "- **Likes:** %s\n", counter(post, likeLabels))
	fmt.Fprintf(&b, "- **Replies:** %s\n", counter(post, replyLabels))
	fmt.Fprintf(&b, "- **Shares/Reposts:** %s\n\n", counter(post, repostLabels))

	if text := strings.TrimSpace(dom.TextWithBreaks(post.Find(textSelector).First())); text != "" {
		b.WriteString(text + "\n\n")
	}

	var media []string
	post.Find("img").Each(func(_ int, img *goquery.Selection) {
		if isAvatar(img) {
			return
		}
		if src := imageSource(img); src != "" {
			media = append(media, "![Image]("+page.Resolve(src)+")")
		}
	})
	post.Find("video").Each(func(_ int, video *goquery.Selection) {
		src, _ := video.Attr("src")
		if src == "" {
			src, _ = video.Find("source").First().Attr("src")
		}
		if src != "" {
			media = append(media, "[Video]("+page.Resolve(src)+")")
		}
	})
	if len(media) > 0 {
		b.WriteString("**Media:**\n" + strings.Join(media, "\n") + "\n\n")
	}

	if quote := post.Find(quoteSelector).First(); quote.Length() > 0 {
		b.WriteString(renderQuote(page, quote))
	}

	b.WriteString("---")
	return b.String()
}

func renderQuote(page *scraper.Page, quote *goquery.Selection) string {
	link := missing
	if href, ok := quote.Find(`a[href*="/post/"]`).First().Attr("href"); ok {
		link = page.Resolve(href)
	}
	author := valueOr(strings.TrimSpace(quote.Find(`a[href*="/@"]`).First().Text()))
	text := markdown.Collapse(quote.Find(textSelector).First().Text())
	if text == "" {
		text = "No text"
	}
	return fmt.Sprintf("> [!quote] **%s**\n> %s\n> [Link to quoted post](%s)\n\n", author, text, link)
}

// counter reads the count shown next to the first element labelled with
// one of labels. Missing counters read as 0.
func counter(post *goquery.Selection, labels []string) string {
	for _, label := range labels {
		icon := post.Find(`[aria-label="` + label + `"]`).First()
		if icon.Length() == 0 {
			continue
		}
		if n := strings.TrimSpace(icon.Next().Text()); n != "" {
			return n
		}
		return "0"
	}
	return "0"
}

func isAvatar(img *goquery.Selection) bool {
	alt := img.AttrOr("alt", "")
	for _, a := range avatarAlts {
		if strings.Contains(alt, a) {
			return true
		}
	}
	return false
}

// imageSource returns the last, highest resolution srcset candidate, or
// src when there is no srcset.
func imageSource(img *goquery.Selection) string {
	if srcset := strings.TrimSpace(img.AttrOr("srcset", "")); srcset != "" {
		candidates := strings.Split(srcset, ",")
		if fields := strings.Fields(candidates[len(candidates)-1]); len(fields) > 0 {
			return fields[0]
		}
	}
	return img.AttrOr("src", "")
}

// isoTime renders a datetime attribute in UTC with millisecond precision.
// Unparseable values are kept as they are.
func isoTime(raw string) string {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func stem(author, username string) string {
	if username == "" {
		username = "profile"
	}
	if author == "" {
		return "Threads-" + username
	}
	return fmt.Sprintf("Threads-%s (%s)", author, username)
}

func valueOr(v string) string {
	if v == "" {
		return missing
	}
	return v
}
