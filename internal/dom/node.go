// Package dom adapts parsed HTML snapshots to markdown.Node.
package dom

import (
	"fmt"
	"net/url"
	"strings"

	"chat2md/internal/markdown"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node wraps one *html.Node of a snapshot. Relative URLs resolve against base.
type Node struct {
	node *html.Node
	base *url.URL
}

var _ markdown.Node = (*Node)(nil)

// Wrap returns a Node for n, or nil when n is nil.
func Wrap(n *html.Node, base *url.URL) markdown.Node {
	if n == nil {
		return nil
	}
	return &Node{node: n, base: base}
}

// FromSelection wraps the first node of s, or returns nil when s is empty.
func FromSelection(s *goquery.Selection, base *url.URL) markdown.Node {
	if s == nil || len(s.Nodes) == 0 {
		return nil
	}
	return Wrap(s.Nodes[0], base)
}

// ParseBody parses an HTML document or fragment and returns its body.
func ParseBody(src, baseURL string) (markdown.Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return FromSelection(doc.Find("body"), ParseBase(baseURL)), nil
}

// ParseBase parses a page URL for link resolution. Invalid or empty input
// yields nil, which leaves URLs unresolved.
func ParseBase(raw string) *url.URL {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return u
}

// Resolve resolves ref against base. Unparseable refs are returned as is.
func Resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func (n *Node) IsText() bool {
	return n.node.Type == html.TextNode
}

func (n *Node) Tag() string {
	if n.node.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(n.node.Data)
}

func (n *Node) Text() string {
	if n.node.Type == html.TextNode {
		return n.node.Data
	}
	var b strings.Builder
	collectText(&b, n.node)
	return b.String()
}

func collectText(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			collectText(b, c)
		}
	}
}

func (n *Node) Children() []markdown.Node {
	var children []markdown.Node
	for c := n.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode || c.Type == html.ElementNode {
			children = append(children, &Node{node: c, base: n.base})
		}
	}
	return children
}

func (n *Node) HasClass(name string) bool {
	for _, class := range strings.Fields(n.Attr("class")) {
		if class == name {
			return true
		}
	}
	return false
}

func (n *Node) Attr(name string) string {
	for _, a := range n.node.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func (n *Node) ResolveURL(attr string) string {
	return Resolve(n.base, n.Attr(attr))
}

func (n *Node) Find(selector string) markdown.Node {
	if n.node.Type != html.ElementNode {
		return nil
	}
	return FromSelection(n.selection().Find(selector).First(), n.base)
}

func (n *Node) Closest(selector string) markdown.Node {
	return FromSelection(n.selection().Closest(selector), n.base)
}

func (n *Node) selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(n.node).Selection
}

// TextWithBreaks returns the text content of the first node of s with every
// br element read as a newline.
func TextWithBreaks(s *goquery.Selection) string {
	if s == nil || len(s.Nodes) == 0 {
		return ""
	}
	var b strings.Builder
	writeWithBreaks(&b, s.Nodes[0])
	return b.String()
}

func writeWithBreaks(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if strings.EqualFold(n.Data, "br") {
			b.WriteString("\n")
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeWithBreaks(b, c)
	}
}
