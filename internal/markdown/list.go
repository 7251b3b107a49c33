package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingBlankLine  = regexp.MustCompile(`^\s*\n`)
	trailingBlankLine = regexp.MustCompile(`\n\s*$`)
)

func unorderedList(c *Converter, n Node, depth int) string {
	return c.list(n, depth, func(int) string { return "* " })
}

func orderedList(c *Converter, n Node, depth int) string {
	return c.list(n, depth, func(i int) string { return strconv.Itoa(i) + ". " })
}

// list renders one line per li child. Numbering always starts at 1;
// the source start attribute is ignored. Other element children go through
// the normal rules, so script and style stay dropped.
func (c *Converter) list(n Node, depth int, marker func(int) string) string {
	var b strings.Builder
	indent := c.indentFor(depth)
	i := 0
	for _, item := range n.Children() {
		if item.IsText() {
			continue
		}
		if item.Tag() != "li" {
			b.WriteString(c.ConvertAt(item, depth))
			continue
		}
		i++
		text, nested := c.listItem(item, depth)
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString(marker(i))
		b.WriteString(strings.TrimLeft(TrimBlankLines(text), " \t"))
		b.WriteString(nested)
	}
	if c.listTrailingNewline && i > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

// listItem splits an item into its own text and the block of lists nested
// directly inside it, which render one level deeper.
func (c *Converter) listItem(item Node, depth int) (string, string) {
	var text, nested strings.Builder
	for _, child := range item.Children() {
		if isList(child) {
			nested.WriteString(c.ConvertAt(child, depth+1))
			continue
		}
		text.WriteString(c.ConvertAt(child, depth))
	}
	return text.String(), nested.String()
}

func isList(n Node) bool {
	if n.IsText() {
		return false
	}
	tag := n.Tag()
	return tag == "ul" || tag == "ol"
}

// TrimBlankLines removes the leading run of whitespace up to and including
// its last newline, and the trailing run starting at the last newline.
func TrimBlankLines(s string) string {
	s = leadingBlankLine.ReplaceAllString(s, "")
	return trailingBlankLine.ReplaceAllString(s, "")
}
