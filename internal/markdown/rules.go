package markdown

import (
	"strings"
)

func defaultHandlers() map[string]Handler {
	h := map[string]Handler{
		"p":          paragraph,
		"b":          wrap("**"),
		"strong":     wrap("**"),
		"i":          wrap("*"),
		"em":         wrap("*"),
		"code":       inlineCode,
		"pre":        codeBlock,
		"hr":         rule,
		"br":         lineBreak,
		"a":          link,
		"img":        image,
		"ul":         unorderedList,
		"ol":         orderedList,
		"li":         passthrough,
		"table":      table,
		"blockquote": blockquote,
		"script":     drop,
		"style":      drop,
		"template":   drop,
		"noscript":   drop,
		"head":       drop,
	}
	for level := 1; level <= 6; level++ {
		h["h"+string(rune('0'+level))] = heading(level)
	}
	return h
}

func passthrough(c *Converter, n Node, depth int) string {
	return c.Inner(n, depth)
}

func drop(*Converter, Node, int) string {
	return ""
}

func paragraph(c *Converter, n Node, depth int) string {
	return "\n\n" + trim(c.Inner(n, depth))
}

func heading(level int) Handler {
	marks := strings.Repeat("#", level)
	return func(c *Converter, n Node, depth int) string {
		return "\n\n" + marks + " " + trim(c.Inner(n, depth)) + "\n\n"
	}
}

func wrap(marker string) Handler {
	return func(c *Converter, n Node, depth int) string {
		return marker + c.Inner(n, depth) + marker
	}
}

func inlineCode(c *Converter, n Node, depth int) string {
	inner := c.Inner(n, depth)
	if n.Closest("pre") != nil {
		return inner
	}
	return "`" + inner + "`"
}

func rule(*Converter, Node, int) string {
	return "\n\n---\n\n"
}

func lineBreak(*Converter, Node, int) string {
	return "\n"
}

func link(c *Converter, n Node, depth int) string {
	return "[" + c.Inner(n, depth) + "](" + n.ResolveURL("href") + ")"
}

func image(_ *Converter, n Node, _ int) string {
	src := n.ResolveURL("src")
	if src == "" {
		return ""
	}
	return "![" + n.Attr("alt") + "](" + src + ")"
}

func blockquote(c *Converter, n Node, depth int) string {
	inner := trim(c.Inner(n, depth))
	if inner == "" {
		return ""
	}
	lines := strings.Split(inner, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + line
	}
	return "\n\n" + strings.Join(lines, "\n") + "\n\n"
}

// Attachment renders a file attachment annotation line, or "" when name is
// empty.
func Attachment(name string) string {
	if name == "" {
		return ""
	}
	return "\n> **Attachment:** `" + name + "`\n"
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
