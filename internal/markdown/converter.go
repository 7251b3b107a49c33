// Package markdown converts DOM subtrees of chat and forum pages into
// Markdown, and assembles the converted turns into one document.
//
// The Converter walks a Node tree bottom-up. Class-keyed overrides are
// checked first and may suppress a whole subtree; then the lower-cased tag
// selects a Handler; unknown tags render their children unchanged so
// content is never dropped.
//
// The tree must not change while a conversion runs.
package markdown

import (
	"strings"
)

// DefaultIndentWidth is the number of spaces per list nesting level.
const DefaultIndentWidth = 2

// Handler renders one element at the given list depth. Handlers that need
// the rendered children call Converter.Inner.
type Handler func(c *Converter, n Node, depth int) string

// Override renders an element selected by class membership. It runs before
// the element's children are visited.
type Override func(c *Converter, n Node, depth int) string

// LanguageFunc locates the language label of a code block.
type LanguageFunc func(block Node) string

type classOverride struct {
	class  string
	render Override
}

// Converter turns a Node tree into a Markdown fragment.
type Converter struct {
	handlers            map[string]Handler
	overrides           []classOverride
	language            LanguageFunc
	indent              string
	listTrailingNewline bool
}

// Option configures a Converter.
type Option func(*Converter)

// New creates a Converter with the default tag table.
func New(opts ...Option) *Converter {
	c := &Converter{
		handlers: defaultHandlers(),
		language: ClassLanguage,
		indent:   strings.Repeat(" ", DefaultIndentWidth),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithIndentWidth sets the number of spaces per list level. Values below 1
// keep the default.
func WithIndentWidth(width int) Option {
	return func(c *Converter) {
		if width > 0 {
			c.indent = strings.Repeat(" ", width)
		}
	}
}

// WithHandler registers h for tag, replacing any existing handler.
// A nil handler makes the tag render its children unchanged.
func WithHandler(tag string, h Handler) Option {
	return func(c *Converter) {
		tag = strings.ToLower(tag)
		if h == nil {
			delete(c.handlers, tag)
			return
		}
		c.handlers[tag] = h
	}
}

// WithCodeBlockTag renders tag as a fenced code block, for renderers that
// wrap pre/code in a custom element carrying the language label.
func WithCodeBlockTag(tag string) Option {
	return WithHandler(tag, codeBlock)
}

// WithOverride renders every element carrying class with fn, ahead of tag
// dispatch. Overrides are tried in registration order.
func WithOverride(class string, fn Override) Option {
	return func(c *Converter) {
		c.overrides = append(c.overrides, classOverride{class: class, render: fn})
	}
}

// WithSuppressedClass drops every element carrying class, subtree included.
func WithSuppressedClass(class string) Option {
	return WithOverride(class, func(*Converter, Node, int) string { return "" })
}

// WithLanguage sets the code-language locator. nil disables language tags.
func WithLanguage(fn LanguageFunc) Option {
	return func(c *Converter) {
		c.language = fn
	}
}

// WithListTrailingNewline appends a newline after every list block.
func WithListTrailingNewline(on bool) Option {
	return func(c *Converter) {
		c.listTrailingNewline = on
	}
}

// Convert renders n at list depth 0.
func (c *Converter) Convert(n Node) string {
	return c.ConvertAt(n, 0)
}

// ConvertAt renders n and its subtree at the given list depth.
func (c *Converter) ConvertAt(n Node, depth int) string {
	if n == nil {
		return ""
	}
	if n.IsText() {
		return n.Text()
	}
	for _, o := range c.overrides {
		if n.HasClass(o.class) {
			return o.render(c, n, depth)
		}
	}
	if h, ok := c.handlers[n.Tag()]; ok {
		return h(c, n, depth)
	}
	return c.Inner(n, depth)
}

// Inner renders the children of n at depth and concatenates them.
func (c *Converter) Inner(n Node, depth int) string {
	var b strings.Builder
	for _, child := range n.Children() {
		b.WriteString(c.ConvertAt(child, depth))
	}
	return b.String()
}

func (c *Converter) indentFor(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(c.indent, depth)
}
