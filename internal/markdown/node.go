package markdown

// Node is a read-only view over one node of a DOM snapshot.
// Only text and element nodes are ever exposed.
type Node interface {
	// IsText reports whether the node is a text node.
	IsText() bool
	// Tag returns the lower-cased tag name, or "" for text nodes.
	Tag() string
	// Text returns the data of a text node, or the text content of an element.
	Text() string
	// Children returns the child text and element nodes in document order.
	Children() []Node
	// HasClass reports class membership.
	HasClass(name string) bool
	// Attr returns the attribute value, or "" when absent.
	Attr(name string) string
	// ResolveURL returns the attribute value resolved against the page URL.
	ResolveURL(attr string) string
	// Find returns the first descendant matching the CSS selector, or nil.
	Find(selector string) Node
	// Closest returns the node itself or its nearest ancestor matching the
	// CSS selector, or nil.
	Closest(selector string) Node
}

// TextOf returns the trimmed text content of n, or "" when n is nil.
func TextOf(n Node) string {
	if n == nil {
		return ""
	}
	return trim(n.Text())
}
