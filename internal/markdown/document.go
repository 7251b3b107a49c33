package markdown

import (
	"fmt"
	"strconv"
	"strings"
)

// Field is one extra front matter record.
type Field struct {
	Key   string
	Value string
}

// Header is the front matter block written ahead of the document body.
// Records are written in the order parser, title, extra fields, url, tags,
// skipping empty ones.
type Header struct {
	Parser string
	Title  string
	Fields []Field
	URL    string
	Tags   []string
}

// String renders the header between two --- lines.
func (h *Header) String() string {
	var b strings.Builder
	b.WriteString("---\n")
	writeField(&b, "parser", h.Parser)
	writeField(&b, "title", h.Title)
	for _, f := range h.Fields {
		writeField(&b, f.Key, f.Value)
	}
	writeField(&b, "url", h.URL)
	if len(h.Tags) > 0 {
		b.WriteString("tags: " + strings.Join(h.Tags, ", ") + "\n")
	}
	b.WriteString("---\n")
	return b.String()
}

func writeField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(key + ": " + strconv.Quote(value) + "\n")
}

// Section is one titled block of the body, usually a conversation turn.
type Section struct {
	Heading string `json:"heading"`
	Role    string `json:"role,omitempty"`
	Index   int    `json:"index,omitempty"`
	Body    string `json:"body"`
}

// Document is an extracted conversation or post ready to be written out.
type Document struct {
	Header   *Header
	Title    string
	URL      string
	Preamble string
	Sections []Section
	// Stem overrides the title as the base of the file name.
	Stem string

	counters map[string]int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{counters: map[string]int{}}
}

// AddTurn appends a turn for role under the heading "{role} {n}", where n
// counts the turns of that role starting at 1.
func (d *Document) AddTurn(role, body string) {
	if d.counters == nil {
		d.counters = map[string]int{}
	}
	d.counters[role]++
	n := d.counters[role]
	d.Sections = append(d.Sections, Section{
		Heading: fmt.Sprintf("%s %d", role, n),
		Role:    role,
		Index:   n,
		Body:    strings.TrimSpace(body),
	})
}

// AddSection appends a free-form section.
func (d *Document) AddSection(heading, body string) {
	d.Sections = append(d.Sections, Section{Heading: heading, Body: strings.TrimSpace(body)})
}

// Turns returns how many turns role has.
func (d *Document) Turns(role string) int {
	return d.counters[role]
}

// Markdown renders the full document and normalizes its whitespace once.
func (d *Document) Markdown() string {
	var b strings.Builder
	if d.Header != nil {
		b.WriteString(d.Header.String())
		b.WriteString("\n")
	}
	if d.Title != "" {
		b.WriteString("# " + d.Title + "\n\n")
	}
	if d.Preamble != "" {
		b.WriteString(d.Preamble)
		b.WriteString("\n\n")
	}
	for _, s := range d.Sections {
		if s.Heading != "" {
			b.WriteString("## " + s.Heading + "\n\n")
		}
		b.WriteString(s.Body)
		b.WriteString("\n\n")
	}
	return Normalize(b.String())
}

// FileStem returns the base used for the file name.
func (d *Document) FileStem() string {
	if d.Stem != "" {
		return d.Stem
	}
	return d.Title
}
