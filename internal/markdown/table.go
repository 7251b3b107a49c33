package markdown

import (
	"strings"
)

func table(c *Converter, n Node, _ int) string {
	var head, body [][]string
	for _, section := range n.Children() {
		if section.IsText() {
			continue
		}
		switch section.Tag() {
		case "thead":
			head = append(head, c.rows(section)...)
		case "tbody", "tfoot":
			body = append(body, c.rows(section)...)
		case "tr":
			if row := c.cells(section); len(row) > 0 {
				body = append(body, row)
			}
		}
	}

	var b strings.Builder
	b.WriteString("\n\n")
	for _, row := range head {
		writeRow(&b, row)
		sep := make([]string, len(row))
		for i := range sep {
			sep[i] = "---"
		}
		writeRow(&b, sep)
	}
	for _, row := range body {
		writeRow(&b, row)
	}
	b.WriteString("\n")
	return b.String()
}

func (c *Converter) rows(section Node) [][]string {
	var rows [][]string
	for _, tr := range section.Children() {
		if tr.IsText() || tr.Tag() != "tr" {
			continue
		}
		if row := c.cells(tr); len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

func (c *Converter) cells(tr Node) []string {
	var cells []string
	for _, cell := range tr.Children() {
		if cell.IsText() {
			continue
		}
		if tag := cell.Tag(); tag != "td" && tag != "th" {
			continue
		}
		cells = append(cells, cellText(c.ConvertAt(cell, 0)))
	}
	return cells
}

// cellText folds the cell onto one line and escapes pipes.
func cellText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}
