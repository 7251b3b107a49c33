package markdown

import (
	"strings"
)

var languageClassPrefixes = []string{"language-", "lang-"}

// codeBlock renders pre elements and site-specific code-block wrappers as a
// fenced block. A missing code element yields an empty fence, except for a
// bare pre, whose own text is the code.
func codeBlock(c *Converter, n Node, _ int) string {
	code := ""
	if el := n.Find("code"); el != nil {
		code = el.Text()
	} else if n.Tag() == "pre" {
		code = n.Text()
	}
	lang := ""
	if c.language != nil {
		lang = strings.TrimSpace(c.language(n))
	}
	return "\n\n```" + lang + "\n" + strings.TrimSpace(code) + "\n```\n\n"
}

// ClassLanguage reads the language from a language-xxx or lang-xxx class on
// the block's code element, or on the block itself.
func ClassLanguage(block Node) string {
	candidates := []Node{block}
	if code := block.Find("code"); code != nil {
		candidates = append([]Node{code}, candidates...)
	}
	for _, n := range candidates {
		for _, class := range strings.Fields(n.Attr("class")) {
			for _, prefix := range languageClassPrefixes {
				if lang, ok := strings.CutPrefix(class, prefix); ok && lang != "" {
					return lang
				}
			}
		}
	}
	return ""
}

// LabelLanguage returns a LanguageFunc reading the text of the first element
// matching selector inside the block. When the label is missing it falls
// back to ClassLanguage.
func LabelLanguage(selector string, lower bool) LanguageFunc {
	return func(block Node) string {
		lang := TextOf(block.Find(selector))
		if lang == "" {
			return ClassLanguage(block)
		}
		if lower {
			lang = strings.ToLower(lang)
		}
		return lang
	}
}
