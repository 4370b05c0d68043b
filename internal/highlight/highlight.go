// Package highlight classifies source text into styled spans with a
// single-pass regex tokenizer. Highlighting is a pure function over
// the text: no shared state, safe to call from any goroutine,
// including a rendering loop when the document is small.
package highlight

import (
	"fmt"
	"regexp"
	"strings"
)

// Highlighter classifies source text for one language. Strings and
// comments are shared across languages; the keyword set is what makes
// a language.
type Highlighter struct {
	language string
	pattern  *regexp.Regexp
}

// Submatch group order inside the combined pattern. Strings win over
// comments starting inside them and vice versa because the scan is
// leftmost-first over the whole text.
const classes = `(\b(?:%s)\b)|("(?:[^"\\]|\\.)*")|(//[^\n]*|/\*(?s:.*?)\*/)`

// New creates a highlighter for a language with the given keywords.
func New(language string, keywords []string) *Highlighter {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}

	return &Highlighter{
		language: language,
		pattern:  regexp.MustCompile(fmt.Sprintf(classes, strings.Join(quoted, "|"))),
	}
}

// Swift returns a highlighter covering the most common Swift keywords.
func Swift() *Highlighter {
	return New("swift", []string{
		"func", "var", "let", "if", "else", "for", "while", "class", "struct", "import",
	})
}

// Kotlin returns a highlighter covering the most common Kotlin keywords.
func Kotlin() *Highlighter {
	return New("kotlin", []string{
		"fun", "var", "val", "if", "else", "for", "while", "class", "object", "import",
	})
}

// ForLanguage returns the built-in highlighter for a language id.
func ForLanguage(id string) (*Highlighter, bool) {
	switch id {
	case "swift":
		return Swift(), true
	case "kotlin":
		return Kotlin(), true
	default:
		return nil, false
	}
}

// Language returns the language name.
func (h *Highlighter) Language() string {
	return h.language
}

// Highlight tokenizes text into spans tiling the whole input, plain
// regions included. Block comments and strings may span lines; an
// unterminated construct stays plain text until it is closed.
func (h *Highlighter) Highlight(text string) []Span {
	if text == "" {
		return nil
	}

	var spans []Span
	last := 0

	for _, m := range h.pattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if start > last {
			spans = append(spans, Span{Start: last, End: start, Style: StyleNone})
		}
		spans = append(spans, Span{Start: start, End: end, Style: styleFor(m)})
		last = end
	}

	if last < len(text) {
		spans = append(spans, Span{Start: last, End: len(text), Style: StyleNone})
	}
	return spans
}

func styleFor(match []int) Style {
	switch {
	case match[2] >= 0:
		return StyleKeyword
	case match[4] >= 0:
		return StyleString
	case match[6] >= 0:
		return StyleComment
	default:
		return StyleNone
	}
}
