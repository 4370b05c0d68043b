package highlight

// Style classifies a region of source text for rendering.
type Style uint8

const (
	// StyleNone is unstyled text.
	StyleNone Style = iota
	// StyleKeyword is a language keyword.
	StyleKeyword
	// StyleString is a quoted string literal.
	StyleString
	// StyleComment is a line or block comment.
	StyleComment
)

// String returns the style's class name.
func (s Style) String() string {
	switch s {
	case StyleNone:
		return "none"
	case StyleKeyword:
		return "keyword"
	case StyleString:
		return "string"
	case StyleComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Span is a styled region of text, half-open [Start, End) in bytes.
// A highlighted document is a sequence of spans that tile the text
// with no gaps and no overlap.
type Span struct {
	Start int
	End   int
	Style Style
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether pos falls inside the span.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}
