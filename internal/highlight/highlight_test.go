package highlight

import (
	"reflect"
	"testing"
)

func TestHighlightSwift(t *testing.T) {
	h := Swift()

	tests := []struct {
		name string
		text string
		want []Span
	}{
		{
			name: "keyword at start",
			text: "let x = 5",
			want: []Span{
				{0, 3, StyleKeyword},
				{3, 9, StyleNone},
			},
		},
		{
			name: "string literal",
			text: `print("hello")`,
			want: []Span{
				{0, 6, StyleNone},
				{6, 13, StyleString},
				{13, 14, StyleNone},
			},
		},
		{
			name: "line comment",
			text: "x // note",
			want: []Span{
				{0, 2, StyleNone},
				{2, 9, StyleComment},
			},
		},
		{
			name: "block comment spans lines",
			text: "a /* b\nc */ d",
			want: []Span{
				{0, 2, StyleNone},
				{2, 11, StyleComment},
				{11, 13, StyleNone},
			},
		},
		{
			name: "adjacent keyword and string",
			text: `let"s"`,
			want: []Span{
				{0, 3, StyleKeyword},
				{3, 6, StyleString},
			},
		},
		{
			name: "string swallows comment marker",
			text: `"// text"`,
			want: []Span{
				{0, 9, StyleString},
			},
		},
		{
			name: "comment swallows keyword",
			text: "// let it be",
			want: []Span{
				{0, 12, StyleComment},
			},
		},
		{
			name: "string with escaped quote",
			text: `"a\"b"`,
			want: []Span{
				{0, 6, StyleString},
			},
		},
		{
			name: "keyword inside identifier ignored",
			text: "letter",
			want: []Span{
				{0, 6, StyleNone},
			},
		},
		{
			name: "unterminated block comment stays plain",
			text: "/* open",
			want: []Span{
				{0, 7, StyleNone},
			},
		},
		{
			name: "kotlin keyword is plain in swift",
			text: "fun x",
			want: []Span{
				{0, 5, StyleNone},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.Highlight(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Highlight(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestHighlightKotlin(t *testing.T) {
	h := Kotlin()

	got := h.Highlight("fun greet() { val s = \"hi\" }")
	want := []Span{
		{0, 3, StyleKeyword},
		{3, 14, StyleNone},
		{14, 17, StyleKeyword},
		{17, 22, StyleNone},
		{22, 26, StyleString},
		{26, 28, StyleNone},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Highlight = %v, want %v", got, want)
	}
}

func TestHighlightEmpty(t *testing.T) {
	if got := Swift().Highlight(""); got != nil {
		t.Errorf("Highlight(\"\") = %v, want nil", got)
	}
}

// Spans must tile the text: start at 0, end at len, no gaps, no
// overlap.
func TestHighlightTiles(t *testing.T) {
	text := "import Foundation\n" +
		"// greeting\n" +
		"func greet(name: String) {\n" +
		"    print(\"Hello, \\(name)!\")\n" +
		"}\n" +
		"/* block\n   comment */\n" +
		"greet(name: \"World\")\n"

	spans := Swift().Highlight(text)
	if len(spans) == 0 {
		t.Fatal("no spans produced")
	}

	if spans[0].Start != 0 {
		t.Errorf("first span starts at %d, want 0", spans[0].Start)
	}
	if last := spans[len(spans)-1]; last.End != len(text) {
		t.Errorf("last span ends at %d, want %d", last.End, len(text))
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].Start != spans[i-1].End {
			t.Errorf("span %d starts at %d, previous ended at %d",
				i, spans[i].Start, spans[i-1].End)
		}
	}
	for _, s := range spans {
		if s.Len() <= 0 {
			t.Errorf("empty span %v", s)
		}
	}
}

func TestForLanguage(t *testing.T) {
	for _, id := range []string{"swift", "kotlin"} {
		h, ok := ForLanguage(id)
		if !ok {
			t.Fatalf("ForLanguage(%q) not found", id)
		}
		if h.Language() != id {
			t.Errorf("Language() = %q, want %q", h.Language(), id)
		}
	}

	if _, ok := ForLanguage("ruby"); ok {
		t.Error("ForLanguage(\"ruby\") should not exist")
	}
}

func TestStyleString(t *testing.T) {
	tests := []struct {
		style Style
		want  string
	}{
		{StyleNone, "none"},
		{StyleKeyword, "keyword"},
		{StyleString, "string"},
		{StyleComment, "comment"},
		{Style(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.style.String(); got != tt.want {
			t.Errorf("Style(%d).String() = %q, want %q", tt.style, got, tt.want)
		}
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{Start: 2, End: 5, Style: StyleKeyword}

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	for pos, want := range map[int]bool{1: false, 2: true, 4: true, 5: false} {
		if got := s.Contains(pos); got != want {
			t.Errorf("Contains(%d) = %v, want %v", pos, got, want)
		}
	}
}
