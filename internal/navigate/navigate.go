// Package navigate resolves 1-based diagnostic locations against a
// document's line structure, producing 0-based absolute character
// offsets. Out-of-range locations are clamped rather than rejected:
// a diagnostic can reference content the editor no longer holds, and
// jumping near the reported spot beats failing.
package navigate

// Editor is the caret and selection surface the resolver drives. The
// editor widget itself lives outside this module; anything exposing
// per-line lengths and offset-addressed caret movement can satisfy it.
type Editor interface {
	// LineCount returns the number of lines in the document.
	LineCount() int

	// LineLength returns the character length of the 0-based line,
	// excluding its separator.
	LineLength(line int) int

	// SetCaret moves the caret to a 0-based absolute offset and
	// brings it into view.
	SetCaret(offset int)

	// Select selects the half-open range [start, end).
	Select(start, end int)
}

// Offset converts a 1-based (line, col) location to a 0-based
// absolute offset given the per-line character lengths. Every line
// before the target contributes its length plus one separator; the
// column contributes min(col-1, target line length). A line past the
// document is clamped to the last line, a column past the line to
// the line end. An empty document resolves to offset 0.
func Offset(lengths []int, line, col int) int {
	offset, _, _ := resolve(lengths, line, col)
	return offset
}

// To moves the editor's caret to the resolved offset. When the
// column falls inside the target line, up to three characters at the
// location are selected as a visual anchor; a clamped column gets no
// selection.
func To(ed Editor, line, col int) {
	lengths := make([]int, ed.LineCount())
	for i := range lengths {
		lengths[i] = ed.LineLength(i)
	}

	offset, targetCol, lineLen := resolve(lengths, line, col)
	ed.SetCaret(offset)

	if targetCol < lineLen {
		ed.Select(offset, offset+min(3, lineLen-targetCol))
	}
}

// resolve returns the absolute offset along with the clamped 0-based
// column and the target line length, which the selection step needs.
func resolve(lengths []int, line, col int) (offset, targetCol, lineLen int) {
	if len(lengths) == 0 {
		return 0, 0, 0
	}

	targetLine := line - 1
	if targetLine < 0 {
		targetLine = 0
	}
	if targetLine >= len(lengths) {
		targetLine = len(lengths) - 1
	}

	targetCol = col - 1
	if targetCol < 0 {
		targetCol = 0
	}

	for _, n := range lengths[:targetLine] {
		offset += n + 1
	}

	lineLen = lengths[targetLine]
	offset += min(targetCol, lineLen)
	return offset, targetCol, lineLen
}
