// Package diag classifies single lines of toolchain output as
// compiler diagnostics. Recognition is the one-line form
// "file.ext:line:column: severity: message"; anything else is plain
// output. Parsing is stateless and never fails a run: a
// diagnostic-shaped line with unusable numerics degrades to plain
// text.
package diag

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Severity is a diagnostic severity as emitted by the toolchain.
// Matching is case-sensitive; toolchains emit these lowercase.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// ErrNoExtensions indicates a parser constructed without any source
// extensions to recognize.
var ErrNoExtensions = errors.New("no source extensions configured")

// Diagnostic is one structured compiler message. Line and Column are
// 1-based. Message keeps its leading whitespace exactly as emitted.
type Diagnostic struct {
	File     string
	Line     int
	Column   int
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s:%s", d.File, d.Line, d.Column, d.Severity, d.Message)
}

// Parser recognizes diagnostic lines for a fixed extension set.
type Parser struct {
	re *regexp.Regexp
}

// Submatch layout: 1 prefix, 2 file, 3 line, 4 column, 5 severity,
// 6 message.
const shape = `^(.*?)(\w+\.(?:%s)):(\d+):(\d+):\s+(error|warning|note):(.*)$`

// New compiles a parser recognizing the given source extensions
// (without dots, e.g. "swift", "kts").
func New(extensions []string) (*Parser, error) {
	if len(extensions) == 0 {
		return nil, ErrNoExtensions
	}
	quoted := make([]string, len(extensions))
	for i, ext := range extensions {
		quoted[i] = regexp.QuoteMeta(ext)
	}
	re, err := regexp.Compile(fmt.Sprintf(shape, strings.Join(quoted, "|")))
	if err != nil {
		return nil, fmt.Errorf("compiling diagnostic pattern: %w", err)
	}
	return &Parser{re: re}, nil
}

// Parse classifies one line. The second return is false when the line
// is not a diagnostic; the line is then still valid plain output.
// Zero or overflowing line/column numbers degrade to plain text.
func (p *Parser) Parse(line string) (Diagnostic, bool) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return Diagnostic{}, false
	}

	lineNum, err := strconv.Atoi(m[3])
	if err != nil || lineNum <= 0 {
		return Diagnostic{}, false
	}
	col, err := strconv.Atoi(m[4])
	if err != nil || col <= 0 {
		return Diagnostic{}, false
	}

	return Diagnostic{
		File:     m[2],
		Line:     lineNum,
		Column:   col,
		Severity: Severity(m[5]),
		Message:  m[6],
	}, true
}
