package diag

import (
	"errors"
	"testing"
)

func newParser(t *testing.T) *Parser {
	t.Helper()
	p, err := New([]string{"swift", "kts"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestParseDiagnostics(t *testing.T) {
	p := newParser(t)

	tests := []struct {
		name string
		line string
		want Diagnostic
	}{
		{
			name: "swift error",
			line: "main.swift:12:5: error: missing return",
			want: Diagnostic{
				File:     "main.swift",
				Line:     12,
				Column:   5,
				Severity: SeverityError,
				Message:  " missing return",
			},
		},
		{
			name: "kotlin warning",
			line: "script.kts:3:14: warning: unused variable 'x'",
			want: Diagnostic{
				File:     "script.kts",
				Line:     3,
				Column:   14,
				Severity: SeverityWarning,
				Message:  " unused variable 'x'",
			},
		},
		{
			name: "path prefix stripped to file name",
			line: "/tmp/runpad-1234/script.swift:1:9: note: add 'return'",
			want: Diagnostic{
				File:     "script.swift",
				Line:     1,
				Column:   9,
				Severity: SeverityNote,
				Message:  " add 'return'",
			},
		},
		{
			name: "message keeps inner colons",
			line: "main.swift:2:1: error: expected ':' after label",
			want: Diagnostic{
				File:     "main.swift",
				Line:     2,
				Column:   1,
				Severity: SeverityError,
				Message:  " expected ':' after label",
			},
		},
		{
			name: "extra whitespace before severity",
			line: "main.swift:7:2:   warning: shadowed name",
			want: Diagnostic{
				File:     "main.swift",
				Line:     7,
				Column:   2,
				Severity: SeverityWarning,
				Message:  " shadowed name",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Parse(tt.line)
			if !ok {
				t.Fatalf("Parse(%q) did not match", tt.line)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseNonDiagnostics(t *testing.T) {
	p := newParser(t)

	lines := []string{
		"",
		"Hello, World!",
		"main.swift:12: error: missing column",
		"main.rs:1:2: error: wrong extension",
		"main.swift:12:5: Error: capitalized severity",
		"main.swift:12:5: fatal: unknown severity",
		"main.swift:a:5: error: non-numeric line",
		"compiling module main...",
		"swift:1:2: error: extension only",
	}

	for _, line := range lines {
		if d, ok := p.Parse(line); ok {
			t.Errorf("Parse(%q) matched unexpectedly: %+v", line, d)
		}
	}
}

func TestParseDegradesBadNumerics(t *testing.T) {
	p := newParser(t)

	lines := []string{
		"main.swift:0:5: error: zero line",
		"main.swift:5:0: error: zero column",
		"main.swift:99999999999999999999:5: error: line overflow",
		"main.swift:5:99999999999999999999: error: column overflow",
	}

	for _, line := range lines {
		if d, ok := p.Parse(line); ok {
			t.Errorf("Parse(%q) should degrade to plain text, got %+v", line, d)
		}
	}
}

func TestNewRequiresExtensions(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoExtensions) {
		t.Errorf("New(nil) error = %v, want ErrNoExtensions", err)
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{File: "main.swift", Line: 12, Column: 5, Severity: SeverityError, Message: " missing return"}
	want := "main.swift:12:5: error: missing return"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
