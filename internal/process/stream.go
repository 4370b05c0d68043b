package process

import (
	"bufio"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	// defaultLineBuffer is the default capacity of the line channel.
	defaultLineBuffer = 128

	// scanBuffer is the initial scanner buffer size.
	scanBuffer = 64 * 1024

	// maxLineBytes caps a single output line.
	maxLineBytes = 1024 * 1024
)

// Line is a single line of merged process output.
type Line struct {
	// Text is the line content without the trailing newline.
	Text string

	// Num is the 1-based sequential line number within the run.
	Num int

	// Time is when the line was read.
	Time time.Time
}

// readLines drains the merged pipe into the handle's line channel.
// Sends block once the bounded channel fills; the pipe itself keeps
// draining up to that bound, so only a persistently stalled consumer
// ever back-pressures the child.
func (s *Supervisor) readLines(h *Handle, r *os.File) {
	defer func() {
		_ = r.Close()
		close(h.lines)
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, scanBuffer), maxLineBytes)

	num := 0
	for scanner.Scan() {
		num++
		h.lines <- Line{
			Text: decodeLine(scanner.Bytes()),
			Num:  num,
			Time: time.Now(),
		}
	}

	if err := scanner.Err(); err != nil {
		s.log.Warn("output stream for %s ended early: %v", h.ID, err)
	}
}

// decodeLine converts raw line bytes to a string. Valid UTF-8 passes
// through; anything else is re-read as Latin-1, which maps every byte
// to a rune, so malformed toolchain output degrades to readable text
// instead of failing the stream.
func decodeLine(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return string(decoded)
}
