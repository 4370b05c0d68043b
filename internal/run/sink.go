package run

import (
	"github.com/dshills/runpad/internal/diag"
	"github.com/dshills/runpad/internal/process"
)

// Sink receives the event stream of a run. All methods are invoked
// from the run goroutine, strictly in emission order; OnCompleted is
// called exactly once per run, last. Implementations that hand off to
// another goroutine must preserve that order themselves.
type Sink interface {
	// OnOutput is called for each plain output line.
	OnOutput(line process.Line)

	// OnDiagnostic is called for each line recognized as a compiler
	// diagnostic, with the parsed record and the raw line.
	OnDiagnostic(d diag.Diagnostic, line process.Line)

	// OnCompleted is called once with the terminal result.
	OnCompleted(result Result)
}

// ChannelSink adapts the callback contract to a buffered event
// channel, for consumers built around select loops. Sends block when
// the buffer fills, so a consumer must keep draining Events; order
// and the completion-last guarantee carry over unchanged.
type ChannelSink struct {
	ch chan Event
}

// NewChannelSink creates a channel sink with the given buffer size.
func NewChannelSink(buf int) *ChannelSink {
	if buf < 0 {
		buf = 0
	}
	return &ChannelSink{ch: make(chan Event, buf)}
}

// Events returns the event channel. The channel is never closed; a
// run's end is marked by its EventCompleted event.
func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}

// OnOutput implements Sink.
func (s *ChannelSink) OnOutput(line process.Line) {
	s.ch <- Event{Kind: EventOutput, Line: line}
}

// OnDiagnostic implements Sink.
func (s *ChannelSink) OnDiagnostic(d diag.Diagnostic, line process.Line) {
	s.ch <- Event{Kind: EventDiagnostic, Diag: d, Line: line}
}

// OnCompleted implements Sink.
func (s *ChannelSink) OnCompleted(result Result) {
	s.ch <- Event{Kind: EventCompleted, Result: result}
}

var _ Sink = (*ChannelSink)(nil)
