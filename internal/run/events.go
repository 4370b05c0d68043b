package run

import (
	"fmt"

	"github.com/dshills/runpad/internal/diag"
	"github.com/dshills/runpad/internal/process"
)

// RunState classifies how a run ended.
type RunState string

const (
	// StateCompleted indicates the process exited on its own, with
	// whatever exit code it chose.
	StateCompleted RunState = "completed"
	// StateStopped indicates the run was forcibly terminated via Stop.
	StateStopped RunState = "stopped"
	// StateFailed indicates the run never produced a process exit:
	// the scratch write or the launch failed.
	StateFailed RunState = "failed"
)

// Result is the terminal event of a run, delivered exactly once.
type Result struct {
	// RunID identifies the run the result belongs to.
	RunID string

	// State classifies the ending.
	State RunState

	// ExitCode is the process exit code. -1 for signal-killed
	// processes and for runs that never launched.
	ExitCode int

	// Err carries the failure for StateFailed results (for example a
	// *process.LaunchError). Nil otherwise.
	Err error
}

// Ok reports whether the run completed naturally with exit code 0.
func (r Result) Ok() bool {
	return r.State == StateCompleted && r.ExitCode == 0
}

// EventKind tags an Event variant.
type EventKind int

const (
	// EventOutput is a plain output line.
	EventOutput EventKind = iota
	// EventDiagnostic is an output line recognized as a diagnostic.
	EventDiagnostic
	// EventCompleted is the terminal result.
	EventCompleted
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventOutput:
		return "output"
	case EventDiagnostic:
		return "diagnostic"
	case EventCompleted:
		return "completed"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Event is the channel form of the sink notifications. Exactly one
// of Line, Line+Diag, or Result is meaningful, selected by Kind.
type Event struct {
	Kind   EventKind
	Line   process.Line
	Diag   diag.Diagnostic
	Result Result
}
