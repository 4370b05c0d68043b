package process

import (
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"
)

// State represents the state of the supervised process.
type State int

const (
	// StateRunning indicates the process is currently running.
	StateRunning State = iota
	// StateExited indicates the process has exited on its own.
	StateExited
	// StateKilled indicates the process was killed by a signal.
	StateKilled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateKilled:
		return "killed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Handle is one launched toolchain process. A Handle is created
// already running; it never exists in a pre-start state.
type Handle struct {
	// ID is the unique identifier for this execution.
	ID string

	// Argv is the argument vector the process was launched with.
	Argv []string

	// Started is the time the process was started.
	Started time.Time

	cmd *exec.Cmd

	// lines carries the merged output stream, closed on stream end.
	lines chan Line

	// done is closed when the exit status has been collected.
	done chan struct{}

	state    atomic.Int32
	exitCode atomic.Int32

	// exitErr stores any error from Wait().
	exitErr error
	mu      sync.RWMutex
}

func newHandle(id string, argv []string, cmd *exec.Cmd, lineCap int) *Handle {
	h := &Handle{
		ID:      id,
		Argv:    argv,
		Started: time.Now(),
		cmd:     cmd,
		lines:   make(chan Line, lineCap),
		done:    make(chan struct{}),
	}
	h.state.Store(int32(StateRunning))
	h.exitCode.Store(-1)
	return h
}

// Lines returns the merged output stream. The channel is closed when
// the underlying pipe closes (process exit or explicit close); the
// sequence is not restartable.
func (h *Handle) Lines() <-chan Line {
	return h.lines
}

// Done returns a channel that is closed once the exit status is
// known.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// State returns the current process state.
func (h *Handle) State() State {
	return State(h.state.Load())
}

// ExitCode returns the process exit code, or -1 while running and for
// signal-killed processes.
func (h *Handle) ExitCode() int {
	return int(h.exitCode.Load())
}

// ExitError returns the error from waiting on the process, if any.
func (h *Handle) ExitError() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.exitErr
}

// IsRunning returns true while the process has not been reaped.
func (h *Handle) IsRunning() bool {
	return h.State() == StateRunning
}

// HasExited returns true once the process exited or was killed.
func (h *Handle) HasExited() bool {
	state := h.State()
	return state == StateExited || state == StateKilled
}

// PID returns the operating system process id, or -1 if unknown.
func (h *Handle) PID() int {
	if h.cmd == nil || h.cmd.Process == nil {
		return -1
	}
	return h.cmd.Process.Pid
}

// Runtime returns the time elapsed since the process started.
func (h *Handle) Runtime() time.Duration {
	if h.Started.IsZero() {
		return 0
	}
	return time.Since(h.Started)
}

func (h *Handle) setExit(code int, state State, err error) {
	h.mu.Lock()
	h.exitErr = err
	h.mu.Unlock()
	h.exitCode.Store(int32(code))
	h.state.Store(int32(state))
}
