package process

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/google/uuid"
)

// Sentinel errors.
var (
	// ErrProcessActive is returned when launching while a process is
	// still registered as current.
	ErrProcessActive = fmt.Errorf("a process is already active")

	// ErrEmptyCommand is returned for a launch with no argument vector.
	ErrEmptyCommand = fmt.Errorf("empty command")
)

// LaunchError reports a toolchain program that could not be started.
// It wraps the underlying OS error.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("cannot launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Logger is the subset of the application logger used here.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Supervisor owns the at-most-one live external process of a session.
//
// The current-process slot is the only shared mutable state; every
// transition into and out of it happens under one mutex shared by
// Launch, Terminate, and the waiter's exit path, so a terminate race
// can neither revive a dead handle nor clear the slot twice.
type Supervisor struct {
	mu      sync.Mutex
	current *Handle

	log     Logger
	lineCap int
}

// SupervisorOption configures a Supervisor instance.
type SupervisorOption func(*Supervisor)

// WithLogger sets the logger for stream and termination reporting.
func WithLogger(l Logger) SupervisorOption {
	return func(s *Supervisor) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLineBuffer sets the capacity of the output line channel. The
// channel is the bounded hand-off between the pipe reader and the
// consumer; once it fills, the reader applies back pressure.
func WithLineBuffer(n int) SupervisorOption {
	return func(s *Supervisor) {
		if n > 0 {
			s.lineCap = n
		}
	}
}

// NewSupervisor creates a new process supervisor.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		log:     nopLogger{},
		lineCap: defaultLineBuffer,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Launch spawns argv with stderr merged into stdout and registers the
// process as current. Arguments are passed to the OS directly, never
// through a shell. Launch fails with ErrProcessActive while a current
// process exists and with *LaunchError when the program cannot be
// started; a failed launch registers nothing.
func (s *Supervisor) Launch(argv []string) (*Handle, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return nil, ErrProcessActive
	}

	// One pipe carries both streams so interleaving survives exactly
	// as the child emitted it.
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create output pipe: %w", err)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = w
	cmd.Stderr = w
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	if err := cmd.Start(); err != nil {
		_ = r.Close()
		_ = w.Close()
		return nil, &LaunchError{Path: argv[0], Err: err}
	}

	// The child holds its own copy of the write end. Closing ours is
	// what lets the reader see EOF when the child side closes.
	_ = w.Close()

	h := newHandle(uuid.New().String(), argv, cmd, s.lineCap)
	s.current = h

	s.log.Debug("launched %s (pid %d, id %s)", argv[0], h.PID(), h.ID)

	go s.readLines(h, r)
	go s.waitExit(h)

	return h, nil
}

// AwaitExit blocks until the process terminates and returns its exit
// code (-1 for signal-killed). By the time AwaitExit returns, the
// current-process slot is free again.
func (s *Supervisor) AwaitExit(h *Handle) int {
	<-h.done
	return h.ExitCode()
}

// Terminate forcibly kills the current process: SIGKILL to its
// process group, no negotiation, no grace period. Terminating an
// exited or non-current handle is a no-op. Kill failures are logged,
// not returned; exit detection still fires and cleans up.
func (s *Supervisor) Terminate(h *Handle) {
	if h == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != h || !h.IsRunning() {
		return
	}

	pid := h.PID()
	if pid <= 0 {
		return
	}

	// Negative pid addresses the whole group; toolchain wrappers like
	// kotlinc spawn a JVM child that must die with them.
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil {
		s.log.Warn("kill process group %d: %v", pid, err)
		if err := h.cmd.Process.Kill(); err != nil {
			s.log.Warn("kill process %d: %v", pid, err)
		}
	}
}

// Current returns the live handle, or nil when no process is
// registered.
func (s *Supervisor) Current() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// waitExit collects the exit status, frees the current-process slot,
// and then signals completion. Clearing before signalling means a
// caller returning from AwaitExit can immediately launch again.
func (s *Supervisor) waitExit(h *Handle) {
	err := h.cmd.Wait()

	code := 0
	state := StateExited

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				state = StateKilled
			}
		} else {
			code = -1
		}
	}

	h.setExit(code, state, err)

	s.mu.Lock()
	if s.current == h {
		s.current = nil
	}
	s.mu.Unlock()

	s.log.Debug("process %s exited: code %d, state %s", h.ID, code, state)

	close(h.done)
}
