package run

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/runpad/internal/diag"
	"github.com/dshills/runpad/internal/language"
	"github.com/dshills/runpad/internal/process"
	"github.com/dshills/runpad/internal/workspace"
)

// Sentinel errors.
var (
	// ErrRunActive is returned when Execute is called while a run is
	// in flight.
	ErrRunActive = fmt.Errorf("a run is already active")

	// ErrShutdown is returned when the coordinator has been shut down.
	ErrShutdown = fmt.Errorf("coordinator is shut down")

	// ErrNilSink is returned when Execute is called without a sink.
	ErrNilSink = fmt.Errorf("nil event sink")
)

// Status is the caller-visible coordinator state.
type Status int

const (
	// StatusIdle means no run is in flight.
	StatusIdle Status = iota
	// StatusRunning means a run is in flight.
	StatusRunning
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Logger is the subset of the application logger used here.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Coordinator sequences workspace preparation, process launch, output
// relay, and completion notification into one asynchronous unit of
// work per run, and keeps overlapping runs from sharing the scratch
// file or the process slot.
type Coordinator struct {
	sup     *process.Supervisor
	ws      *workspace.Workspace
	reg     *language.Registry
	parser  *diag.Parser
	log     Logger
	metrics *Metrics

	mu      sync.Mutex
	status  Status
	handle  *process.Handle
	stopped bool
	closed  bool

	// runDone is the latest run's done channel, closed by that run's
	// goroutine after its terminal event.
	runDone chan struct{}
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLogger sets the logger for run lifecycle reporting.
func WithLogger(l Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a coordinator over the given supervisor, workspace, and
// language registry. The diagnostic parser is compiled from the
// registry's extension set.
func New(sup *process.Supervisor, ws *workspace.Workspace, reg *language.Registry, opts ...CoordinatorOption) (*Coordinator, error) {
	parser, err := diag.New(reg.Extensions())
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		sup:     sup,
		ws:      ws,
		reg:     reg,
		parser:  parser,
		log:     nopLogger{},
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State returns the two-state machine position, idle or running.
func (c *Coordinator) State() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Metrics returns the coordinator's run metrics.
func (c *Coordinator) Metrics() *Metrics {
	return c.metrics
}

// Execute starts one asynchronous run of source under the language
// with id langID, reporting through sink, and returns the run id
// without blocking on any part of the run.
//
// Only caller mistakes surface here: an unknown language, a nil sink,
// a run already in flight (ErrRunActive), or a shut-down coordinator
// (ErrShutdown). Errors inside the run itself are delivered to sink
// as a terminal StateFailed result instead. By the time OnCompleted
// fires, the coordinator is idle again and accepts the next Execute.
func (c *Coordinator) Execute(source, langID string, sink Sink) (string, error) {
	if sink == nil {
		return "", ErrNilSink
	}
	desc, ok := c.reg.Get(langID)
	if !ok {
		return "", fmt.Errorf("%w: %q", language.ErrUnknownLanguage, langID)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", ErrShutdown
	}
	if c.status == StatusRunning {
		c.mu.Unlock()
		return "", ErrRunActive
	}
	c.status = StatusRunning
	c.stopped = false
	c.handle = nil
	done := make(chan struct{})
	c.runDone = done
	c.mu.Unlock()

	runID := uuid.New().String()
	c.metrics.RecordRunStart()
	go c.run(runID, source, desc, sink, done)

	return runID, nil
}

// Stop requests forced termination of the active run, if any, and
// returns without waiting for the process to die; the run's terminal
// result still arrives through its sink. The return value reports
// whether a run was active, letting a caller surface a synthetic
// "terminated" notice immediately. Stop when idle is a no-op.
func (c *Coordinator) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusRunning {
		return false
	}

	c.stopped = true
	if c.handle != nil {
		c.sup.Terminate(c.handle)
	}
	return true
}

// Shutdown stops the active run, waits for its event stream to drain
// (bounded by ctx), and removes the scratch workspace. Removal errors
// are swallowed. Further Executes are rejected with ErrShutdown.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	if c.status == StatusRunning {
		c.stopped = true
		if c.handle != nil {
			c.sup.Terminate(c.handle)
		}
	}
	done := c.runDone
	c.mu.Unlock()

	// Waiting even when the run already released the slot covers the
	// window between release and the terminal event going out.
	var err error
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}
	}

	c.ws.Remove()
	return err
}

// run is the single goroutine performing every blocking step of one
// run. All sink calls happen here, which is what makes the ordering
// guarantee hold.
func (c *Coordinator) run(runID, source string, desc language.Descriptor, sink Sink, done chan struct{}) {
	// done closes only after the terminal event went out; Shutdown
	// waits on it.
	defer close(done)
	started := time.Now()

	// The slot is released before the completion event goes out, the
	// same order the supervisor uses: a caller reacting to OnCompleted
	// can start the next run immediately.
	var once sync.Once
	terminal := func(res Result) {
		once.Do(func() {
			c.metrics.RecordRunEnd(res.State, time.Since(started))
			c.release()
			sink.OnCompleted(res)
		})
	}

	path, err := c.ws.WriteScript(desc.Extension, source)
	if err != nil {
		c.log.Warn("run %s: %v", runID, err)
		terminal(Result{RunID: runID, State: StateFailed, ExitCode: -1, Err: err})
		return
	}

	h, err := c.sup.Launch(desc.BuildCommand(path))
	if err != nil {
		c.log.Warn("run %s: %v", runID, err)
		terminal(Result{RunID: runID, State: StateFailed, ExitCode: -1, Err: err})
		return
	}

	c.log.Debug("run %s: launched %s as process %s", runID, desc.ID, h.ID)

	// A Stop issued before the handle was registered could not reach
	// the process; honor it now.
	c.mu.Lock()
	c.handle = h
	stoppedEarly := c.stopped
	c.mu.Unlock()
	if stoppedEarly {
		c.sup.Terminate(h)
	}

	var g errgroup.Group
	g.Go(func() error {
		for line := range h.Lines() {
			c.metrics.RecordLine()
			if d, ok := c.parser.Parse(line.Text); ok {
				c.metrics.RecordDiagnostic()
				sink.OnDiagnostic(d, line)
			} else {
				sink.OnOutput(line)
			}
		}
		return nil
	})

	code := c.sup.AwaitExit(h)

	// The stream closes at process death; waiting on the relay keeps
	// the completion event strictly last.
	_ = g.Wait()

	c.mu.Lock()
	stopped := c.stopped
	c.mu.Unlock()

	state := StateCompleted
	if stopped && h.State() == process.StateKilled {
		state = StateStopped
	}

	c.log.Debug("run %s: %s, exit code %d", runID, state, code)
	terminal(Result{RunID: runID, State: state, ExitCode: code})
}

// release returns the coordinator to idle. Called exactly once per
// run, from its terminal delivery.
func (c *Coordinator) release() {
	c.mu.Lock()
	c.status = StatusIdle
	c.handle = nil
	c.mu.Unlock()
}
