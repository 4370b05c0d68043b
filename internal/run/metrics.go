package run

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks run throughput and timing across a coordinator's
// lifetime.
type Metrics struct {
	// Run counters
	runsStarted   atomic.Uint64
	runsCompleted atomic.Uint64
	runsStopped   atomic.Uint64
	runsFailed    atomic.Uint64

	// Relay counters. lines counts every relayed line, diagnostics
	// the subset recognized as diagnostics.
	lines       atomic.Uint64
	diagnostics atomic.Uint64

	// Run timing
	runTotalNs atomic.Int64
	runMinNs   atomic.Int64
	runMaxNs   atomic.Int64
	lastRunNs  atomic.Int64

	// Start time for uptime calculation
	mu        sync.Mutex
	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	// Initialize min to max int64 so the first run will be smaller
	m.runMinNs.Store(1<<63 - 1)
	return m
}

// RecordRunStart counts an accepted Execute.
func (m *Metrics) RecordRunStart() {
	m.runsStarted.Add(1)
}

// RecordLine counts a relayed output line.
func (m *Metrics) RecordLine() {
	m.lines.Add(1)
}

// RecordDiagnostic counts a line recognized as a diagnostic.
func (m *Metrics) RecordDiagnostic() {
	m.diagnostics.Add(1)
}

// RecordRunEnd records a terminal result and the run's duration.
// Failed runs count toward RunsFailed but stay out of the duration
// aggregates, since no process ran.
func (m *Metrics) RecordRunEnd(state RunState, duration time.Duration) {
	switch state {
	case StateStopped:
		m.runsStopped.Add(1)
	case StateFailed:
		m.runsFailed.Add(1)
		return
	default:
		m.runsCompleted.Add(1)
	}

	ns := duration.Nanoseconds()
	m.runTotalNs.Add(ns)
	m.lastRunNs.Store(ns)

	// Update min (atomic compare-and-swap loop)
	for {
		old := m.runMinNs.Load()
		if ns >= old {
			break
		}
		if m.runMinNs.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.runMaxNs.Load()
		if ns <= old {
			break
		}
		if m.runMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Snapshot returns a point-in-time view of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	start := m.startTime
	m.mu.Unlock()

	timed := m.runsCompleted.Load() + m.runsStopped.Load()

	var avgRunNs int64
	if timed > 0 {
		avgRunNs = m.runTotalNs.Load() / int64(timed)
	}

	minRunNs := m.runMinNs.Load()
	if minRunNs == 1<<63-1 {
		minRunNs = 0
	}

	return MetricsSnapshot{
		Uptime:        time.Since(start),
		RunsStarted:   m.runsStarted.Load(),
		RunsCompleted: m.runsCompleted.Load(),
		RunsStopped:   m.runsStopped.Load(),
		RunsFailed:    m.runsFailed.Load(),
		Lines:         m.lines.Load(),
		Diagnostics:   m.diagnostics.Load(),
		AvgRunNs:      avgRunNs,
		MinRunNs:      minRunNs,
		MaxRunNs:      m.runMaxNs.Load(),
		LastRunNs:     m.lastRunNs.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.runsStarted.Store(0)
	m.runsCompleted.Store(0)
	m.runsStopped.Store(0)
	m.runsFailed.Store(0)
	m.lines.Store(0)
	m.diagnostics.Store(0)
	m.runTotalNs.Store(0)
	m.runMinNs.Store(1<<63 - 1)
	m.runMaxNs.Store(0)
	m.lastRunNs.Store(0)

	m.mu.Lock()
	m.startTime = time.Now()
	m.mu.Unlock()
}

// MetricsSnapshot is a point-in-time view of run metrics.
type MetricsSnapshot struct {
	Uptime        time.Duration
	RunsStarted   uint64
	RunsCompleted uint64
	RunsStopped   uint64
	RunsFailed    uint64
	Lines         uint64
	Diagnostics   uint64
	AvgRunNs      int64
	MinRunNs      int64
	MaxRunNs      int64
	LastRunNs     int64
}

// AvgRunTime returns the mean duration of runs that reached a process
// exit.
func (s MetricsSnapshot) AvgRunTime() time.Duration {
	return time.Duration(s.AvgRunNs)
}

// LastRunTime returns the duration of the most recent finished run.
func (s MetricsSnapshot) LastRunTime() time.Duration {
	return time.Duration(s.LastRunNs)
}

// StopRate returns the percentage of finished runs that were forcibly
// terminated.
func (s MetricsSnapshot) StopRate() float64 {
	total := s.RunsCompleted + s.RunsStopped
	if total == 0 {
		return 0
	}
	return float64(s.RunsStopped) / float64(total) * 100
}

// DiagnosticShare returns the percentage of relayed lines recognized
// as diagnostics.
func (s MetricsSnapshot) DiagnosticShare() float64 {
	if s.Lines == 0 {
		return 0
	}
	return float64(s.Diagnostics) / float64(s.Lines) * 100
}
