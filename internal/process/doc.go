// Package process supervises the single external toolchain process of
// a runner session.
//
// The Supervisor owns at most one live child at a time. Launching
// merges the child's stderr into its stdout through one OS pipe, so
// diagnostics and normal output arrive as a single order-preserving
// line stream.
//
// # Lifecycle
//
//	sup := process.NewSupervisor()
//	h, err := sup.Launch([]string{"/usr/bin/env", "swift", "/tmp/script.swift"})
//	if err != nil {
//	    // *LaunchError: executable missing or unstartable
//	}
//	for line := range h.Lines() {
//	    fmt.Println(line.Text)
//	}
//	code := sup.AwaitExit(h)
//
// A dedicated reader goroutine drains the pipe into a bounded line
// channel so a slow consumer cannot stall the child, and a waiter
// goroutine collects the exit status and frees the supervisor slot.
// Terminate is forced (SIGKILL to the process group), idempotent, and
// never races the waiter over the current-process slot: only the
// waiter clears it, exactly once.
//
// # Thread Safety
//
// Supervisor and Handle are safe for concurrent use.
package process
