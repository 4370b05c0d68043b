// Package run coordinates one script run end to end: scratch-file
// write, toolchain launch, output relay, and completion notification.
//
// A Coordinator mediates between a caller and the process supervisor.
// Execute returns immediately; a run goroutine performs every
// blocking step and reports through the caller's Sink. Events of one
// run are delivered strictly in emission order from that single
// goroutine: each merged output line as plain output or as a parsed
// diagnostic, then exactly one terminal Result.
//
// The coordinator is a two-state machine, idle or running. A second
// Execute while running is rejected with ErrRunActive; Stop forces
// termination of the active process and is a no-op when idle;
// Shutdown stops the active run, waits for its event stream to
// drain, and removes the scratch workspace.
//
// Run errors never reach the caller's goroutine. A failed scratch
// write or launch produces a terminal Result with StateFailed and no
// output events; the error rides in Result.Err.
package run
