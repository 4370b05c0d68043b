// Package workspace owns the private scratch directory that holds
// generated script files for one runner session. The directory is
// created once, reused by every run, and removed as a whole at
// shutdown; removal is best-effort.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Logger is the subset of the application logger used here.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Workspace is one session's scratch directory.
type Workspace struct {
	dir string
	log Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*Workspace)

// WithLogger sets the logger used for cleanup reporting.
func WithLogger(l Logger) WorkspaceOption {
	return func(w *Workspace) {
		if l != nil {
			w.log = l
		}
	}
}

// New creates the session scratch directory.
func New(opts ...WorkspaceOption) (*Workspace, error) {
	dir, err := os.MkdirTemp("", "runpad-")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}

	w := &Workspace{
		dir: dir,
		log: nopLogger{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the scratch directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// ScriptPath returns the path the script file for ext lives at. The
// name is deterministic per extension: with at most one execution in
// flight, runs of the same language share one file.
func (w *Workspace) ScriptPath(ext string) string {
	return filepath.Join(w.dir, "script."+ext)
}

// WriteScript writes source to the script file for ext, truncating
// any previous contents, and returns the absolute path. The file is
// left in place for the lifetime of the workspace so the toolchain
// process and anything it spawns can keep reading it.
func (w *Workspace) WriteScript(ext, source string) (string, error) {
	path := w.ScriptPath(ext)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return "", fmt.Errorf("writing script file: %w", err)
	}
	return path, nil
}

// Remove deletes the scratch directory recursively. Errors are
// swallowed: a leftover temp directory is not a correctness failure.
func (w *Workspace) Remove() {
	if err := os.RemoveAll(w.dir); err != nil {
		w.log.Debug("scratch cleanup failed: %v", err)
	}
}
