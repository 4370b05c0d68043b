package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
}

func newTestWatcher(t *testing.T, opts ...Option) (*Watcher, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "script.swift")
	writeSource(t, path, "print(1)\n")

	w, err := New(path, opts...)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w, path
}

func expectChange(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Changes():
	case err := <-w.Errors():
		t.Fatalf("watcher error = %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

func expectQuiet(t *testing.T, w *Watcher, d time.Duration) {
	t.Helper()
	select {
	case ts := <-w.Changes():
		t.Fatalf("unexpected change notification at %v", ts)
	case <-time.After(d):
	}
}

func TestWatcherNotifiesOnWrite(t *testing.T) {
	w, path := newTestWatcher(t, WithDebounce(50*time.Millisecond))

	writeSource(t, path, "print(2)\n")
	expectChange(t, w)
}

func TestWatcherCoalescesBursts(t *testing.T) {
	w, path := newTestWatcher(t, WithDebounce(200*time.Millisecond))

	for i := 0; i < 5; i++ {
		writeSource(t, path, "print(3)\n")
		time.Sleep(5 * time.Millisecond)
	}

	expectChange(t, w)
	expectQuiet(t, w, 500*time.Millisecond)
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	w, path := newTestWatcher(t, WithDebounce(50*time.Millisecond))

	writeSource(t, filepath.Join(filepath.Dir(path), "other.swift"), "x\n")
	expectQuiet(t, w, 300*time.Millisecond)
}

func TestWatcherSurvivesReplace(t *testing.T) {
	w, path := newTestWatcher(t, WithDebounce(50*time.Millisecond))

	// Save the way editors do: write a temp file, rename over the
	// original.
	tmp := path + ".tmp"
	writeSource(t, tmp, "print(4)\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("Rename error = %v", err)
	}

	expectChange(t, w)
}

func TestWatcherPath(t *testing.T) {
	w, path := newTestWatcher(t)

	if w.Path() != path {
		t.Errorf("Path() = %q, want %q", w.Path(), path)
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	w, _ := newTestWatcher(t)

	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close error = %v", err)
	}
}

func TestNewMissingFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "absent.swift")); err == nil {
		t.Fatal("New should fail for a missing file")
	}
}
