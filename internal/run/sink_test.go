package run

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChannelSinkDeliversInOrder(t *testing.T) {
	c := newTestCoordinator(t)
	sink := NewChannelSink(8)

	runID, err := c.Execute("echo one\necho two\n", "shell", sink)
	require.NoError(t, err)

	var events []Event
	deadline := time.After(10 * time.Second)
	for done := false; !done; {
		select {
		case ev := <-sink.Events():
			events = append(events, ev)
			done = ev.Kind == EventCompleted
		case <-deadline:
			t.Fatal("run did not complete in time")
		}
	}

	require.Len(t, events, 3)
	require.Equal(t, "one", events[0].Line.Text)
	require.Equal(t, "two", events[1].Line.Text)
	require.Equal(t, runID, events[2].Result.RunID)
	require.True(t, events[2].Result.Ok())
}

func TestNewChannelSinkClampsBuffer(t *testing.T) {
	require.Equal(t, 0, cap(NewChannelSink(-1).ch))
	require.Equal(t, 16, cap(NewChannelSink(16).ch))
}

func TestResultOk(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		want bool
	}{
		{"clean exit", Result{State: StateCompleted, ExitCode: 0}, true},
		{"non-zero exit", Result{State: StateCompleted, ExitCode: 3}, false},
		{"stopped", Result{State: StateStopped, ExitCode: -1}, false},
		{"failed", Result{State: StateFailed, ExitCode: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.res.Ok())
		})
	}
}

func TestEventKindString(t *testing.T) {
	require.Equal(t, "output", EventOutput.String())
	require.Equal(t, "diagnostic", EventDiagnostic.String())
	require.Equal(t, "completed", EventCompleted.String())
	require.Equal(t, "unknown(9)", EventKind(9).String())
}
