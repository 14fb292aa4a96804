package output

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/hireflow-go/internal/client/callstate"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_StartStop(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Loading")
	s.interval = time.Millisecond

	s.Start()
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Loading") {
		t.Errorf("output = %q, want message", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Errorf("output should end with a line clear: %q", out)
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var buf syncBuffer
	NewSpinner(&buf, "x").Stop()
	if buf.String() != "" {
		t.Errorf("output = %q, want empty", buf.String())
	}
}

func TestSpinner_FollowsCallState(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Fetching jobs")

	var state callstate.State
	unsubscribe := state.Subscribe(s.Follow)
	defer unsubscribe()

	_, err := callstate.Run(t.Context(), &state, func(ctx context.Context) (int, error) {
		return 1, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "Fetching jobs") || !strings.HasSuffix(out, "\r\033[K") {
		t.Errorf("output = %q", out)
	}
}

func TestIsTerminal_Buffer(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}
