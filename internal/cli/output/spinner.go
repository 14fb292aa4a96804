package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/yndnr/hireflow-go/internal/client/callstate"
)

// Spinner displays a progress animation. Start and Stop may be called
// any number of times.
type Spinner struct {
	w        io.Writer
	message  string
	frames   []string
	interval time.Duration

	mu   sync.Mutex
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner creates a spinner.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:        w,
		message:  message,
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		interval: 100 * time.Millisecond,
	}
}

// IsTerminal reports whether w is a terminal. Spinners and colors are
// only used on terminals.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start starts the animation if it is not running.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}

	done := make(chan struct{})
	s.done = done
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			select {
			case <-done:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	done := s.done
	s.done = nil
	s.mu.Unlock()

	if done == nil {
		return
	}
	close(done)
	s.wg.Wait()
	fmt.Fprint(s.w, "\r\033[K")
}

// Follow runs the spinner while st is loading. Pass it to a hook's
// Subscribe.
func (s *Spinner) Follow(st callstate.CallState) {
	if st.Loading {
		s.Start()
		return
	}
	s.Stop()
}
