package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/yndnr/hireflow-go/internal/client/notify"
)

// Notifier prints notifications, one per line.
type Notifier struct {
	w      io.Writer
	mu     sync.Mutex
	styles map[notify.Kind]style
}

type style struct {
	symbol string
	color  *color.Color
}

// NewNotifier creates a Notifier writing to w. Colors are used only when
// colored is true.
func NewNotifier(w io.Writer, colored bool) *Notifier {
	n := &Notifier{
		w: w,
		styles: map[notify.Kind]style{
			notify.Success: {"✓", color.New(color.FgGreen)},
			notify.Error:   {"✗", color.New(color.FgRed, color.Bold)},
			notify.Info:    {"i", color.New(color.FgCyan)},
			notify.Loading: {"…", color.New(color.FgYellow)},
		},
	}
	for _, s := range n.styles {
		if colored {
			s.color.EnableColor()
		} else {
			s.color.DisableColor()
		}
	}
	return n
}

// Notify implements notify.Notifier.
func (n *Notifier) Notify(kind notify.Kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	s, ok := n.styles[kind]
	if !ok {
		fmt.Fprintln(n.w, message)
		return
	}
	s.color.Fprintf(n.w, "%s %s\n", s.symbol, message)
}
