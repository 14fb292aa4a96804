package notify

import "sync"

// Kind is the kind of notification.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Loading Kind = "loading"
	Info    Kind = "info"
)

// Notifier shows a message to the user.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Func adapts a function to Notifier.
type Func func(kind Kind, message string)

// Notify implements Notifier.
func (f Func) Notify(kind Kind, message string) { f(kind, message) }

// Discard drops every notification.
var Discard Notifier = Func(func(Kind, string) {})

// Message is one recorded notification.
type Message struct {
	Kind Kind
	Text string
}

// Recorder keeps notifications in memory. Safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Notify implements Notifier.
func (r *Recorder) Notify(kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Kind: kind, Text: message})
}

// Messages returns a copy of the recorded notifications.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
