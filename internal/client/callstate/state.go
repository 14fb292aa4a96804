package callstate

import (
	"context"
	"sync"

	"github.com/yndnr/hireflow-go/internal/client/apierror"
)

// CallState is a snapshot of a State.
type CallState struct {
	Loading bool
	Error   *string
}

// ErrorMessage returns the error text, or "" when there is none.
func (c CallState) ErrorMessage() string {
	if c.Error == nil {
		return ""
	}
	return *c.Error
}

// State is the mutable call status owned by one hook.
type State struct {
	mu      sync.Mutex
	loading bool
	err     *string
	nextID  int
	subs    map[int]func(CallState)
}

// Snapshot returns the current status.
func (s *State) Snapshot() CallState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive every status change.
// The returned function removes the subscription.
func (s *State) Subscribe(fn func(CallState)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]func(CallState))
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Reset clears loading and error.
func (s *State) Reset() {
	s.set(false, nil)
}

func (s *State) set(loading bool, err *string) {
	s.mu.Lock()
	s.loading = loading
	s.err = err
	snap := s.snapshotLocked()
	subs := make([]func(CallState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *State) snapshotLocked() CallState {
	snap := CallState{Loading: s.loading}
	if s.err != nil {
		msg := *s.err
		snap.Error = &msg
	}
	return snap
}

// Run executes call while tracking it in s.
//
// On success the result is returned and Error stays nil. On failure Error
// is set to apierror.Message(err) and err is returned unchanged. Loading
// is false once Run returns, even when call panics; the panic is not
// recovered.
func Run[T any](ctx context.Context, s *State, call func(context.Context) (T, error)) (T, error) {
	s.set(true, nil)

	settled := false
	defer func() {
		if !settled {
			msg := apierror.FallbackMessage
			s.set(false, &msg)
		}
	}()

	result, err := call(ctx)
	settled = true
	if err != nil {
		msg := apierror.Message(err)
		s.set(false, &msg)
		var zero T
		return zero, err
	}

	s.set(false, nil)
	return result, nil
}
