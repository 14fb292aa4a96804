package hooks

import (
	"context"

	"github.com/yndnr/hireflow-go/internal/client/callstate"
	"github.com/yndnr/hireflow-go/internal/client/notify"
	"github.com/yndnr/hireflow-go/internal/client/query"
)

// base carries what every hook shares.
type base struct {
	state    callstate.State
	cache    *query.Cache
	notifier notify.Notifier
}

func newBase(cache *query.Cache, n notify.Notifier) base {
	if n == nil {
		n = notify.Discard
	}
	return base{cache: cache, notifier: n}
}

// State returns the current call status.
func (b *base) State() callstate.CallState {
	return b.state.Snapshot()
}

// Subscribe registers fn for every status change.
func (b *base) Subscribe(fn func(callstate.CallState)) (unsubscribe func()) {
	return b.state.Subscribe(fn)
}

func read[T any](ctx context.Context, b *base, key query.Key, fn func(context.Context) (T, error)) (T, error) {
	return callstate.Run(ctx, &b.state, func(ctx context.Context) (T, error) {
		return query.Fetch(ctx, b.cache, key, fn)
	})
}

func write[In, Out any](ctx context.Context, b *base, m query.Mutation[In, Out], in In, success string) (Out, error) {
	out, err := callstate.Run(ctx, &b.state, func(ctx context.Context) (Out, error) {
		return query.Mutate(ctx, b.cache, m, in)
	})
	if err == nil && success != "" {
		b.notifier.Notify(notify.Success, success)
	}
	return out, err
}
