package query

import "context"

// Mutation describes a write and the reads it makes stale.
type Mutation[In, Out any] struct {
	// Name identifies the mutation in logs.
	Name string
	// Do performs the write.
	Do func(ctx context.Context, in In) (Out, error)
	// Invalidates returns the keys to mark stale after a successful write.
	Invalidates func(in In, out Out) []Key
}

// Mutate runs m. Declared keys are invalidated only when Do succeeds.
func Mutate[In, Out any](ctx context.Context, c *Cache, m Mutation[In, Out], in In) (Out, error) {
	out, err := m.Do(ctx, in)
	if err != nil {
		return out, err
	}

	if m.Invalidates != nil {
		keys := m.Invalidates(in, out)
		n := c.Invalidate(keys...)
		c.logger.Debug("mutation applied", "mutation", m.Name, "invalidated", n)
	}
	return out, nil
}
