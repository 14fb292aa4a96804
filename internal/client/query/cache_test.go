package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingRecorder struct {
	hits, misses, invalidated atomic.Int64
}

func (r *countingRecorder) CacheHit()              { r.hits.Add(1) }
func (r *countingRecorder) CacheMiss()             { r.misses.Add(1) }
func (r *countingRecorder) CacheInvalidated(n int) { r.invalidated.Add(int64(n)) }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func counter(calls *atomic.Int64, values ...string) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) {
		calls.Add(1)
		return values, nil
	}
}

func TestFetch_CachesFreshEntries(t *testing.T) {
	rec := &countingRecorder{}
	c := New(WithRecorder(rec))
	ctx := context.Background()

	var calls atomic.Int64
	for i := 0; i < 3; i++ {
		got, err := Fetch(ctx, c, Key{"my-skills"}, counter(&calls, "go", "sql"))
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if len(got) != 2 || got[0] != "go" {
			t.Errorf("Fetch() = %v", got)
		}
	}

	if calls.Load() != 1 {
		t.Errorf("fetcher called %d times, want 1", calls.Load())
	}
	if rec.misses.Load() != 1 || rec.hits.Load() != 2 {
		t.Errorf("misses=%d hits=%d, want 1 and 2", rec.misses.Load(), rec.hits.Load())
	}
}

func TestFetch_RefetchesAfterStaleTime(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := New(WithStaleTime(time.Minute), WithClock(clock.Now))
	ctx := context.Background()

	var calls atomic.Int64
	fetch := counter(&calls, "x")

	if _, err := Fetch(ctx, c, Key{"me"}, fetch); err != nil {
		t.Fatal(err)
	}
	clock.Advance(30 * time.Second)
	if _, err := Fetch(ctx, c, Key{"me"}, fetch); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d before stale time, want 1", calls.Load())
	}

	clock.Advance(31 * time.Second)
	if !c.IsStale(Key{"me"}) {
		t.Error("IsStale() = false after stale time")
	}
	if _, err := Fetch(ctx, c, Key{"me"}, fetch); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d after stale time, want 2", calls.Load())
	}
}

func TestFetch_FailureKeepsPreviousEntry(t *testing.T) {
	c := New()
	ctx := context.Background()
	key := Key{"my-profile"}

	c.SetData(key, "cached")
	c.Invalidate(key)

	wantErr := errors.New("boom")
	_, err := Fetch(ctx, c, key, func(context.Context) (string, error) {
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Fetch() error = %v, want %v", err, wantErr)
	}

	v, ok := c.Get(key)
	if !ok || v != "cached" {
		t.Errorf("Get() = %v, %v; want previous entry", v, ok)
	}
	if !c.IsStale(key) {
		t.Error("entry should stay stale after a failed refetch")
	}
}

func TestFetch_DeduplicatesConcurrentCalls(t *testing.T) {
	c := New()
	ctx := context.Background()

	var calls atomic.Int64
	release := make(chan struct{})
	fetch := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 7, nil
	}

	const n = 10
	var wg sync.WaitGroup
	var started sync.WaitGroup
	results := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		started.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			v, err := Fetch(ctx, c, Key{"jobs", "go", "", 1, 20}, fetch)
			if err != nil {
				t.Errorf("Fetch() error = %v", err)
			}
			results[i] = v
		}(i)
	}
	started.Wait()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() < 1 || calls.Load() >= n {
		t.Errorf("fetcher called %d times, want deduplicated calls", calls.Load())
	}
	for i, v := range results {
		if v != 7 {
			t.Errorf("results[%d] = %d, want 7", i, v)
		}
	}
}

func TestInvalidate_PrefixMatching(t *testing.T) {
	rec := &countingRecorder{}
	c := New(WithRecorder(rec))

	c.SetData(Key{"skill", "1"}, "a")
	c.SetData(Key{"skill", "2"}, "b")
	c.SetData(Key{"skills"}, "c")
	c.SetData(Key{"my-skills"}, "d")

	n := c.Invalidate(Key{"skill"})
	if n != 2 {
		t.Errorf("Invalidate() = %d, want 2", n)
	}
	if !c.IsStale(Key{"skill", "1"}) || !c.IsStale(Key{"skill", "2"}) {
		t.Error("nested skill keys should be stale")
	}
	if c.IsStale(Key{"skills"}) || c.IsStale(Key{"my-skills"}) {
		t.Error("unrelated keys should stay fresh")
	}
	if rec.invalidated.Load() != 2 {
		t.Errorf("recorded invalidations = %d, want 2", rec.invalidated.Load())
	}

	if got := c.Invalidate(); got != 0 {
		t.Errorf("Invalidate() with no keys = %d, want 0", got)
	}
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	c.SetData(Key{"me"}, 1)
	c.SetData(Key{"my-profile"}, 2)

	c.Remove(Key{"me"})
	if _, ok := c.Get(Key{"me"}); ok {
		t.Error("Get() after Remove found entry")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestMutate_InvalidationCausesRefetch(t *testing.T) {
	c := New()
	ctx := context.Background()

	var reads atomic.Int64
	read := func(context.Context) ([]string, error) {
		reads.Add(1)
		if reads.Load() == 1 {
			return []string{"go"}, nil
		}
		return []string{"go", "rust"}, nil
	}

	first, err := Fetch(ctx, c, Key{"my-skills"}, read)
	if err != nil {
		t.Fatal(err)
	}

	addSkill := Mutation[string, string]{
		Name: "add-skill",
		Do: func(_ context.Context, name string) (string, error) {
			return name, nil
		},
		Invalidates: func(string, string) []Key {
			return []Key{{"my-skills"}, {"profile-completion"}}
		},
	}
	if _, err := Mutate(ctx, c, addSkill, "rust"); err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}

	second, err := Fetch(ctx, c, Key{"my-skills"}, read)
	if err != nil {
		t.Fatal(err)
	}

	if reads.Load() != 2 {
		t.Errorf("reads = %d, want 2", reads.Load())
	}
	if len(first) != 1 || len(second) != 2 {
		t.Errorf("first = %v, second = %v", first, second)
	}
}

func TestMutate_FailureInvalidatesNothing(t *testing.T) {
	c := New()
	ctx := context.Background()
	c.SetData(Key{"my-skills"}, []string{"go"})

	wantErr := errors.New("rejected")
	m := Mutation[int, struct{}]{
		Name: "delete-skill",
		Do: func(context.Context, int) (struct{}, error) {
			return struct{}{}, wantErr
		},
		Invalidates: func(int, struct{}) []Key {
			return []Key{{"my-skills"}}
		},
	}

	if _, err := Mutate(ctx, c, m, 1); !errors.Is(err, wantErr) {
		t.Fatalf("Mutate() error = %v, want %v", err, wantErr)
	}
	if c.IsStale(Key{"my-skills"}) {
		t.Error("failed mutation should not invalidate")
	}
}

func TestMutate_InvalidatesFetchInFlight(t *testing.T) {
	c := New()
	ctx := context.Background()
	key := Key{"my-skills"}

	var version atomic.Int64
	version.Store(1)
	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	read := func(context.Context) (int64, error) {
		v := version.Load()
		if calls.Add(1) == 1 {
			close(started)
			<-release
		}
		return v, nil
	}

	type result struct {
		v   int64
		err error
	}
	first := make(chan result, 1)
	go func() {
		v, err := Fetch(ctx, c, key, read)
		first <- result{v, err}
	}()
	<-started

	addSkill := Mutation[string, struct{}]{
		Name: "add-skill",
		Do: func(context.Context, string) (struct{}, error) {
			version.Store(2)
			return struct{}{}, nil
		},
		Invalidates: func(string, struct{}) []Key { return []Key{key} },
	}
	if _, err := Mutate(ctx, c, addSkill, "rust"); err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}

	got, err := Fetch(ctx, c, key, read)
	if err != nil {
		t.Fatalf("Fetch() after mutation error = %v", err)
	}
	if got != 2 {
		t.Errorf("Fetch() after mutation = %d, want 2", got)
	}

	close(release)
	if r := <-first; r.err != nil || r.v != 1 {
		t.Errorf("first Fetch() = %d, %v; want 1, nil", r.v, r.err)
	}

	got, err = Fetch(ctx, c, key, read)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("cached value = %d, want 2", got)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestClear_DiscardsFetchInFlight(t *testing.T) {
	c := New()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		Fetch(ctx, c, Key{"me"}, func(context.Context) (string, error) {
			close(started)
			<-release
			return "ada", nil
		})
	}()
	<-started

	c.Clear()
	close(release)
	<-done

	if _, ok := c.Get(Key{"me"}); ok {
		t.Error("result of a fetch started before Clear was cached")
	}
}

func TestSetData_WinsOverFetchInFlight(t *testing.T) {
	c := New()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		Fetch(ctx, c, Key{"me"}, func(context.Context) (string, error) {
			close(started)
			<-release
			return "old", nil
		})
	}()
	<-started

	c.SetData(Key{"me"}, "new")
	close(release)
	<-done

	if v, _ := c.Get(Key{"me"}); v != "new" {
		t.Errorf("Get() = %v, want new", v)
	}
}

func TestFetch_CallerCancelDoesNotFailJoinedCallers(t *testing.T) {
	c := New()
	key := Key{"jobs", "go", "", 1, 20}

	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return 7, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	cancelCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := Fetch(cancelCtx, c, key, fetch)
		firstErr <- err
	}()
	<-started

	type result struct {
		v   int
		err error
	}
	second := make(chan result, 1)
	go func() {
		v, err := Fetch(context.Background(), c, key, fetch)
		second <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("canceled caller error = %v, want context.Canceled", err)
	}

	close(release)
	r := <-second
	if r.err != nil || r.v != 7 {
		t.Errorf("joined caller = %d, %v; want 7, nil", r.v, r.err)
	}
	if v, ok := c.Get(key); !ok || v != 7 {
		t.Errorf("Get() = %v, %v; want 7", v, ok)
	}
}
