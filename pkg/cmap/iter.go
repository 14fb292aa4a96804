package cmap

// Range iterates over all key-value pairs.
//
// The callback returns false to stop iteration. Locks are taken shard by
// shard, so the view is not a consistent snapshot. fn must not write to m.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Keys returns all keys.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.Count())
	m.Range(func(key string, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Update atomically replaces the value for key with fn's result.
func (m *Map[V]) Update(key string, fn func(value V, exists bool) V) V {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.items[key]
	newValue := fn(existing, exists)
	s.items[key] = newValue
	return newValue
}

// UpdateIf applies fn to every entry whose key satisfies match.
// fn returns the new value and whether to keep the entry.
// Returns the number of entries visited.
func (m *Map[V]) UpdateIf(match func(key string) bool, fn func(key string, value V) (V, bool)) int {
	n := 0
	for _, s := range m.shards {
		s.mu.Lock()
		for k, v := range s.items {
			if !match(k) {
				continue
			}
			n++
			if nv, keep := fn(k, v); keep {
				s.items[k] = nv
			} else {
				delete(s.items, k)
			}
		}
		s.mu.Unlock()
	}
	return n
}

// Pop removes a key and returns its value.
func (m *Map[V]) Pop(key string) (V, bool) {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.items[key]
	if ok {
		delete(s.items, key)
	}
	return val, ok
}
