package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key identifies a cached read. Parts are JSON-encodable values such as
// strings and numbers.
type Key []any

// String returns the canonical form, the JSON encoding of the parts.
func (k Key) String() string {
	b, err := json.Marshal([]any(k))
	if err != nil {
		return fmt.Sprintf("%v", []any(k))
	}
	return string(b)
}

// prefix is the canonical form without the closing bracket, so that
// strings.HasPrefix on canonical keys matches whole leading parts.
func (k Key) prefix() string {
	s := k.String()
	return strings.TrimSuffix(s, "]")
}

// Matches reports whether other starts with every part of k.
func (k Key) Matches(other Key) bool {
	return matchCanonical(k.prefix(), other.String())
}

func matchCanonical(prefix, canonical string) bool {
	if !strings.HasPrefix(canonical, prefix) {
		return false
	}
	rest := canonical[len(prefix):]
	// Either the same key, or the next part starts after a comma.
	// An empty key ("[") matches everything.
	return rest == "]" || strings.HasPrefix(rest, ",") || prefix == "["
}
