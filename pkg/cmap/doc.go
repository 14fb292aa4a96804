// Package cmap provides a concurrent-safe sharded map keyed by string.
//
// Keys are spread across shards with murmur3, so unrelated keys rarely
// contend for the same lock. The query cache stores its entries here,
// keyed by the canonical form of a query key.
package cmap
