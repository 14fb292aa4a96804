// Package query caches the results of read calls and invalidates them
// after writes.
//
// Reads go through Fetch with a Key. A fresh entry is served from memory;
// a stale or missing one is fetched, with concurrent fetches of the same
// key collapsed into one. Writes go through Mutate, which marks every key
// the Mutation declares as stale once the write succeeds. Invalidation
// matches by prefix: Key{"skill"} covers Key{"skill", "42"}.
package query
