// Package storage provides the key-value media that back client-side state.
//
// Two implementations of KV are provided:
//
//   - BadgerKV: durable, survives process restarts (the default for the CLI)
//   - MemoryKV: process-local, used by tests and by --ephemeral sessions
//
// The session token store (internal/client/tokenstore) is the only consumer
// of this package; it treats every storage failure as "value absent".
package storage
