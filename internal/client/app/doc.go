// Package app wires the client layer together for one process.
//
// New builds, in order: logger, session medium, token store, metrics,
// tracer, session guard, client factory, the three service clients, the
// query cache, the services and the hooks. Close releases them in reverse.
package app
