// Package hooks is the layer front ends call.
//
// Each hook owns one callstate.State shared by all of its calls. Reads go
// through the query cache; writes run as mutations and report success
// through the notifier. Errors are returned to the caller and recorded in
// the state, never notified here.
package hooks
