// Package output renders command results and user-facing messages for
// hireflow-cli.
//
// Results go through a Formatter (table, json, yaml) on stdout. Messages
// go through the Notifier on stderr, colored when stderr is a terminal.
// The Spinner follows a hook's call state while a request is in flight.
package output
