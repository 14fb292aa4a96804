// Package repl is the interactive shell loop of hireflow-cli.
//
// Each line is split into arguments and handed to an Executor, which
// runs it as a regular command. Lines ending in "?" list completions.
// History persists across sessions in a file.
package repl
