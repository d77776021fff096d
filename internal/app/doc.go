// Package app wires a description loader, the compiler and the output writer
// into one run, decoupled from the CLI. It owns the root logger: Run places it
// in the context so every pass logs through ctxlog, and passes that work on a
// single application narrow it with ctxlog.With.
package app
