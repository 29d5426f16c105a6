// Package daemon wires the subtitle pipeline together and serves it over
// HTTP. It enforces single-instance execution with a file lock and owns the
// background maintenance loops.
package daemon
