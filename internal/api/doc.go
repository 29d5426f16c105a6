// Package api defines the JSON payloads served by the daemon's HTTP API and
// a client for them. The daemon and the CLI share these types so the wire
// format has a single definition.
package api
