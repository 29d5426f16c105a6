// Package config loads, normalizes, and validates subvault configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENSUBTITLES_API_KEY. The Config type centralizes every knob the daemon
// and CLI need: store location, provider credentials, admission-control
// thresholds, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
