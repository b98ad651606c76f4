// Package config loads, normalizes, and validates filmlog configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI needs: the data directory holding the SQLite database, export targets,
// logging options, stock-alert thresholds, and Dropbox backup credentials.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
