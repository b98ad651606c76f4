// Package store persists the filmlog catalog in SQLite.
//
// All tables live in one database file under the configured data
// directory. Compound writes (roll creation, development recording,
// roll deletion) run inside a single transaction; partial writes never
// survive a failure. Errors returned by the store carry one of the
// sentinel kinds declared in errors.go so callers can distinguish
// missing rows, constraint violations, and I/O failures.
package store
