// Package lifecycle drives a roll's status through the forward sequence
// fresh → loaded → shooting → finished → developing → developed.
//
// The engine owns all status writes. Each operation validates the
// current status, stamps the dates that belong to the transition, and
// delegates the multi-table write to a single store transaction. It
// performs no I/O of its own beyond the store and holds no state
// between calls.
package lifecycle
