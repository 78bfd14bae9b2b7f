// Package ranking reconciles SERP provider results against the domains a
// project tracks. It turns one task response into the rank records that are
// appended to the fact table, and derives week-over-week movement from two
// persisted snapshots.
//
// Everything in this package is pure: no I/O, no shared state. Callers own
// loading the project context and persisting the output.
package ranking
