// Package tone provides the shared data model for dual-tone tracking.
//
// A tracking run consumes an ordered sequence of complex baseband samples
// and maintains frequency, phase and amplitude estimates for two
// closely-spaced tones. This package holds the pieces common to all
// trackers: phase wrapping into (-pi, pi], the per-run append-only
// History, the Estimate snapshot used to warm-start a tracker from
// another tracker's final state, and the tail-mean summarising convention
// that turns a completed History into a Result.
//
// A History is owned exclusively by the run that produced it and is
// read-only once the run completes. Independent runs share no state and
// may execute concurrently without coordination.
package tone
