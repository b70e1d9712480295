// Package repositories implements SQLite persistence for the sign-in ledger.
//
// [UserRepository] records every Google account that completes the browser sign-in flow, with first and last
// sign-in times and a sign-in count. It never stores tokens.
//
// Sequence numbers provide stable, human-readable ordering (e.g., user #42) independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
