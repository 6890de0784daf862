// Package store persists pitchers, pitches, and load jobs to PostgreSQL.
//
// Pitch writes flow through PitchWriter, a batching consumer of the ingest
// pipeline buffer. Reads are plain pool queries; chart aggregation happens
// in package plinko over rows fetched here.
package store
