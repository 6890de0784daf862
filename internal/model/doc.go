// Package model defines shared data types used across the pitcher-plinko service.
//
// All types mirror the database schema (pitchers, pitches, load_jobs).
//
// Conventions:
//   - Timestamps: int64 microseconds since Unix epoch
//   - Game dates: ISO "YYYY-MM-DD" strings as delivered by Statcast
//   - IDs: int64 MLBAM ids for people, uuid.UUID for load jobs
package model
