// Package database provides the PostgreSQL connection pool and schema
// management for the pitcher-plinko service.
//
// One database holds everything:
//   - pitchers: the player directory (relational)
//   - pitches: pitch-by-pitch Statcast events (append-mostly)
//   - load_jobs: ingest bookkeeping
package database
