package model

import "github.com/google/uuid"

// -----------------------------------------------------------------------------
// Relational Types
// -----------------------------------------------------------------------------

// Pitcher represents an MLB pitcher from the player directory.
type Pitcher struct {
	ID             int64  // Primary key (MLBAM id, e.g. 477132)
	FirstName      string // Given name (e.g. "Clayton")
	LastName       string // Family name (e.g. "Kershaw")
	FullName       string // Display name ("Clayton Kershaw")
	NormalizedName string // Accent-free, lower-case full name for search
	Throws         string // "R", "L", or "S"
	UpdatedAt      int64  // Last directory sync (µs since epoch)
}

// -----------------------------------------------------------------------------
// Pitch-Level Types
// -----------------------------------------------------------------------------

// Pitch represents a single pitch event from Statcast.
//
// (GamePK, AtBatNumber, PitchNumber) is the natural key: it identifies a
// pitch uniquely within a season and makes season reloads idempotent.
type Pitch struct {
	PitcherID    int64   // MLBAM id of the pitcher
	GamePK       int64   // MLB game id
	AtBatNumber  int     // At-bat index within the game
	PitchNumber  int     // Pitch index within the at-bat
	GameDate     string  // Game date ("YYYY-MM-DD")
	Balls        int     // Ball count before the pitch (0-3)
	Strikes      int     // Strike count before the pitch (0-2)
	PitchType    string  // Statcast pitch type code ("FF", "SL", ...), may be empty
	ReleaseSpeed float64 // Release speed in mph, 0 if missing
	Description  string  // Pitch outcome ("called_strike", "foul", ...)
	Events       string  // At-bat outcome on the final pitch ("strikeout", ...)
	ReceivedAt   int64   // Loader receive timestamp (µs since epoch)
}

// Count returns the ball-strike count this pitch was thrown in.
func (p Pitch) Count() Count {
	return Count{Balls: p.Balls, Strikes: p.Strikes}
}

// -----------------------------------------------------------------------------
// Load Jobs
// -----------------------------------------------------------------------------

// Job status values.
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// LoadJob tracks one pitcher/season ingest run.
type LoadJob struct {
	ID         uuid.UUID // Primary key
	PitcherID  int64     // Pitcher being loaded
	Season     int       // Season year
	Status     string    // pending, running, completed, failed
	Error      string    // Failure message (empty unless failed)
	PitchCount int       // Pitches fetched so far
	StartedAt  int64     // Job start (µs since epoch)
	FinishedAt int64     // Job end (µs since epoch), 0 while running
}
