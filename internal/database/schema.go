package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS pitchers (
		id              BIGINT PRIMARY KEY,
		first_name      TEXT NOT NULL,
		last_name       TEXT NOT NULL,
		full_name       TEXT NOT NULL,
		normalized_name TEXT NOT NULL,
		throws          TEXT NOT NULL DEFAULT '',
		updated_at      BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pitchers_normalized_name
		ON pitchers (normalized_name)`,

	`CREATE TABLE IF NOT EXISTS pitches (
		game_pk        BIGINT NOT NULL,
		at_bat_number  INT NOT NULL,
		pitch_number   INT NOT NULL,
		pitcher_id     BIGINT NOT NULL,
		game_date      TEXT NOT NULL,
		balls          INT NOT NULL,
		strikes        INT NOT NULL,
		pitch_type     TEXT NOT NULL DEFAULT '',
		release_speed  DOUBLE PRECISION NOT NULL DEFAULT 0,
		description    TEXT NOT NULL DEFAULT '',
		events         TEXT NOT NULL DEFAULT '',
		received_at    BIGINT NOT NULL,
		PRIMARY KEY (game_pk, at_bat_number, pitch_number)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pitches_pitcher_date
		ON pitches (pitcher_id, game_date)`,

	`CREATE TABLE IF NOT EXISTS load_jobs (
		id          UUID PRIMARY KEY,
		pitcher_id  BIGINT NOT NULL,
		season      INT NOT NULL,
		status      TEXT NOT NULL,
		error       TEXT NOT NULL DEFAULT '',
		pitch_count INT NOT NULL DEFAULT 0,
		started_at  BIGINT NOT NULL,
		finished_at BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_load_jobs_pitcher
		ON load_jobs (pitcher_id, season)`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
