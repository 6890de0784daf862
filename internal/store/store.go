package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andrewchiang3/pitcher-plinko/internal/model"
)

// ErrNotFound is returned for lookups of unknown rows.
var ErrNotFound = errors.New("not found")

// Store provides read and upsert access to the plinko database.
type Store struct {
	db *pgxpool.Pool
}

// New creates a Store over an existing pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Ping verifies the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// UpsertPitchers inserts or refreshes directory rows. The registry calls
// this on every reconcile, so updates overwrite stale names and hands.
func (s *Store) UpsertPitchers(ctx context.Context, pitchers []model.Pitcher) error {
	if len(pitchers) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range pitchers {
		batch.Queue(`
			INSERT INTO pitchers (id, first_name, last_name, full_name,
				normalized_name, throws, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				full_name = EXCLUDED.full_name,
				normalized_name = EXCLUDED.normalized_name,
				throws = EXCLUDED.throws,
				updated_at = EXCLUDED.updated_at
		`, p.ID, p.FirstName, p.LastName, p.FullName,
			p.NormalizedName, p.Throws, p.UpdatedAt)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range pitchers {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert pitchers: %w", err)
		}
	}
	return nil
}

// AllPitchers returns the full directory ordered by (last, first).
func (s *Store) AllPitchers(ctx context.Context) ([]model.Pitcher, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, first_name, last_name, full_name, normalized_name, throws, updated_at
		FROM pitchers
		ORDER BY last_name, first_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query pitchers: %w", err)
	}
	defer rows.Close()

	return scanPitchers(rows)
}

// GetPitcher returns a single directory row.
func (s *Store) GetPitcher(ctx context.Context, id int64) (model.Pitcher, error) {
	var p model.Pitcher
	err := s.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, full_name, normalized_name, throws, updated_at
		FROM pitchers
		WHERE id = $1
	`, id).Scan(&p.ID, &p.FirstName, &p.LastName, &p.FullName,
		&p.NormalizedName, &p.Throws, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Pitcher{}, ErrNotFound
	}
	if err != nil {
		return model.Pitcher{}, fmt.Errorf("get pitcher %d: %w", id, err)
	}
	return p, nil
}

// SearchPitchers is the database fallback for directory search, used when
// the in-memory registry has not finished its initial sync.
func (s *Store) SearchPitchers(ctx context.Context, normalized string, limit int) ([]model.Pitcher, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, first_name, last_name, full_name, normalized_name, throws, updated_at
		FROM pitchers
		WHERE normalized_name LIKE '%' || $1 || '%'
		ORDER BY last_name, first_name
		LIMIT $2
	`, normalized, limit)
	if err != nil {
		return nil, fmt.Errorf("search pitchers: %w", err)
	}
	defer rows.Close()

	return scanPitchers(rows)
}

// PitchesForSeason returns a pitcher's pitches for one season, ordered the
// way the chart walk consumes them.
func (s *Store) PitchesForSeason(ctx context.Context, pitcherID int64, season int) ([]model.Pitch, error) {
	start, end := model.SeasonDates(season)

	rows, err := s.db.Query(ctx, `
		SELECT game_pk, at_bat_number, pitch_number, pitcher_id, game_date,
			balls, strikes, pitch_type, release_speed, description, events, received_at
		FROM pitches
		WHERE pitcher_id = $1 AND game_date >= $2 AND game_date <= $3
		ORDER BY game_date, game_pk, at_bat_number, pitch_number
	`, pitcherID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query pitches: %w", err)
	}
	defer rows.Close()

	var pitches []model.Pitch
	for rows.Next() {
		var p model.Pitch
		if err := rows.Scan(&p.GamePK, &p.AtBatNumber, &p.PitchNumber, &p.PitcherID,
			&p.GameDate, &p.Balls, &p.Strikes, &p.PitchType, &p.ReleaseSpeed,
			&p.Description, &p.Events, &p.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan pitch: %w", err)
		}
		pitches = append(pitches, p)
	}
	return pitches, rows.Err()
}

// SeasonsLoaded returns the seasons with at least one stored pitch for the
// pitcher, newest first.
func (s *Store) SeasonsLoaded(ctx context.Context, pitcherID int64) ([]int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT CAST(SUBSTRING(game_date FROM 1 FOR 4) AS INT) AS season
		FROM pitches
		WHERE pitcher_id = $1
		ORDER BY season DESC
	`, pitcherID)
	if err != nil {
		return nil, fmt.Errorf("query seasons: %w", err)
	}
	defer rows.Close()

	var seasons []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		seasons = append(seasons, y)
	}
	return seasons, rows.Err()
}

func scanPitchers(rows pgx.Rows) ([]model.Pitcher, error) {
	var pitchers []model.Pitcher
	for rows.Next() {
		var p model.Pitcher
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.FullName,
			&p.NormalizedName, &p.Throws, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pitcher: %w", err)
		}
		pitchers = append(pitchers, p)
	}
	return pitchers, rows.Err()
}
