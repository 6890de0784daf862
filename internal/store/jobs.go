package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/andrewchiang3/pitcher-plinko/internal/model"
)

// CreateJob inserts a new load job row.
func (s *Store) CreateJob(ctx context.Context, job model.LoadJob) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO load_jobs (id, pitcher_id, season, status, error,
			pitch_count, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, job.ID, job.PitcherID, job.Season, job.Status, job.Error,
		job.PitchCount, job.StartedAt, job.FinishedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// UpdateJob overwrites a job's mutable fields.
func (s *Store) UpdateJob(ctx context.Context, job model.LoadJob) error {
	ct, err := s.db.Exec(ctx, `
		UPDATE load_jobs
		SET status = $2, error = $3, pitch_count = $4, finished_at = $5
		WHERE id = $1
	`, job.ID, job.Status, job.Error, job.PitchCount, job.FinishedAt)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetJob returns a load job by id.
func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (model.LoadJob, error) {
	var job model.LoadJob
	err := s.db.QueryRow(ctx, `
		SELECT id, pitcher_id, season, status, error, pitch_count, started_at, finished_at
		FROM load_jobs
		WHERE id = $1
	`, id).Scan(&job.ID, &job.PitcherID, &job.Season, &job.Status, &job.Error,
		&job.PitchCount, &job.StartedAt, &job.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LoadJob{}, ErrNotFound
	}
	if err != nil {
		return model.LoadJob{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

// JobsForPitcher returns a pitcher's load history, newest first.
func (s *Store) JobsForPitcher(ctx context.Context, pitcherID int64) ([]model.LoadJob, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, pitcher_id, season, status, error, pitch_count, started_at, finished_at
		FROM load_jobs
		WHERE pitcher_id = $1
		ORDER BY started_at DESC
	`, pitcherID)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.LoadJob
	for rows.Next() {
		var job model.LoadJob
		if err := rows.Scan(&job.ID, &job.PitcherID, &job.Season, &job.Status,
			&job.Error, &job.PitchCount, &job.StartedAt, &job.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
