package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/andrewchiang3/pitcher-plinko/internal/api"
	"github.com/andrewchiang3/pitcher-plinko/internal/model"
)

// JobStore persists load job lifecycle transitions.
type JobStore interface {
	CreateJob(ctx context.Context, job model.LoadJob) error
	UpdateJob(ctx context.Context, job model.LoadJob) error
}

// PitchSink receives fetched pitches. The pipeline buffer implements this.
type PitchSink interface {
	Send(p model.Pitch) bool
}

// Drainer is implemented by sinks whose writes land asynchronously. When the
// sink also implements Drainer, a job is not reported completed until Drain
// returns, so a chart request right after the terminal event sees every
// pitch the job delivered.
type Drainer interface {
	Drain(ctx context.Context) error
}

// Progress is a load job state change delivered to subscribers.
type Progress struct {
	JobID      uuid.UUID `json:"job_id"`
	PitcherID  int64     `json:"pitcher_id"`
	Season     int       `json:"season"`
	Status     string    `json:"status"`
	PitchCount int       `json:"pitch_count"`
	Error      string    `json:"error,omitempty"`
}

// ProgressHandler receives job progress events.
type ProgressHandler interface {
	HandleProgress(p Progress)
}

// ProgressHandlerFunc is a function adapter for ProgressHandler.
type ProgressHandlerFunc func(Progress)

func (f ProgressHandlerFunc) HandleProgress(p Progress) { f(p) }

// Config holds season loader configuration.
type Config struct {
	Concurrency int           // Max pitchers loaded at once (default: 4)
	ChunkDays   int           // Days per Savant request (default: 30)
	Timeout     time.Duration // Per-chunk request timeout (default: 90s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency: 4,
		ChunkDays:   30,
		Timeout:     90 * time.Second,
	}
}

// Service fetches pitcher seasons from Savant and feeds the write pipeline.
type Service struct {
	cfg      Config
	client   *api.Client
	jobs     JobStore
	sink     PitchSink
	progress ProgressHandler
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a season loader. jobs and progress may be nil.
func New(cfg Config, client *api.Client, jobs JobStore, sink PitchSink, progress ProgressHandler, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	if cfg.ChunkDays < 1 {
		cfg.ChunkDays = DefaultConfig().ChunkDays
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	return &Service{
		cfg:      cfg,
		client:   client,
		jobs:     jobs,
		sink:     sink,
		progress: progress,
		logger:   logger,
	}
}

// Start prepares the loader for background jobs.
func (s *Service) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.logger.Info("season loader started",
		"concurrency", s.cfg.Concurrency,
		"chunk_days", s.cfg.ChunkDays,
	)
	return nil
}

// Stop cancels running jobs and waits for them to wind down.
func (s *Service) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("season loader stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load fetches one pitcher's season synchronously and returns the finished
// job record. The job row is created before the first fetch so callers can
// observe it mid-run.
func (s *Service) Load(ctx context.Context, pitcherID int64, season int) (model.LoadJob, error) {
	if !model.ValidSeason(season) {
		return model.LoadJob{}, fmt.Errorf("season %d outside statcast coverage", season)
	}

	job := model.LoadJob{
		ID:        uuid.New(),
		PitcherID: pitcherID,
		Season:    season,
		Status:    model.JobRunning,
		StartedAt: time.Now().UnixMicro(),
	}
	if s.jobs != nil {
		if err := s.jobs.CreateJob(ctx, job); err != nil {
			return model.LoadJob{}, fmt.Errorf("create load job: %w", err)
		}
	}
	s.publish(job)

	if err := s.run(ctx, &job); err != nil {
		job.Status = model.JobFailed
		job.Error = err.Error()
		job.FinishedAt = time.Now().UnixMicro()
		s.finish(job)
		return job, err
	}

	job.Status = model.JobCompleted
	job.FinishedAt = time.Now().UnixMicro()
	s.finish(job)
	return job, nil
}

// LoadAsync starts a load job in the background and returns its id
// immediately. Start must have been called.
func (s *Service) LoadAsync(pitcherID int64, season int) (uuid.UUID, error) {
	if !model.ValidSeason(season) {
		return uuid.Nil, fmt.Errorf("season %d outside statcast coverage", season)
	}
	if s.ctx == nil {
		return uuid.Nil, fmt.Errorf("loader not started")
	}

	job := model.LoadJob{
		ID:        uuid.New(),
		PitcherID: pitcherID,
		Season:    season,
		Status:    model.JobPending,
		StartedAt: time.Now().UnixMicro(),
	}
	if s.jobs != nil {
		if err := s.jobs.CreateJob(s.ctx, job); err != nil {
			return uuid.Nil, fmt.Errorf("create load job: %w", err)
		}
	}
	s.publish(job)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		job.Status = model.JobRunning
		s.publish(job)

		if err := s.run(s.ctx, &job); err != nil {
			s.logger.Warn("background load failed",
				"job_id", job.ID,
				"pitcher_id", job.PitcherID,
				"season", job.Season,
				"err", err,
			)
			job.Status = model.JobFailed
			job.Error = err.Error()
		} else {
			job.Status = model.JobCompleted
		}
		job.FinishedAt = time.Now().UnixMicro()
		s.finish(job)
	}()

	return job.ID, nil
}

// LoadMany loads a season for several pitchers with bounded concurrency.
// The first failure cancels the remaining fetches.
func (s *Service) LoadMany(ctx context.Context, pitcherIDs []int64, season int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for _, id := range pitcherIDs {
		id := id
		g.Go(func() error {
			_, err := s.Load(ctx, id, season)
			return err
		})
	}

	return g.Wait()
}

// run fetches every chunk of the job's season and streams pitches to the
// sink, updating the job record as chunks land.
func (s *Service) run(ctx context.Context, job *model.LoadJob) error {
	start := time.Now()
	chunks := seasonChunks(job.Season, s.cfg.ChunkDays)

	for _, chunk := range chunks {
		rows, err := s.fetchChunk(ctx, job.PitcherID, chunk)
		if err != nil {
			return fmt.Errorf("fetch %s..%s: %w", chunk.Start, chunk.End, err)
		}

		received := time.Now()
		for _, row := range rows {
			s.sink.Send(row.ToPitch(job.PitcherID, received))
		}
		job.PitchCount += len(rows)

		if s.jobs != nil {
			if err := s.jobs.UpdateJob(ctx, *job); err != nil {
				s.logger.Warn("updating load job failed", "job_id", job.ID, "err", err)
			}
		}
		s.publish(*job)
	}

	s.logger.Info("season load complete",
		"pitcher_id", job.PitcherID,
		"season", job.Season,
		"pitches", job.PitchCount,
		"chunks", len(chunks),
		"duration", time.Since(start),
	)
	return nil
}

func (s *Service) fetchChunk(ctx context.Context, pitcherID int64, chunk dateRange) ([]api.StatcastRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	return s.client.GetPitcherStatcast(ctx, pitcherID, chunk.Start, chunk.End)
}

// finish persists a terminal job state and publishes it. Persistence uses a
// fresh context so shutdown does not lose the final transition.
func (s *Service) finish(job model.LoadJob) {
	if job.Status == model.JobCompleted {
		s.settle()
	}
	if s.jobs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.jobs.UpdateJob(ctx, job); err != nil {
			s.logger.Warn("persisting final job state failed", "job_id", job.ID, "err", err)
		}
	}
	s.publish(job)
}

// settle waits for a draining sink to flush before completion is announced.
func (s *Service) settle() {
	d, ok := s.sink.(Drainer)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := d.Drain(ctx); err != nil {
		s.logger.Warn("draining sink before completion", "err", err)
	}
}

func (s *Service) publish(job model.LoadJob) {
	if s.progress == nil {
		return
	}
	s.progress.HandleProgress(Progress{
		JobID:      job.ID,
		PitcherID:  job.PitcherID,
		Season:     job.Season,
		Status:     job.Status,
		PitchCount: job.PitchCount,
		Error:      job.Error,
	})
}
