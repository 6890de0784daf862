package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andrewchiang3/pitcher-plinko/internal/model"
	"github.com/andrewchiang3/pitcher-plinko/internal/pipeline"
)

// WriterConfig contains configuration for the pitch batch writer.
type WriterConfig struct {
	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     1000,
		FlushInterval: time.Second,
	}
}

// WriterMetrics holds counters for a writer.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
}

// PitchWriter consumes pitches from the ingest pipeline and writes them to
// the pitches table in batches.
type PitchWriter struct {
	cfg    WriterConfig
	logger *slog.Logger

	// Input from the ingest pipeline
	input *pipeline.Buffer[model.Pitch]

	// Database
	db *pgxpool.Pool

	// Batching
	batch       []model.Pitch
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	metrics WriterMetrics
}

// NewPitchWriter creates a new PitchWriter.
func NewPitchWriter(
	cfg WriterConfig,
	input *pipeline.Buffer[model.Pitch],
	db *pgxpool.Pool,
	logger *slog.Logger,
) *PitchWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PitchWriter{
		cfg:    cfg,
		input:  input,
		db:     db,
		logger: logger,
		batch:  make([]model.Pitch, 0, cfg.BatchSize),
	}
}

// Start begins consuming pitches and writing to the database.
func (w *PitchWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	// Consumer goroutine
	w.wg.Add(1)
	go w.consumeLoop()

	// Flush ticker goroutine
	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("pitch writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer.
func (w *PitchWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping pitch writer")

	if w.cancel != nil {
		w.cancel()
	}

	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	// Wait for goroutines
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("pitch writer stopped")
	case <-ctx.Done():
		w.logger.Warn("pitch writer stop timed out")
	}

	// Drain whatever the consumer didn't pick up, then final flush.
	if w.input != nil {
		if rest := w.input.DrainTo(0); len(rest) > 0 {
			w.batchMu.Lock()
			w.batch = append(w.batch, rest...)
			w.batchMu.Unlock()
		}
	}
	w.flush()

	return nil
}

// Drain blocks until the input buffer and the current batch are empty, or
// the context expires. The loader uses this before exiting.
func (w *PitchWriter) Drain(ctx context.Context) error {
	for {
		w.batchMu.Lock()
		pending := len(w.batch)
		w.batchMu.Unlock()

		if w.input.Len() == 0 && pending == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// Stats returns current metrics.
func (w *PitchWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads from the input buffer and accumulates batches.
func (w *PitchWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		default:
			// Use TryReceive with context check for responsiveness
			pitch, ok := w.input.TryReceive()
			if !ok {
				// Buffer empty, wait a bit before trying again
				select {
				case <-w.ctx.Done():
					return
				case <-time.After(10 * time.Millisecond):
					continue
				}
			}

			w.handlePitch(pitch)
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *PitchWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

// handlePitch adds a pitch to the batch, flushing when full.
func (w *PitchWriter) handlePitch(p model.Pitch) {
	w.batchMu.Lock()
	w.batch = append(w.batch, p)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

// flush writes the current batch to the database.
func (w *PitchWriter) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]model.Pitch, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed pitches",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
// Conflicts are expected: reloading a season re-fetches the same pitches.
func (w *PitchWriter) batchInsert(pitches []model.Pitch) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, p := range pitches {
		batch.Queue(`
			INSERT INTO pitches (game_pk, at_bat_number, pitch_number, pitcher_id,
				game_date, balls, strikes, pitch_type, release_speed,
				description, events, received_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (game_pk, at_bat_number, pitch_number) DO NOTHING
		`, p.GamePK, p.AtBatNumber, p.PitchNumber, p.PitcherID,
			p.GameDate, p.Balls, p.Strikes, p.PitchType, p.ReleaseSpeed,
			p.Description, p.Events, p.ReceivedAt)
	}

	// The final flush runs after Stop cancels w.ctx; give it its own window.
	ctx := w.ctx
	if ctx == nil || ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range pitches {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
