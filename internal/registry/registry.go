package registry

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andrewchiang3/pitcher-plinko/internal/api"
	"github.com/andrewchiang3/pitcher-plinko/internal/model"
	"github.com/andrewchiang3/pitcher-plinko/internal/normalize"
)

// Config holds pitcher registry configuration.
type Config struct {
	Season            int           // Season whose player list seeds the directory
	ReconcileInterval time.Duration // Directory refresh cadence
	SearchLimit       int           // Default result cap for Search
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Season:            time.Now().Year(),
		ReconcileInterval: 6 * time.Hour,
		SearchLimit:       50,
	}
}

// Directory is the read surface the web layer depends on.
type Directory interface {
	Search(query string, limit int) []model.Pitcher
	Get(id int64) (model.Pitcher, bool)
	Len() int
}

// PitcherSink receives directory rows on every sync. The store implements
// this; syncs keep the database usable for cold starts.
type PitcherSink interface {
	UpsertPitchers(ctx context.Context, pitchers []model.Pitcher) error
}

// PitcherSource provides stored directory rows for cold starts.
type PitcherSource interface {
	AllPitchers(ctx context.Context) ([]model.Pitcher, error)
}

// Registry maintains the pitcher directory.
type Registry struct {
	cfg    Config
	rest   *api.Client
	sink   PitcherSink
	source PitcherSource
	logger *slog.Logger

	mu       sync.RWMutex
	pitchers map[int64]model.Pitcher
	ordered  []model.Pitcher // sorted by (last, first)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a pitcher registry. sink and source may be nil in tests.
func New(cfg Config, rest *api.Client, sink PitcherSink, source PitcherSource, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SearchLimit < 1 {
		cfg.SearchLimit = DefaultConfig().SearchLimit
	}

	return &Registry{
		cfg:      cfg,
		rest:     rest,
		sink:     sink,
		source:   source,
		logger:   logger,
		pitchers: make(map[int64]model.Pitcher),
	}
}

// Start loads the directory and begins background reconciliation. A failed
// upstream sync is not fatal when the store already has rows; reconciliation
// retries on the interval.
func (r *Registry) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.coldLoad(r.ctx)

	if err := r.sync(r.ctx); err != nil {
		if r.Len() == 0 {
			r.cancel()
			return err
		}
		r.logger.Warn("initial directory sync failed, serving stored rows", "err", err)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.reconcileLoop(r.ctx)
	}()

	r.logger.Info("pitcher registry started",
		"season", r.cfg.Season,
		"pitchers", r.Len(),
	)
	return nil
}

// Stop gracefully shuts down.
func (r *Registry) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("pitcher registry stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// coldLoad seeds the directory from the store so search works before the
// first upstream sync completes.
func (r *Registry) coldLoad(ctx context.Context) {
	if r.source == nil {
		return
	}

	stored, err := r.source.AllPitchers(ctx)
	if err != nil {
		r.logger.Warn("cold load from store failed", "err", err)
		return
	}
	if len(stored) == 0 {
		return
	}

	r.replaceAll(stored)
	r.logger.Info("directory cold-loaded from store", "pitchers", len(stored))
}

// sync fetches the season's pitchers and replaces the directory.
func (r *Registry) sync(ctx context.Context) error {
	start := time.Now()

	people, err := r.rest.GetSeasonPitchers(ctx, r.cfg.Season)
	if err != nil {
		return err
	}

	pitchers := make([]model.Pitcher, 0, len(people))
	for _, p := range people {
		pitchers = append(pitchers, p.ToPitcher())
	}
	r.replaceAll(pitchers)

	if r.sink != nil {
		if err := r.sink.UpsertPitchers(ctx, pitchers); err != nil {
			r.logger.Error("persisting directory failed", "err", err)
		}
	}

	r.logger.Info("directory sync complete",
		"pitchers", len(pitchers),
		"duration", time.Since(start),
	)
	return nil
}

// reconcileLoop periodically re-syncs the directory.
func (r *Registry) reconcileLoop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.sync(ctx); err != nil {
				r.logger.Error("directory reconcile failed", "err", err)
			}
		}
	}
}

// replaceAll swaps in a new directory snapshot.
func (r *Registry) replaceAll(pitchers []model.Pitcher) {
	byID := make(map[int64]model.Pitcher, len(pitchers))
	ordered := make([]model.Pitcher, len(pitchers))
	copy(ordered, pitchers)

	for _, p := range pitchers {
		byID[p.ID] = p
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].LastName != ordered[j].LastName {
			return ordered[i].LastName < ordered[j].LastName
		}
		if ordered[i].FirstName != ordered[j].FirstName {
			return ordered[i].FirstName < ordered[j].FirstName
		}
		return ordered[i].ID < ordered[j].ID
	})

	r.mu.Lock()
	r.pitchers = byID
	r.ordered = ordered
	r.mu.Unlock()
}

// Get returns a pitcher by MLBAM id.
func (r *Registry) Get(id int64) (model.Pitcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pitchers[id]
	return p, ok
}

// All returns the full directory ordered by (last, first).
func (r *Registry) All() []model.Pitcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Pitcher, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len returns the directory size.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pitchers)
}

// Search returns pitchers whose folded name contains the folded query,
// ordered by (last, first). A non-positive limit uses the configured
// default; an empty query matches nothing.
func (r *Registry) Search(query string, limit int) []model.Pitcher {
	folded := normalize.Fold(query)
	if folded == "" {
		return nil
	}
	if limit <= 0 {
		limit = r.cfg.SearchLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []model.Pitcher
	for _, p := range r.ordered {
		if containsFold(p, folded) {
			matches = append(matches, p)
			if len(matches) >= limit {
				break
			}
		}
	}
	return matches
}

func containsFold(p model.Pitcher, folded string) bool {
	if p.NormalizedName != "" {
		return strings.Contains(p.NormalizedName, folded)
	}
	return strings.Contains(normalize.Fold(p.FullName), folded)
}
