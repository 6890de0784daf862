package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/andrewchiang3/pitcher-plinko/internal/api"
	"github.com/andrewchiang3/pitcher-plinko/internal/config"
	"github.com/andrewchiang3/pitcher-plinko/internal/database"
	"github.com/andrewchiang3/pitcher-plinko/internal/ingest"
	"github.com/andrewchiang3/pitcher-plinko/internal/model"
	"github.com/andrewchiang3/pitcher-plinko/internal/normalize"
	"github.com/andrewchiang3/pitcher-plinko/internal/pipeline"
	"github.com/andrewchiang3/pitcher-plinko/internal/store"
	"github.com/andrewchiang3/pitcher-plinko/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/server.yaml", "path to config file")
	pitcherArg := flag.String("pitcher", "", "pitcher name or MLBAM id (required)")
	season := flag.Int("season", time.Now().Year(), "season to load")
	allSeasons := flag.Bool("all-seasons", false, "load every available season instead of -season")
	flag.Parse()

	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *pitcherArg == "" {
		fmt.Fprintln(os.Stderr, "usage: loader -pitcher <name or id> [-season <year>] [-config <path>]")
		os.Exit(2)
	}

	logger.Info("starting loader",
		"version", version.Version,
		"pitcher", *pitcherArg,
		"season", *season,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Error("failed to migrate schema", "error", err)
		os.Exit(1)
	}

	db := store.New(pool)

	client := api.NewClient(
		cfg.API.StatsURL,
		cfg.API.SavantURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	pitcher, err := resolvePitcher(ctx, client, db, *pitcherArg)
	if err != nil {
		logger.Error("failed to resolve pitcher", "pitcher", *pitcherArg, "error", err)
		os.Exit(1)
	}

	if err := db.UpsertPitchers(ctx, []model.Pitcher{pitcher}); err != nil {
		logger.Error("failed to store pitcher", "error", err)
		os.Exit(1)
	}

	logger.Info("resolved pitcher",
		"id", pitcher.ID,
		"name", pitcher.FullName,
		"throws", pitcher.Throws,
	)

	buffer := pipeline.NewBuffer[model.Pitch](cfg.Writer.BufferSize)
	writer := store.NewPitchWriter(store.WriterConfig{
		BatchSize:     cfg.Writer.BatchSize,
		FlushInterval: cfg.Writer.FlushInterval,
	}, buffer, pool, logger)

	if err := writer.Start(ctx); err != nil {
		logger.Error("failed to start pitch writer", "error", err)
		os.Exit(1)
	}

	loader := ingest.New(ingest.Config{
		Concurrency: cfg.Ingest.Concurrency,
		ChunkDays:   cfg.Ingest.ChunkDays,
	}, client, db, buffer, nil, logger)

	seasons := []int{*season}
	if *allSeasons {
		seasons = model.AvailableSeasons()
	}

	var fetched int
	for _, year := range seasons {
		job, err := loader.Load(ctx, pitcher.ID, year)
		if err != nil {
			logger.Error("load failed", "season", year, "error", err)
			stopWriter(writer, logger)
			os.Exit(1)
		}
		fetched += job.PitchCount
	}

	// Let the writer flush everything before reporting.
	drainCtx, drainCancel := context.WithTimeout(ctx, 2*time.Minute)
	if err := writer.Drain(drainCtx); err != nil {
		logger.Warn("drain incomplete", "error", err)
	}
	drainCancel()
	stopWriter(writer, logger)

	stats := writer.Stats()
	logger.Info("load complete",
		"pitcher", pitcher.FullName,
		"seasons", len(seasons),
		"fetched", fetched,
		"inserted", stats.Inserts,
		"duplicates", stats.Conflicts,
	)
}

func stopWriter(w *store.PitchWriter, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := w.Stop(ctx); err != nil {
		logger.Warn("writer stop failed", "error", err)
	}
}

// resolvePitcher accepts either a numeric MLBAM id or a name. Ids are looked
// up in the store first; names go through the Stats API people search, and
// an ambiguous name fails with the candidates listed so the caller can retry
// with an id.
func resolvePitcher(ctx context.Context, client *api.Client, db *store.Store, arg string) (model.Pitcher, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if p, err := db.GetPitcher(ctx, id); err == nil {
			return p, nil
		}
		people, err := client.SearchPeople(ctx, arg)
		// The search endpoint also resolves ids; fall back to a bare record
		// if it returns nothing useful.
		if err == nil {
			for _, p := range people {
				if p.ID == id {
					return p.ToPitcher(), nil
				}
			}
		}
		return model.Pitcher{ID: id, FullName: arg}, nil
	}

	// Known names resolve offline.
	if stored, err := db.SearchPitchers(ctx, normalize.Fold(arg), 2); err == nil && len(stored) == 1 {
		return stored[0], nil
	}

	people, err := client.SearchPeople(ctx, arg)
	if err != nil {
		return model.Pitcher{}, err
	}

	var pitchers []api.APIPerson
	for _, p := range people {
		if p.IsPitcher() {
			pitchers = append(pitchers, p)
		}
	}

	switch len(pitchers) {
	case 0:
		return model.Pitcher{}, fmt.Errorf("no pitcher matches %q", arg)
	case 1:
		return pitchers[0].ToPitcher(), nil
	default:
		names := ""
		for _, p := range pitchers {
			names += fmt.Sprintf("\n  %d  %s", p.ID, p.FullName)
		}
		return model.Pitcher{}, fmt.Errorf("%d pitchers match %q, retry with an id:%s", len(pitchers), arg, names)
	}
}
