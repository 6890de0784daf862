package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/andrewchiang3/pitcher-plinko/internal/api"
	"github.com/andrewchiang3/pitcher-plinko/internal/config"
	"github.com/andrewchiang3/pitcher-plinko/internal/database"
	"github.com/andrewchiang3/pitcher-plinko/internal/ingest"
	"github.com/andrewchiang3/pitcher-plinko/internal/model"
	"github.com/andrewchiang3/pitcher-plinko/internal/pipeline"
	"github.com/andrewchiang3/pitcher-plinko/internal/registry"
	"github.com/andrewchiang3/pitcher-plinko/internal/store"
	"github.com/andrewchiang3/pitcher-plinko/internal/version"
	"github.com/andrewchiang3/pitcher-plinko/internal/web"
)

// progressRelay lets the loader publish to a handler that is constructed
// after the loader itself.
type progressRelay struct {
	h ingest.ProgressHandler
}

func (r *progressRelay) HandleProgress(p ingest.Progress) {
	if r.h != nil {
		r.h.HandleProgress(p)
	}
}

// drainingSink feeds the pipeline buffer and drains the batch writer, so a
// job's completed event is held until its pitches have been flushed.
type drainingSink struct {
	*pipeline.Buffer[model.Pitch]
	writer *store.PitchWriter
}

func (s drainingSink) Drain(ctx context.Context) error {
	return s.writer.Drain(ctx)
}

func main() {
	configPath := flag.String("config", "configs/server.yaml", "path to config file")
	flag.Parse()

	// Local development convenience; missing .env is fine.
	godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting server",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"stats_url", cfg.API.StatsURL,
		"savant_url", cfg.API.SavantURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

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
	logger.Info("database connected")

	db := store.New(pool)

	// Create MLB data client
	client := api.NewClient(
		cfg.API.StatsURL,
		cfg.API.SavantURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	// Pitcher registry (initial directory sync)
	reg := registry.New(registry.Config{
		Season:            cfg.Registry.Season,
		ReconcileInterval: cfg.Registry.ReconcileInterval,
		SearchLimit:       cfg.Registry.SearchLimit,
	}, client, db, db, logger)

	logger.Info("starting pitcher registry (initial sync)...")
	if err := reg.Start(ctx); err != nil {
		logger.Error("failed to start pitcher registry", "error", err)
		os.Exit(1)
	}
	defer stopComponent(reg.Stop, 30*time.Second)

	// Write pipeline: loader -> buffer -> batch writer -> Postgres
	buffer := pipeline.NewBuffer[model.Pitch](cfg.Writer.BufferSize)
	writer := store.NewPitchWriter(store.WriterConfig{
		BatchSize:     cfg.Writer.BatchSize,
		FlushInterval: cfg.Writer.FlushInterval,
	}, buffer, pool, logger)

	if err := writer.Start(ctx); err != nil {
		logger.Error("failed to start pitch writer", "error", err)
		os.Exit(1)
	}
	defer stopComponent(writer.Stop, 30*time.Second)

	// Season loader
	relay := &progressRelay{}
	loader := ingest.New(ingest.Config{
		Concurrency: cfg.Ingest.Concurrency,
		ChunkDays:   cfg.Ingest.ChunkDays,
	}, client, db, drainingSink{buffer, writer}, relay, logger)

	if err := loader.Start(ctx); err != nil {
		logger.Error("failed to start season loader", "error", err)
		os.Exit(1)
	}
	defer stopComponent(loader.Stop, 60*time.Second)

	// Websocket progress hub
	hub := web.NewHub(logger)
	if err := hub.Start(ctx); err != nil {
		logger.Error("failed to start progress hub", "error", err)
		os.Exit(1)
	}
	defer stopComponent(hub.Stop, 10*time.Second)

	// HTTP API server; it invalidates chart caches on finished loads and
	// forwards progress to the hub.
	server := web.NewServer(cfg.Server, reg, db, loader, hub, logger)
	relay.h = server

	if err := server.Start(ctx); err != nil {
		logger.Error("failed to start api server", "error", err)
		os.Exit(1)
	}
	defer stopComponent(server.Stop, 10*time.Second)

	logger.Info("server running",
		"instance_id", cfg.Instance.ID,
		"port", cfg.Server.Port,
		"pitchers", reg.Len(),
	)

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down...")
}

// stopComponent runs a Stop func with its own timeout so one stuck
// component cannot block the rest of the shutdown.
func stopComponent(stop func(context.Context) error, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	stop(ctx)
}
