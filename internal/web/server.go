package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/andrewchiang3/pitcher-plinko/internal/config"
	"github.com/andrewchiang3/pitcher-plinko/internal/ingest"
	"github.com/andrewchiang3/pitcher-plinko/internal/model"
	"github.com/andrewchiang3/pitcher-plinko/internal/plinko"
)

// Directory is the pitcher search surface. The registry implements it.
type Directory interface {
	Search(query string, limit int) []model.Pitcher
	Get(id int64) (model.Pitcher, bool)
	Len() int
}

// ChartStore provides stored pitches and load job records.
type ChartStore interface {
	Ping(ctx context.Context) error
	GetPitcher(ctx context.Context, id int64) (model.Pitcher, error)
	PitchesForSeason(ctx context.Context, pitcherID int64, season int) ([]model.Pitch, error)
	SeasonsLoaded(ctx context.Context, pitcherID int64) ([]int, error)
	GetJob(ctx context.Context, id uuid.UUID) (model.LoadJob, error)
	JobsForPitcher(ctx context.Context, pitcherID int64) ([]model.LoadJob, error)
}

// Loader submits background load jobs.
type Loader interface {
	LoadAsync(pitcherID int64, season int) (uuid.UUID, error)
}

// Server is the HTTP API and dashboard server.
type Server struct {
	cfg      config.ServerConfig
	dir      Directory
	store    ChartStore
	loader   Loader
	hub      *Hub
	charts   *Cache[plinko.Chart]
	logger   *slog.Logger
	upgrader websocket.Upgrader

	httpServer *http.Server
}

// NewServer creates the API server. loader may be nil, which disables the
// load endpoints (the standalone loader binary runs without them).
func NewServer(cfg config.ServerConfig, dir Directory, store ChartStore, loader Loader, hub *Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Server{
		cfg:    cfg,
		dir:    dir,
		store:  store,
		loader: loader,
		hub:    hub,
		charts: NewCache[plinko.Chart](ttl),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler builds the routing table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/seasons", s.handleSeasons).Methods("GET")
	api.HandleFunc("/pitchers", s.handleSearchPitchers).Methods("GET")
	api.HandleFunc("/pitchers/{id:[0-9]+}", s.handleGetPitcher).Methods("GET")
	api.HandleFunc("/pitchers/{id:[0-9]+}/plinko", s.handlePlinko).Methods("GET")
	api.HandleFunc("/pitchers/{id:[0-9]+}/summary", s.handleSummary).Methods("GET")
	api.HandleFunc("/pitchers/{id:[0-9]+}/loads", s.handlePitcherLoads).Methods("GET")
	api.HandleFunc("/loads", s.handleCreateLoad).Methods("POST")
	api.HandleFunc("/loads/{id}", s.handleGetLoad).Methods("GET")

	router.HandleFunc("/ws", s.handleWebSocket)

	staticDir := s.cfg.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(router)
}

// Start begins serving in the background.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "err", err)
		}
	}()

	s.logger.Info("api server started", "port", s.cfg.Port)
	return nil
}

// Stop drains in-flight requests and releases the chart cache.
func (s *Server) Stop(ctx context.Context) error {
	s.charts.Close()
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}

// HandleProgress implements ingest.ProgressHandler. Finished loads drop the
// pitcher's cached charts before the event reaches websocket clients. The
// loader drains the write pipeline before reporting completed, so a refresh
// after the event sees every pitch the job delivered.
func (s *Server) HandleProgress(p ingest.Progress) {
	if p.Status == model.JobCompleted {
		s.charts.DeletePrefix(chartKeyPrefix(p.PitcherID))
	}
	if s.hub != nil {
		s.hub.HandleProgress(p)
	}
}

func chartKey(pitcherID int64, season int) string {
	return fmt.Sprintf("chart:%d:%d", pitcherID, season)
}

func chartKeyPrefix(pitcherID int64) string {
	return fmt.Sprintf("chart:%d:", pitcherID)
}
