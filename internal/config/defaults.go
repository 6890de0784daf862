package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultStatsURL          = "https://statsapi.mlb.com/api/v1"
	DefaultSavantURL         = "https://baseballsavant.mlb.com"
	DefaultAPITimeout        = 60 * time.Second
	DefaultMaxRetries        = 3
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultBatchSize         = 1000
	DefaultFlushInterval     = 1 * time.Second
	DefaultBufferSize        = 10000
	DefaultIngestConcurrency = 4
	DefaultChunkDays         = 30
	DefaultReconcileInterval = 6 * time.Hour
	DefaultSearchLimit       = 50
	DefaultServerPort        = 8080
	DefaultStaticDir         = "static"
	DefaultCacheTTL          = 1 * time.Hour
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.StatsURL == "" {
		c.API.StatsURL = DefaultStatsURL
	}
	if c.API.SavantURL == "" {
		c.API.SavantURL = DefaultSavantURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Writer defaults
	if c.Writer.BatchSize == 0 {
		c.Writer.BatchSize = DefaultBatchSize
	}
	if c.Writer.FlushInterval == 0 {
		c.Writer.FlushInterval = DefaultFlushInterval
	}
	if c.Writer.BufferSize == 0 {
		c.Writer.BufferSize = DefaultBufferSize
	}

	// Ingest defaults
	if c.Ingest.Concurrency == 0 {
		c.Ingest.Concurrency = DefaultIngestConcurrency
	}
	if c.Ingest.ChunkDays == 0 {
		c.Ingest.ChunkDays = DefaultChunkDays
	}

	// Registry defaults
	if c.Registry.Season == 0 {
		c.Registry.Season = time.Now().Year()
	}
	if c.Registry.ReconcileInterval == 0 {
		c.Registry.ReconcileInterval = DefaultReconcileInterval
	}
	if c.Registry.SearchLimit == 0 {
		c.Registry.SearchLimit = DefaultSearchLimit
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = DefaultStaticDir
	}
	if c.Server.CacheTTL == 0 {
		c.Server.CacheTTL = DefaultCacheTTL
	}
}
