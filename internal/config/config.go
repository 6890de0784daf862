package config

import "time"

// Config is the root configuration shared by the server and loader binaries.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	API      APIConfig      `yaml:"api"`
	Database DBConfig       `yaml:"database"`
	Writer   WriterConfig   `yaml:"writer"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Registry RegistryConfig `yaml:"registry"`
	Server   ServerConfig   `yaml:"server"`
}

// InstanceConfig identifies this deployment.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds upstream MLB endpoint settings.
type APIConfig struct {
	StatsURL   string        `yaml:"stats_url"`
	SavantURL  string        `yaml:"savant_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// DBConfig holds the Postgres connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// WriterConfig holds pitch batch writer settings.
type WriterConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// IngestConfig holds load job settings.
type IngestConfig struct {
	Concurrency int `yaml:"concurrency"`
	ChunkDays   int `yaml:"chunk_days"`
}

// RegistryConfig holds pitcher directory settings.
type RegistryConfig struct {
	Season            int           `yaml:"season"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
	SearchLimit       int           `yaml:"search_limit"`
}

// ServerConfig holds the HTTP API server settings.
type ServerConfig struct {
	Port        int           `yaml:"port"`
	StaticDir   string        `yaml:"static_dir"`
	CORSOrigins []string      `yaml:"cors_origins"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}
