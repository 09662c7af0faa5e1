package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount         int
	MaxQueueSize        int
	MaxConcurrentRender int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Logging
	LogLevel string

	// IR input
	SourceDir string
	IRName    string

	// Render defaults
	OutputDir     string
	IndexTitle    string
	IntroMessage  string
	SeparatePages bool
	ContentsTable bool
	Formats       []string
	Package       string
	Modules       []string

	// External inventories, name to URL.
	Inventories      map[string]string
	InventoryTimeout time.Duration
}

// fileConfig mirrors the TOML layout of apidoc.toml.
type fileConfig struct {
	Server struct {
		Port              string `toml:"port"`
		APIKey            string `toml:"api-key"`
		Workers           int    `toml:"workers"`
		MaxQueueSize      int    `toml:"max-queue-size"`
		RenderConcurrency int    `toml:"render-concurrency"`
		MaxUploadMB       int64  `toml:"max-upload-mb"`
		JobTTL            string `toml:"job-ttl"`
		LogLevel          string `toml:"log-level"`
	} `toml:"server"`

	Docs struct {
		SourceDir     string   `toml:"source-dir"`
		OutputDir     string   `toml:"output-dir"`
		IRName        string   `toml:"ir-name"`
		IndexTitle    string   `toml:"index-title"`
		IntroMessage  string   `toml:"intro-message"`
		SeparatePages *bool    `toml:"separate-pages"`
		ContentsTable *bool    `toml:"contents-table"`
		Formats       []string `toml:"formats"`
		Package       string   `toml:"package"`
		Modules       []string `toml:"modules"`
	} `toml:"docs"`

	Inventories map[string]string `toml:"inventories"`
}

// Load builds the configuration from defaults, an optional TOML file, and
// environment overrides, in that order. An empty path falls back to
// APIDOC_CONFIG and then ./apidoc.toml; only an explicitly named file is
// required to exist.
func Load(path string) (Config, error) {
	cfg := defaults()

	explicit := path != ""
	if path == "" {
		if v := os.Getenv("APIDOC_CONFIG"); v != "" {
			path = v
			explicit = true
		} else {
			path = "apidoc.toml"
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if err := applyFile(&cfg, fc); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)
	clamp(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		Port:                "8090",
		WorkerCount:         4,
		MaxQueueSize:        100,
		MaxConcurrentRender: 4,
		MaxUploadBytes:      32 << 20,
		JobTTL:              1 * time.Hour,
		LogLevel:            "info",
		SourceDir:           ".",
		IRName:              "api_reference.json",
		OutputDir:           "docs/api",
		SeparatePages:       true,
		ContentsTable:       true,
		Formats:             []string{"html"},
		Inventories:         map[string]string{},
		InventoryTimeout:    30 * time.Second,
	}
}

func applyFile(cfg *Config, fc fileConfig) error {
	if fc.Server.Port != "" {
		cfg.Port = fc.Server.Port
	}
	if fc.Server.APIKey != "" {
		cfg.APIKey = fc.Server.APIKey
	}
	if fc.Server.Workers > 0 {
		cfg.WorkerCount = fc.Server.Workers
	}
	if fc.Server.MaxQueueSize > 0 {
		cfg.MaxQueueSize = fc.Server.MaxQueueSize
	}
	if fc.Server.RenderConcurrency > 0 {
		cfg.MaxConcurrentRender = fc.Server.RenderConcurrency
	}
	if fc.Server.MaxUploadMB > 0 {
		cfg.MaxUploadBytes = fc.Server.MaxUploadMB << 20
	}
	if fc.Server.JobTTL != "" {
		d, err := time.ParseDuration(fc.Server.JobTTL)
		if err != nil {
			return fmt.Errorf("invalid job-ttl %q: %w", fc.Server.JobTTL, err)
		}
		cfg.JobTTL = d
	}
	if fc.Server.LogLevel != "" {
		cfg.LogLevel = fc.Server.LogLevel
	}

	if fc.Docs.SourceDir != "" {
		cfg.SourceDir = fc.Docs.SourceDir
	}
	if fc.Docs.OutputDir != "" {
		cfg.OutputDir = fc.Docs.OutputDir
	}
	if fc.Docs.IRName != "" {
		cfg.IRName = fc.Docs.IRName
	}
	if fc.Docs.IndexTitle != "" {
		cfg.IndexTitle = fc.Docs.IndexTitle
	}
	if fc.Docs.IntroMessage != "" {
		cfg.IntroMessage = fc.Docs.IntroMessage
	}
	if fc.Docs.SeparatePages != nil {
		cfg.SeparatePages = *fc.Docs.SeparatePages
	}
	if fc.Docs.ContentsTable != nil {
		cfg.ContentsTable = *fc.Docs.ContentsTable
	}
	if len(fc.Docs.Formats) > 0 {
		cfg.Formats = fc.Docs.Formats
	}
	if fc.Docs.Package != "" {
		cfg.Package = fc.Docs.Package
	}
	if len(fc.Docs.Modules) > 0 {
		cfg.Modules = fc.Docs.Modules
	}

	for name, url := range fc.Inventories {
		cfg.Inventories[name] = url
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envOr("APIDOC_PORT", cfg.Port)
	if v := os.Getenv("APIDOC_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	cfg.WorkerCount = envInt("APIDOC_WORKERS", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("APIDOC_MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxConcurrentRender = envInt("APIDOC_RENDER_CONCURRENCY", cfg.MaxConcurrentRender)
	if mb := envInt64("APIDOC_MAX_UPLOAD_MB", 0); mb > 0 {
		cfg.MaxUploadBytes = mb << 20
	}
	cfg.JobTTL = envDuration("APIDOC_JOB_TTL", cfg.JobTTL)
	cfg.LogLevel = envOr("APIDOC_LOG_LEVEL", cfg.LogLevel)
	cfg.SourceDir = envOr("APIDOC_SOURCE_DIR", cfg.SourceDir)
	cfg.OutputDir = envOr("APIDOC_OUTPUT_DIR", cfg.OutputDir)
	cfg.InventoryTimeout = envDuration("APIDOC_INVENTORY_TIMEOUT", cfg.InventoryTimeout)
}

func clamp(cfg *Config) {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentRender <= 0 {
		cfg.MaxConcurrentRender = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.InventoryTimeout <= 0 {
		cfg.InventoryTimeout = 30 * time.Second
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = []string{"html"}
	}
	if cfg.Inventories == nil {
		cfg.Inventories = map[string]string{}
	}
}

// Validate checks settings the daemon cannot run without.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("APIDOC_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
