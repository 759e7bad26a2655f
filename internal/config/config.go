package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Document loaded at startup, if set.
	DocumentPath string

	// Load pipeline. More than one worker lets overlapping uploads finish out of order.
	LoadWorkers  int
	MaxQueueSize int
	LoadTimeout  time.Duration
	JobTTL       time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Search defaults
	DefaultContextLength int

	// Query latency window
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

// fileConfig is the YAML layout of the optional config file.
type fileConfig struct {
	Port                 string        `yaml:"port"`
	APIKey               string        `yaml:"api_key"`
	DocumentPath         string        `yaml:"document_path"`
	LoadWorkers          int           `yaml:"load_workers"`
	MaxQueueSize         int           `yaml:"max_queue_size"`
	LoadTimeout          time.Duration `yaml:"load_timeout"`
	JobTTL               time.Duration `yaml:"job_ttl"`
	MaxUploadBytes       int64         `yaml:"max_upload_bytes"`
	DefaultContextLength *int          `yaml:"default_context_length"`
	StatsWindow          time.Duration `yaml:"stats_window"`
	PDFFallbackPdftotext *bool         `yaml:"pdf_fallback_pdftotext"`
}

// Load builds the configuration from defaults, then the YAML file named by
// DOCSEARCH_CONFIG (if any), then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("DOCSEARCH_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("DOCSEARCH_API_KEY", cfg.APIKey)
	cfg.DocumentPath = envOr("DOCUMENT_PATH", cfg.DocumentPath)
	cfg.LoadWorkers = envInt("LOAD_WORKERS", cfg.LoadWorkers)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.LoadTimeout = envDuration("LOAD_TIMEOUT", cfg.LoadTimeout)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.DefaultContextLength = envInt("DEFAULT_CONTEXT_LENGTH", cfg.DefaultContextLength)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)
	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)

	cfg.normalize()
	return cfg, nil
}

func defaults() Config {
	return Config{
		Port:                 "8090",
		LoadWorkers:          1,
		MaxQueueSize:         16,
		LoadTimeout:          2 * time.Minute,
		JobTTL:               1 * time.Hour,
		MaxUploadBytes:       52428800, // 50MB
		DefaultContextLength: 50,
		StatsWindow:          1 * time.Hour,
		PDFFallbackPdftotext: true,
	}
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if f.Port != "" {
		c.Port = f.Port
	}
	if f.APIKey != "" {
		c.APIKey = f.APIKey
	}
	if f.DocumentPath != "" {
		c.DocumentPath = f.DocumentPath
	}
	if f.LoadWorkers != 0 {
		c.LoadWorkers = f.LoadWorkers
	}
	if f.MaxQueueSize != 0 {
		c.MaxQueueSize = f.MaxQueueSize
	}
	if f.LoadTimeout != 0 {
		c.LoadTimeout = f.LoadTimeout
	}
	if f.JobTTL != 0 {
		c.JobTTL = f.JobTTL
	}
	if f.MaxUploadBytes != 0 {
		c.MaxUploadBytes = f.MaxUploadBytes
	}
	if f.DefaultContextLength != nil {
		c.DefaultContextLength = *f.DefaultContextLength
	}
	if f.StatsWindow != 0 {
		c.StatsWindow = f.StatsWindow
	}
	if f.PDFFallbackPdftotext != nil {
		c.PDFFallbackPdftotext = *f.PDFFallbackPdftotext
	}
	return nil
}

func (c *Config) normalize() {
	if c.LoadWorkers <= 0 {
		c.LoadWorkers = 1
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 16
	}
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = 2 * time.Minute
	}
	if c.JobTTL <= 0 {
		c.JobTTL = 1 * time.Hour
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 52428800
	}
	if c.DefaultContextLength < 0 {
		c.DefaultContextLength = 50
	}
	if c.StatsWindow <= 0 {
		c.StatsWindow = 1 * time.Hour
	}
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCSEARCH_API_KEY is required")
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

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
