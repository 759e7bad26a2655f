package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configEnv = []string{
	"DOCSEARCH_CONFIG", "PORT", "DOCSEARCH_API_KEY", "DOCUMENT_PATH", "LOAD_WORKERS",
	"MAX_QUEUE_SIZE", "LOAD_TIMEOUT", "JOB_TTL", "MAX_UPLOAD_BYTES",
	"DEFAULT_CONTEXT_LENGTH", "STATS_WINDOW", "PDF_FALLBACK_PDFTOTEXT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.DefaultContextLength != 50 {
		t.Errorf("expected context length 50, got %d", cfg.DefaultContextLength)
	}
	if cfg.LoadWorkers != 1 {
		t.Errorf("expected 1 load worker, got %d", cfg.LoadWorkers)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback enabled by default")
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without api key")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DOCSEARCH_API_KEY", "secret")
	t.Setenv("LOAD_TIMEOUT", "30s")
	t.Setenv("DEFAULT_CONTEXT_LENGTH", "0")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("LOAD_WORKERS", "-3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.LoadTimeout != 30*time.Second {
		t.Errorf("expected 30s load timeout, got %v", cfg.LoadTimeout)
	}
	if cfg.DefaultContextLength != 0 {
		t.Errorf("expected context length 0, got %d", cfg.DefaultContextLength)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
	if cfg.LoadWorkers != 1 {
		t.Errorf("expected invalid worker count to reset to 1, got %d", cfg.LoadWorkers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "docsearch.yaml")
	yml := `port: "7000"
api_key: from-file
document_path: /data/sample.pdf
job_ttl: 15m
default_context_length: 20
pdf_fallback_pdftotext: false
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOCSEARCH_CONFIG", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7001" {
		t.Errorf("expected env port to win, got %q", cfg.Port)
	}
	if cfg.APIKey != "from-file" {
		t.Errorf("expected api key from file, got %q", cfg.APIKey)
	}
	if cfg.DocumentPath != "/data/sample.pdf" {
		t.Errorf("unexpected document path %q", cfg.DocumentPath)
	}
	if cfg.JobTTL != 15*time.Minute {
		t.Errorf("expected 15m job ttl, got %v", cfg.JobTTL)
	}
	if cfg.DefaultContextLength != 20 {
		t.Errorf("expected context length 20, got %d", cfg.DefaultContextLength)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled by file")
	}
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOCSEARCH_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
