package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppEnv != EnvDev || cfg.StoreBackend != StoreBackendFile {
		t.Fatalf("unexpected defaults: env=%q backend=%q", cfg.AppEnv, cfg.StoreBackend)
	}
	if cfg.CacheTTL != 60*time.Second || !cfg.SkySportsEnabled || cfg.ValidationWorkers != 4 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.HTTPAddr != ":8080" || cfg.ServiceName != "standings-engine-api" {
		t.Fatalf("unexpected defaults: addr=%q name=%q", cfg.HTTPAddr, cfg.ServiceName)
	}
}

func TestLoad_GitHubBackendRequiresCredentials(t *testing.T) {
	t.Setenv("STORE_BACKEND", "github")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "GITHUB_TOKEN") {
		t.Fatalf("expected GITHUB_TOKEN error, got %v", err)
	}

	t.Setenv("GITHUB_TOKEN", "tok")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "GITHUB_REPO") {
		t.Fatalf("expected GITHUB_REPO error, got %v", err)
	}

	t.Setenv("GITHUB_REPO", "acordafut/tables")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.GitHubBranch != "main" {
		t.Fatalf("expected default branch main, got %q", cfg.GitHubBranch)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("CACHE_TTL", "-1s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative CACHE_TTL")
	}

	t.Setenv("CACHE_TTL", "60s")
	t.Setenv("STORE_BACKEND", "s3")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORE_BACKEND")
	}

	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("VALIDATION_WORKERS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero VALIDATION_WORKERS")
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "warn")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel.String() != "warn" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}
