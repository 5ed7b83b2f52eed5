package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/acordafut/standings-engine/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoreBackendGitHub = "github"
	StoreBackendFile   = "file"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	CacheEnabled   bool
	CacheTTL       time.Duration
	LogLevel       logging.Level

	CORSAllowedOrigins []string

	StoreBackend     string
	GitHubToken      string
	GitHubRepo       string
	GitHubBranch     string
	GitHubBaseURL    string
	GitHubMaxRetries int
	FileStoreDir     string

	AbbreviationsPath string

	SkySportsEnabled               bool
	SkySportsBaseURL               string
	SkySportsTimeout               time.Duration
	SkySportsMaxRetries            int
	SkySportsCircuitEnabled        bool
	SkySportsCircuitFailureCount   int
	SkySportsCircuitOpenTimeout    time.Duration
	SkySportsCircuitHalfOpenMaxReq int

	ValidationWorkers int
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	storeBackend := strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", StoreBackendFile)))
	switch storeBackend {
	case StoreBackendGitHub, StoreBackendFile:
	default:
		return Config{}, fmt.Errorf("invalid STORE_BACKEND %q: valid values are %s, %s", storeBackend, StoreBackendGitHub, StoreBackendFile)
	}

	githubToken := strings.TrimSpace(getEnv("GITHUB_TOKEN", ""))
	githubRepo := strings.TrimSpace(getEnv("GITHUB_REPO", ""))
	githubMaxRetries, err := getEnvAsInt("GITHUB_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse GITHUB_MAX_RETRIES: %w", err)
	}
	if githubMaxRetries < 0 {
		return Config{}, fmt.Errorf("GITHUB_MAX_RETRIES must be >= 0")
	}
	fileStoreDir := strings.TrimSpace(getEnv("FILE_STORE_DIR", "./data"))
	if storeBackend == StoreBackendGitHub {
		if githubToken == "" {
			return Config{}, fmt.Errorf("GITHUB_TOKEN is required when STORE_BACKEND=github")
		}
		if githubRepo == "" {
			return Config{}, fmt.Errorf("GITHUB_REPO is required when STORE_BACKEND=github")
		}
	}
	if storeBackend == StoreBackendFile && fileStoreDir == "" {
		return Config{}, fmt.Errorf("FILE_STORE_DIR is required when STORE_BACKEND=file")
	}

	skySportsEnabled, err := strconv.ParseBool(getEnv("SKYSPORTS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SKYSPORTS_ENABLED: %w", err)
	}
	skySportsTimeout, err := time.ParseDuration(getEnv("SKYSPORTS_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SKYSPORTS_TIMEOUT: %w", err)
	}
	if skySportsTimeout <= 0 {
		return Config{}, fmt.Errorf("SKYSPORTS_TIMEOUT must be > 0")
	}
	skySportsMaxRetries, err := getEnvAsInt("SKYSPORTS_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SKYSPORTS_MAX_RETRIES: %w", err)
	}
	if skySportsMaxRetries < 0 {
		return Config{}, fmt.Errorf("SKYSPORTS_MAX_RETRIES must be >= 0")
	}
	skySportsCircuitEnabled, err := strconv.ParseBool(getEnv("SKYSPORTS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SKYSPORTS_CIRCUIT_ENABLED: %w", err)
	}
	skySportsCircuitFailureCount, err := getEnvAsInt("SKYSPORTS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SKYSPORTS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if skySportsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SKYSPORTS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	skySportsCircuitOpenTimeout, err := time.ParseDuration(getEnv("SKYSPORTS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SKYSPORTS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if skySportsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SKYSPORTS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	skySportsCircuitHalfOpenMaxReq, err := getEnvAsInt("SKYSPORTS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SKYSPORTS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if skySportsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SKYSPORTS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	corsAllowedOrigins := splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if len(corsAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	validationWorkers, err := getEnvAsInt("VALIDATION_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse VALIDATION_WORKERS: %w", err)
	}
	if validationWorkers < 1 {
		return Config{}, fmt.Errorf("VALIDATION_WORKERS must be >= 1")
	}

	return Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "standings-engine-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		CacheEnabled:   cacheEnabled,
		CacheTTL:       cacheTTL,
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		CORSAllowedOrigins: corsAllowedOrigins,

		StoreBackend:     storeBackend,
		GitHubToken:      githubToken,
		GitHubRepo:       githubRepo,
		GitHubBranch:     strings.TrimSpace(getEnv("GITHUB_BRANCH", "main")),
		GitHubBaseURL:    strings.TrimSpace(getEnv("GITHUB_API_BASE_URL", "")),
		GitHubMaxRetries: githubMaxRetries,
		FileStoreDir:     fileStoreDir,

		AbbreviationsPath: strings.TrimSpace(getEnv("ABBREVIATIONS_PATH", "")),

		SkySportsEnabled:               skySportsEnabled,
		SkySportsBaseURL:               strings.TrimSpace(getEnv("SKYSPORTS_BASE_URL", "https://www.skysports.com/football")),
		SkySportsTimeout:               skySportsTimeout,
		SkySportsMaxRetries:            skySportsMaxRetries,
		SkySportsCircuitEnabled:        skySportsCircuitEnabled,
		SkySportsCircuitFailureCount:   skySportsCircuitFailureCount,
		SkySportsCircuitOpenTimeout:    skySportsCircuitOpenTimeout,
		SkySportsCircuitHalfOpenMaxReq: skySportsCircuitHalfOpenMaxReq,

		ValidationWorkers: validationWorkers,
	}, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}
