package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/acordafut/standings-engine/external/skysports"
	"github.com/acordafut/standings-engine/internal/config"
	"github.com/acordafut/standings-engine/internal/domain/league"
	"github.com/acordafut/standings-engine/internal/domain/result"
	"github.com/acordafut/standings-engine/internal/domain/standings"
	"github.com/acordafut/standings-engine/internal/infrastructure/tablestore"
	"github.com/acordafut/standings-engine/internal/infrastructure/teamdata"
	"github.com/acordafut/standings-engine/internal/interfaces/httpapi"
	"github.com/acordafut/standings-engine/internal/platform/cache"
	"github.com/acordafut/standings-engine/internal/platform/logging"
	"github.com/acordafut/standings-engine/internal/platform/resilience"
	"github.com/acordafut/standings-engine/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	abbrs, err := teamdata.Load(cfg.AbbreviationsPath)
	if err != nil {
		return nil, fmt.Errorf("load team abbreviations: %w", err)
	}
	parser := result.NewParser(abbrs)
	leagues := league.DefaultRegistry()

	store, err := newTableStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build table store: %w", err)
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	var fetcher usecase.ReferenceFetcher = disabledFetcher{}
	if cfg.SkySportsEnabled {
		fetcher = skysports.NewClient(skysports.ClientConfig{
			BaseURL:    cfg.SkySportsBaseURL,
			Timeout:    cfg.SkySportsTimeout,
			MaxRetries: cfg.SkySportsMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.SkySportsCircuitEnabled,
				FailureThreshold: cfg.SkySportsCircuitFailureCount,
				OpenTimeout:      cfg.SkySportsCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.SkySportsCircuitHalfOpenMaxReq,
			},
		})
	}

	resultSvc := usecase.NewResultService(parser, logger)
	updateSvc := usecase.NewUpdateService(leagues, parser, store, cacheStore, logger)
	validationSvc := usecase.NewValidationService(leagues, store, fetcher, cacheStore, logger, cfg.ValidationWorkers)

	handler := httpapi.NewHandler(leagues, resultSvc, updateSvc, validationSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func newTableStore(cfg config.Config, logger *logging.Logger) (standings.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendGitHub:
		return tablestore.NewGitHubStore(tablestore.GitHubStoreConfig{
			BaseURL:    cfg.GitHubBaseURL,
			Token:      cfg.GitHubToken,
			Repo:       cfg.GitHubRepo,
			Branch:     cfg.GitHubBranch,
			MaxRetries: cfg.GitHubMaxRetries,
			Logger:     logger,
		})
	case config.StoreBackendFile:
		return tablestore.NewFileStore(cfg.FileStoreDir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// disabledFetcher stands in when the reference source is switched off so
// comparison endpoints answer with a clean dependency error instead of a nil
// dereference.
type disabledFetcher struct{}

func (disabledFetcher) Fetch(context.Context, string) ([]usecase.ReferenceRow, error) {
	return nil, fmt.Errorf("%w: reference source is disabled", usecase.ErrDependencyUnavailable)
}
