// Package app assembles the service from config: database, repositories,
// provider clients, usecase services and the HTTP router.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/golazo-app/predictions-api/external/apisports"
	"github.com/golazo-app/predictions-api/external/wosti"
	"github.com/golazo-app/predictions-api/internal/config"
	"github.com/golazo-app/predictions-api/internal/infrastructure/account/supabase"
	"github.com/golazo-app/predictions-api/internal/infrastructure/repository/postgres"
	"github.com/golazo-app/predictions-api/internal/interfaces/httpapi"
	"github.com/golazo-app/predictions-api/internal/platform/cache"
	"github.com/golazo-app/predictions-api/internal/platform/id"
	"github.com/golazo-app/predictions-api/internal/platform/logging"
	"github.com/golazo-app/predictions-api/internal/platform/resilience"
	"github.com/golazo-app/predictions-api/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	idGen := id.NewRandomGenerator()
	matchRepo := postgres.NewMatchRepository(db, idGen)
	leagueRepo := postgres.NewLeagueRepository(db)
	syncLogRepo := postgres.NewSyncLogRepository(db)
	predictionRepo := postgres.NewPredictionRepository(db, idGen)
	popularRepo := postgres.NewPopularRepository(db)
	statsRepo := postgres.NewUserStatsRepository(db)

	fixturesProvider := apisports.NewClient(apisports.ClientConfig{
		BaseURL:    cfg.APISportsBaseURL,
		APIKey:     cfg.APISportsKey,
		Timeout:    cfg.APISportsTimeout,
		MaxRetries: cfg.APISportsMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APISportsCircuitEnabled,
			FailureThreshold: cfg.APISportsCircuitFailureCount,
			OpenTimeout:      cfg.APISportsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APISportsCircuitHalfOpenReq,
		},
	})
	popularProvider := wosti.NewClient(wosti.ClientConfig{
		BaseURL:    cfg.WostiBaseURL,
		APIKey:     cfg.WostiAPIKey,
		Timeout:    cfg.WostiTimeout,
		MaxRetries: cfg.WostiMaxRetries,
		Logger:     logger,
	})

	var memoryCache *cache.Store
	if cfg.CacheEnabled {
		memoryCache = cache.NewStore(cfg.CacheTTL)
	}

	matchSyncService := usecase.NewMatchSyncService(
		fixturesProvider, matchRepo, leagueRepo, syncLogRepo, logger,
		usecase.MatchSyncConfig{
			DailyLimit:  cfg.SyncDailyLimit,
			MinInterval: cfg.SyncMinInterval,
		},
	)
	popularService := usecase.NewPopularMatchesService(popularProvider, popularRepo, memoryCache, logger)
	predictionService := usecase.NewPredictionService(matchRepo, predictionRepo, logger)
	settlementService := usecase.NewSettlementService(matchRepo, predictionRepo, statsRepo, logger, cfg.SettlementWorkers)

	accountClient := supabase.NewClient(
		&http.Client{Timeout: cfg.SupabaseTimeout},
		cfg.SupabaseBaseURL,
		cfg.SupabaseAnonKey,
		slog.Default(),
	)

	handler := httpapi.NewHandler(matchSyncService, popularService, predictionService, settlementService, cfg.PruneRetentionDays, nil)
	router := httpapi.NewRouter(handler, accountClient, nil, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}
