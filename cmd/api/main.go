package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"innospark/internal/catalog"
	"innospark/internal/domain"
	"innospark/internal/http/handlers"
	httpapi "innospark/internal/http/httpapi"
	"innospark/internal/infra"
	"innospark/internal/infra/geoip"
	"innospark/internal/metrics"
	"innospark/internal/providers/projectstore"
	"innospark/internal/providers/suggest"
	"innospark/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	started := time.Now()
	seed, err := catalog.Load(started)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load seed catalog")
	}
	if cfg.CatalogDemoProjects > 0 {
		demo := catalog.DemoProjects(cfg.CatalogDemoProjects, started.UnixNano(), catalog.DemoOwner(seed.Users), started)
		seed.Projects = append(seed.Projects, demo...)
		logger.Info().Int("count", len(demo)).Msg("demo projects added to catalog")
	}

	ctx := context.Background()
	store, closeStore, err := openProjectStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.ProjectStore).Msg("failed to open project store")
	}
	defer closeStore()

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	sessions := session.NewManager(seed, session.Options{
		Store:        store,
		StoreTimeout: cfg.StoreTimeout,
		Locale:       cfg.DefaultLocale,
		Logger:       logger,
	}, cfg.SessionIdle)
	if err := sessions.Start(cfg.SweepSchedule); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.SweepSchedule).Msg("invalid sweep schedule")
	}

	app := handlers.NewApp(cfg, logger, sessions, store, newAssistant(cfg, logger))
	router := httpapi.NewRouter(app, cfg, logger, resolver.Lookup())
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("store", cfg.ProjectStore).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	sessions.Stop(shutdownCtx)
	logger.Info().Msg("server stopped")
}

func openProjectStore(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (domain.ProjectRepository, func(), error) {
	switch cfg.ProjectStore {
	case projectstore.KindSupabase:
		store, err := projectstore.NewSupabase(projectstore.SupabaseOptions{
			ProjectURL: cfg.SupabaseURL,
			APIKey:     cfg.SupabaseAnonKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case projectstore.KindPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		store, err := projectstore.NewPostgres(infra.NewSQLRunner(pool, logger))
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		return projectstore.NewMemory(), func() {}, nil
	}
}

func newAssistant(cfg *infra.Config, logger zerolog.Logger) suggest.Assistant {
	if cfg.GeminiAPIKey == "" {
		return suggest.NewStaticAssistant()
	}
	assistant, err := suggest.NewGeminiAssistant(suggest.GeminiOptions{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		OnFallback: func(reason string, err error) {
			metrics.RecordSuggestFallback(reason)
			logger.Warn().Err(err).Str("reason", reason).Msg("suggestion fell back to static answer")
		},
	})
	if err != nil {
		logger.Warn().Err(err).Msg("gemini disabled")
		return suggest.NewStaticAssistant()
	}
	return assistant
}
