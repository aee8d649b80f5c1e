package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cryptrend/analytics/internal/config"
	"github.com/cryptrend/analytics/internal/orchestrator"
	"github.com/cryptrend/analytics/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("Starting cryptrend analyzer...")

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load config, using defaults")
		cfg = config.DefaultConfig()
	}
	if cfg.Analysis.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	pgCfg := &storage.PostgresConfig{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxConns:        cfg.Postgres.MaxConns,
		MaxIdle:         cfg.Postgres.MaxIdle,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}

	db, err := storage.NewPostgresDB(pgCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer db.Close()

	if err := storage.MigratePostgres(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	store := storage.NewStore(db)

	orchCfg := orchestrator.Config{
		Mode:            cfg.Analysis.Mode,
		WorkerCount:     cfg.Analysis.WorkerCount,
		BarLookbackDays: cfg.Analysis.BarLookbackDays,
		DedupeWindow:    cfg.Analysis.DedupeWindow,
		IndicatorConfig: cfg.Indicators.ToIndicatorsConfig(),
	}
	orch := orchestrator.New(store, orchCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("mode", cfg.Analysis.Mode).Msg("running analysis pass")
	if err := orch.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("analysis run failed")
	}

	log.Info().Msg("cryptrend analyzer finished")
}
