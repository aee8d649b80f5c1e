package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cryptrend/analytics/internal/api"
	"github.com/cryptrend/analytics/internal/config"
	"github.com/cryptrend/analytics/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("Starting cryptrend query API...")

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

	queryStore := storage.NewQueryStore(db)

	apiCfg := &api.ServerConfig{
		Port:         cfg.API.Port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		CORSOrigins:  cfg.API.CORSOrigins,
	}
	server := api.NewServer(apiCfg, queryStore)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("query API server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("query API server shutdown error")
	}

	log.Info().Msg("cryptrend query API stopped")
}
