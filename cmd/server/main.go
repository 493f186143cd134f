package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freedom_case_2/callemail/internal/config"
	"github.com/freedom_case_2/callemail/internal/db"
	httpapi "github.com/freedom_case_2/callemail/internal/http"
	"github.com/freedom_case_2/callemail/internal/refdata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "callemail-intake").Logger()

	ctx := context.Background()
	repo, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open repository")
	}
	defer repo.Close()
	if cfg.DatabaseURL == "" {
		logger.Warn().Msg("DATABASE_URL not set, records are kept in memory")
	}

	refs, err := refdata.Load(cfg.ReferenceDataPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load reference data")
	}

	router := httpapi.Router(cfg, repo, refs, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
