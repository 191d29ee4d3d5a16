package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/spotlight/internal/adapters/http"
	"github.com/dkeye/spotlight/internal/app"
	"github.com/dkeye/spotlight/internal/app/orch"
	"github.com/dkeye/spotlight/internal/config"
	"github.com/dkeye/spotlight/internal/journal"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}

	opts := orch.Options{
		Codes:     app.NewCodeGenerator(),
		Selection: app.SelectionPolicyFor(cfg.SelectionMode),
		Policy:    app.SimplePolicy{},
	}
	var reader router.JournalReader
	var store *journal.Store
	if cfg.JournalPath != "" {
		store, err = journal.Open(cfg.JournalPath, 256)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.JournalPath).Msg("failed to open journal")
		}
		opts.Journal = store
		reader = store
	}
	o := orch.New(opts)

	r := router.SetupRouter(ctx, cfg, o, reader)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Str("selection_mode", cfg.SelectionMode).Msg("Spotlight server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if store != nil {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("journal close")
		}
	}
	log.Info().Msg("Server exited gracefully")
}
