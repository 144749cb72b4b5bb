// main.go
//
// Entry point for the 2048 game server.
// Responsibilities:
//   - Load configuration (.env + environment) and set the log level.
//   - Open SQLite and apply the embedded migrations.
//   - Start the HTTP server with idle-session and rate-limiter sweepers.
//   - Shut down gracefully on SIGINT/SIGTERM.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/game2048/assets"
	"github.com/robalobadob/game2048/internal/config"
	"github.com/robalobadob/game2048/internal/database"
	"github.com/robalobadob/game2048/internal/httpserver"
	"github.com/robalobadob/game2048/internal/store"
)

func main() {
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	srv := httpserver.New(cfg, mem, db)

	go mem.RunSweeper(ctx, time.Minute, cfg.SessionTTL, func(n int) {
		log.Info().Int("dropped", n).Msg("swept idle sessions")
	})
	go func() {
		t := time.NewTicker(10 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				srv.Limiter().Sweep(cfg.RateLimitWindow * 2)
			}
		}
	}()

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("starting game2048 server")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
