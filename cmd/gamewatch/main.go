// main is the entry point of the GameWatch bot.
// It initializes the configuration, logger, snapshot source and Discord sink,
// optionally starts the query API and runs the reconcile loop until interrupted.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/gamewatch/internal/catalog"
	"github.com/woozymasta/gamewatch/internal/config"
	"github.com/woozymasta/gamewatch/internal/logger"
	"github.com/woozymasta/gamewatch/internal/maintenance"
	"github.com/woozymasta/gamewatch/internal/notify"
	"github.com/woozymasta/gamewatch/internal/reconcile"
	"github.com/woozymasta/gamewatch/internal/render"
	"github.com/woozymasta/gamewatch/internal/server"
	"github.com/woozymasta/gamewatch/internal/source"
	"github.com/woozymasta/gamewatch/internal/validator"
	"github.com/woozymasta/gamewatch/internal/vars"
)

func main() {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)
	log.Info().Str("version", vars.Version).Msg("Starting gamewatch...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	types, err := catalog.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load game types")
	}

	ban, err := validator.LoadBanList(cfg.Validator.BanList)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load ban list")
	}
	v := validator.New(ban)

	var src source.Source = source.NewCommand(cfg.Snapshot)
	if cfg.Snapshot.Fake > 0 {
		log.Warn().Int("games", cfg.Snapshot.Fake).Msg("Using generated snapshots")
		src = source.NewFake(cfg.Snapshot.Fake, time.Now().UnixNano())
	}

	if maintenance.Run(ctx, cfg, src, v, os.Stdout) {
		return
	}

	loop := reconcile.New(src, v, notify.NewDiscord(cfg.Discord), render.New(types, cfg.Reconcile.TTL), cfg.Reconcile)

	var httpServer *http.Server
	if cfg.Server.Address != "" {
		api := server.New(cfg.Server)
		defer api.Stop()

		loop.AddPresence(api)
		loop.SetObserver(api)

		httpServer = &http.Server{
			Addr:         cfg.Server.Address,
			Handler:      api.Run(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			log.Info().Str("address", cfg.Server.Address).Msg("Query API listening")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Query API failed")
			}
		}()
	}

	if err := loop.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Reconcile loop failed")
	}

	log.Info().Msg("Shutting down...")

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Query API forced to shutdown")
		}
	}

	log.Info().Msg("Bot exited")
}
