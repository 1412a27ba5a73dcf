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

	"github.com/issuetracker/issue-tracker-backend/config"
	"github.com/issuetracker/issue-tracker-backend/internal/bootstrap"
	"github.com/issuetracker/issue-tracker-backend/internal/jobs"
	"github.com/issuetracker/issue-tracker-backend/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	lg := logger.New(cfg.App)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, lg)
	if err != nil {
		lg.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	defer closeStore()

	if spec := cfg.Jobs.StoreProbeSchedule; spec != "" {
		scheduler, err := jobs.NewScheduler(spec, store, lg)
		if err != nil {
			lg.Fatal().Err(err).Str("schedule", spec).Msg("invalid STORE_PROBE_SCHEDULE")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		Store:          store,
		Log:            lg,
		StoreTimeout:   cfg.Store.Timeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		StrictStatus:   cfg.Server.StrictStatus,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("port", cfg.Server.Port).Str("store", cfg.Store.Driver).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		lg.Info().Msg("shutting down...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error().Err(err).Msg("http server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("graceful shutdown failed")
	}
}
