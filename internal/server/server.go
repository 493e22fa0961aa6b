// Package server boots the whole application: configuration, database,
// cache, storage, websocket hub, scheduler, gRPC health endpoint and the
// HTTP server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lidosole/lidosole/app/jobs"
	"github.com/lidosole/lidosole/app/routes"
	"github.com/lidosole/lidosole/config"
	"github.com/lidosole/lidosole/pkg/cache"
	"github.com/lidosole/lidosole/pkg/database"
	"github.com/lidosole/lidosole/pkg/logger"
	"github.com/lidosole/lidosole/pkg/metrics"
	"github.com/lidosole/lidosole/pkg/middleware"
	"github.com/lidosole/lidosole/pkg/reqid"
	"github.com/lidosole/lidosole/pkg/router"
	"github.com/lidosole/lidosole/pkg/rpc"
	"github.com/lidosole/lidosole/pkg/schedule"
	"github.com/lidosole/lidosole/pkg/storage"
	"github.com/lidosole/lidosole/pkg/ws"
)

const shutdownGrace = 15 * time.Second

// Start runs the server until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}

	redis, err := cache.Connect()
	if err != nil {
		logger.Warn("server: redis unavailable, caching disabled", "error", err)
	}

	disks := storage.Connect()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	r := router.New()
	r.Use(
		reqid.Middleware(),
		metrics.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(120, time.Minute),
	)
	if err := routes.RegisterAPI(r, routes.Deps{
		DB:    db,
		Cache: redis,
		Disk:  disks.Default(),
		Hub:   hub,
	}); err != nil {
		return err
	}

	jobs.Register(db)
	schedule.Start(ctx)

	health, err := rpc.Start(config.GRPCPort())
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "port", config.AppPort(), "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		health.Stop()
		return err
	case sig := <-stop:
		logger.Info("server: shutting down", "signal", sig.String())
	}

	health.SetNotServing()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: shutdown", "error", err)
	}
	health.Stop()

	logger.Info("server: stopped")
	return nil
}
