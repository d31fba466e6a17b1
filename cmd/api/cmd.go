package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/quality-dashboard/internal/bootstrap"
	"github.com/GregMSThompson/quality-dashboard/internal/composer"
	"github.com/GregMSThompson/quality-dashboard/internal/config"
	"github.com/GregMSThompson/quality-dashboard/internal/handlers"
	"github.com/GregMSThompson/quality-dashboard/internal/response"
	"github.com/GregMSThompson/quality-dashboard/internal/router"
	"github.com/GregMSThompson/quality-dashboard/internal/services"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// services
	dserv, err := services.NewDashboardService(services.DashboardServiceConfig{
		Source:      bs.Source,
		Catalog:     composer.DefaultCatalog(),
		Layouts:     bs.Layouts,
		Preset:      cfg.DefaultPreset,
		SessionTTL:  cfg.SessionTTL,
		LoadTimeout: cfg.LoadTimeout,
	})
	exitOnError("dashboard service init failed", err, bs.Log)
	go dserv.Start()
	defer dserv.Stop()

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.DashboardSvc = dserv

	// router
	r := router.NewRouter(deps)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Error("server shutdown failed", "error", err)
		}
	}()

	bs.Log.Info("server listening", "addr", srv.Addr)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	exitOnError("server start failed", err, bs.Log)
	dserv.Wait()
}
