package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"vaxreg/internal/bootstrap"
	"vaxreg/internal/platform/config"
	"vaxreg/internal/platform/httpserver"
	"vaxreg/internal/platform/logger"
	httpmetrics "vaxreg/internal/platform/metrics"
	"vaxreg/internal/vaccination/handler"
	"vaxreg/pkg/platform/middleware/requestid"
	"vaxreg/pkg/platform/middleware/requesttime"
)

// main wires the registry, its reminder scheduler and the HTTP API, and
// keeps them running until SIGINT or SIGTERM.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("closing resources", "error", err)
		}
	}()

	srv := httpserver.New(cfg.Server.Addr, newRouter(app, log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout, log)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Reminder.ShutdownTimeout)
		defer cancel()
		return app.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newRouter(app *bootstrap.App, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(httpmetrics.New().Middleware)

	handler.New(app.Registry, log).Register(r)
	r.Get("/audit", handleAudit(app.Audit))
	r.Handle("/metrics", promhttp.Handler())
	return r
}
