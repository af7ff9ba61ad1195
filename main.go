package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Gin_postgres_redis_device_rental/app"
	"Gin_postgres_redis_device_rental/config"
	"Gin_postgres_redis_device_rental/logger"
	"Gin_postgres_redis_device_rental/routes"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	config.LoadEnv()

	defaultPath := os.Getenv("CONFIG_FILE")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}
	cfgPath := flag.String("config", defaultPath, "path to the YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("init", zap.Error(err))
	}
	defer application.Close()

	if _, err := app.BootstrapInventory(ctx, cfg.Inventory.Devices, application.Devices, zl); err != nil {
		zl.Error("inventory bootstrap", zap.Error(err))
	}

	routes.RegisterRoutes(application.Router, application)
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           application.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Reminders.Enabled {
		g.Go(func() error { return application.Scheduler.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		zl.Error("stopped with error", zap.Error(err))
		return
	}
	zl.Info("bye")
}
