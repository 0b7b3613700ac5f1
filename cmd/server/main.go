package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lk2023060901/myai/internal/conf"
	"github.com/lk2023060901/myai/internal/pkg/injector"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var configFile = pflag.StringP("config", "c", "", "config file path (defaults and MYAI_* env vars apply without one)")

func main() {
	pflag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&config.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()
	logger.SetGlobal(log)

	log.Info("config loaded successfully", zap.String("file", *configFile))

	app, cleanup, err := injector.InitializeApp(config, log)
	if err != nil {
		log.Fatal("failed to initialize application", zap.Error(err))
	}
	defer cleanup()

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), time.Minute)
	if err := app.SeedCatalog(seedCtx); err != nil {
		log.Error("catalog seed failed", zap.Error(err))
	}
	cancelSeed()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.HTTPServer.Start()
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()
	if err := app.HTTPServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
