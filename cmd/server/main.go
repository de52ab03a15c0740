package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-agent/internal/adapter/httpapi"
	"finance-agent/internal/application/port/output"
	"finance-agent/internal/di"
	"finance-agent/internal/infrastructure/config"
	"finance-agent/internal/infrastructure/env"

	"github.com/jessevdk/go-flags"
)

type options struct {
	Config string `short:"f" long:"config" description:"YAML config path (defaults to $CONFIG_FILE or ./config.yaml)"`
	Port   string `short:"p" long:"port" description:"listen port, overrides $PORT"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	envService := env.NewEnvService()
	path := opts.Config
	if path == "" {
		path = envService.Get("CONFIG_FILE")
	}
	cfg, err := config.Load(path, envService)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if opts.Port != "" {
		cfg.Server.Port = opts.Port
	}
	if err := cfg.ValidateLimits(); err != nil {
		log.Fatalf("config: %v", err)
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer container.Close()

	for _, name := range cfg.MissingSecrets() {
		container.Logger.Warn("API key not set, analysis requests will fail", "key", name)
	}

	api := httpapi.NewServer(container.Analyzer, container.Tools, container.Probe, container.Logger, httpapi.Config{
		RequestTimeout: cfg.Server.RequestTimeout(),
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		AccessLog:      true,
		LLMKeySet:      cfg.LLM.APIKey != "",
		FMPKey:         cfg.MarketData.APIKey,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Server.Port),
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout() + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	container.Logger.Info("Starting server", "model", cfg.LLM.Model, "maxIterations", cfg.Agent.MaxIterations)
	if err := serve(ctx, srv, container.Logger); err != nil {
		container.Logger.Error("Server failed", "error", err)
		container.Close()
		os.Exit(1)
	}
}

// serve runs srv until ctx is done, then shuts it down gracefully. A listen
// failure is returned as is.
func serve(ctx context.Context, srv *http.Server, logger output.LoggerPort) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
