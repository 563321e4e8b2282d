package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jroosing/forge/internal/api"
	"github.com/jroosing/forge/internal/config"
	"github.com/jroosing/forge/internal/eventsink"
	"github.com/jroosing/forge/internal/logging"
	"github.com/jroosing/forge/internal/statusmap"
	"github.com/jroosing/forge/internal/supervisor"
)

const defaultConfigPath = "forge.toml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// cliFlags holds parsed command-line flag values.
type cliFlags struct {
	configPath string
	jsonLogs   bool
	debug      bool
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.configPath, "config", defaultConfigPath, "Path to the forge TOML configuration file")
	flag.BoolVar(&f.jsonLogs, "json-logs", false, "Enable JSON structured logging")
	flag.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	flag.Parse()
	return f
}

func run() error {
	flags := parseFlags()

	level := "INFO"
	if flags.debug {
		level = "DEBUG"
	}
	format := "text"
	if flags.jsonLogs {
		format = "json"
	}
	logger := logging.Configure(logging.Config{
		Level:      level,
		Structured: flags.jsonLogs,
		Format:     format,
	})

	cfg, err := config.Load(flags.configPath, logger)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger.Info("forge starting",
		"config", flags.configPath,
		"endpoints", len(cfg.Endpoints),
		"addr", cfg.Server.Addr,
	)

	var sink eventsink.Sink
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		sqliteSink, err := eventsink.Open(dbURL)
		if err != nil {
			return fmt.Errorf("open event database: %w", err)
		}
		sink = sqliteSink
		logger.Info("event persistence enabled", "db", dbURL)
	} else {
		sink = eventsink.NewNoop()
		logger.Info("event persistence disabled, DATABASE_URL is unset")
	}
	defer sink.Close()

	status := statusmap.New()

	load := func() (*config.Config, error) {
		return config.Load(flags.configPath, logger)
	}
	sup := supervisor.New(load, sink, status, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := sup.Start(ctx, cfg); err != nil {
		return fmt.Errorf("start supervisor: %w", err)
	}

	apiSrv := api.New(cfg.Server.Addr, status, sink, sup, logger)
	logger.Info("read API starting", "addr", apiSrv.Addr())

	go func() {
		if serveErr := apiSrv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("read API server error", "err", serveErr)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("forge shutting down")

	sup.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("read API shutdown error", "err", err)
	}

	return nil
}
