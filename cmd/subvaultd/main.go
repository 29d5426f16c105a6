// Command subvaultd runs the subtitle daemon: it owns the subtitle store and
// serves the HTTP API the CLI and chat bot talk to.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"subvault/internal/config"
	"subvault/internal/daemon"
	"subvault/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, configPath, usedDefault, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if usedDefault {
		logger.Info("no config file found, using defaults")
	} else {
		logger.Info("loaded configuration", logging.String("path", configPath))
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("subvaultd shutting down")
}
