package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nickgeorgouses/note-app/internal/common/bootstrap"
	"github.com/nickgeorgouses/note-app/internal/common/config"
	"github.com/nickgeorgouses/note-app/internal/common/constants"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
	srv "github.com/nickgeorgouses/note-app/internal/common/server"
)

func main() {
	cfg, err := config.LoadNotesConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogDir, bootstrap.ServiceName, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	app, err := bootstrap.NewApp(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	serverConfig := srv.DefaultConfig(cfg.HTTPPort, cfg.RequestTimeout)
	server := srv.New(serverConfig, app.Handler)

	if err := srv.StartWithGracefulShutdownAndHooks(server, serverConfig, log, bootstrap.ServiceName, app.ShutdownHooks()); err != nil {
		log.Fatalf("%v", err)
	}
}
