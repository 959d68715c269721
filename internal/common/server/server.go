package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/nickgeorgouses/note-app/internal/common/logger"
)

type ShutdownHook func(ctx context.Context) error

// StartWithGracefulShutdownAndHooks serves until SIGINT or SIGTERM, then drains and runs hooks.
func StartWithGracefulShutdownAndHooks(
	server *http.Server,
	cfg Config,
	log *logger.Logger,
	serviceName string,
	hooks []ShutdownHook,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	}
	return Serve(ctx, server, listener, cfg, log, serviceName, hooks)
}

// Serve runs server on listener until ctx is done. A listener failure is returned as is;
// a cancelled ctx leads to an orderly shutdown.
func Serve(
	ctx context.Context,
	server *http.Server,
	listener net.Listener,
	cfg Config,
	log *logger.Logger,
	serviceName string,
	hooks []ShutdownHook,
) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Infof("%s listening on http://localhost%s", serviceName, displayAddr(listener))
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			runHooks(context.Background(), log, serviceName, hooks)
			return fmt.Errorf("%s server failed: %w", serviceName, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infof("shutting down %s...", serviceName)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	server.SetKeepAlivesEnabled(false)
	shutdownErr := server.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		log.Errorf("%s forced to shutdown: %v", serviceName, shutdownErr)
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.DrainTimeout)
	defer drainCancel()
	runHooks(drainCtx, log, serviceName, hooks)

	if shutdownErr == nil {
		log.Infof("%s stopped gracefully", serviceName)
	}
	return shutdownErr
}

func runHooks(ctx context.Context, log *logger.Logger, serviceName string, hooks []ShutdownHook) {
	for i, hook := range hooks {
		if err := hook(ctx); err != nil {
			log.Errorf("%s: shutdown hook %d failed: %v", serviceName, i, err)
		}
	}
}

func displayAddr(listener net.Listener) string {
	if tcp, ok := listener.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf(":%d", tcp.Port)
	}
	return listener.Addr().String()
}
