// Command mimerender-example serves the hello-world greeting in whatever
// representation the client asks for.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/illuscio-dev/mimerender-go/config"
	"github.com/illuscio-dev/mimerender-go/observability"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "mimerender-example:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts := ParseFlags(args)

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		settings.Addr = opts.Addr
	}

	logger, err := observability.SetupLogger(settings.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	mux, err := newMux(settings, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              settings.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", settings.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if xerrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
