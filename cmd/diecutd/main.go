package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maax3v3/diecut"
	"github.com/maax3v3/diecut/internal/cli"
	"github.com/maax3v3/diecut/internal/gallery"
	"github.com/maax3v3/diecut/internal/generator"
	"github.com/maax3v3/diecut/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := cli.ParseServe(os.Args[1:], os.Stderr, nil)
	if errors.Is(err, cli.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cli.ServeConfig, logger *slog.Logger) error {
	gen, err := generator.NewGemini(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return err
	}

	opts := diecut.DefaultOptions()
	opts.TargetColor = diecut.Color{R: cfg.Target.R, G: cfg.Target.G, B: cfg.Target.B, A: cfg.Target.A}
	opts.Tolerance = cfg.Tolerance
	remover := gallery.RemoverFunc(func(ctx context.Context, src string) (string, error) {
		return diecut.RemoveBackground(ctx, src, opts)
	})

	srv := server.New(server.Config{
		Store:     gallery.NewStore(remover),
		Generator: gen,
		Remover:   remover,
		Logger:    logger,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "model", cfg.Model)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return httpSrv.Shutdown(shutdownCtx)
}
