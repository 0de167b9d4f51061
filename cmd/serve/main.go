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

	"github.com/3-lines-studio/folio"
	"github.com/3-lines-studio/folio/internal/adapters/cli"
	"github.com/3-lines-studio/folio/internal/adapters/env"
	"github.com/3-lines-studio/folio/internal/config"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--help" || os.Args[1] == "-h") {
		printUsage()
		os.Exit(0)
	}

	arg := env.Lookup(env.ConfigVar, "")
	if len(os.Args) > 1 {
		arg = os.Args[1]
	}
	configPath := config.ResolvePath(arg)

	output := cli.NewOutput()
	mode := env.DetectMode()

	level := slog.LevelInfo
	if mode == folio.ModeDev {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		output.PrintHeader("Folio Serve")
		output.PrintError("%v", err)
		os.Exit(1)
	}

	opts := []folio.Option{folio.WithLogger(logger), folio.WithMode(mode)}
	if mode == folio.ModeDev {
		opts = append(opts, folio.WithReload(configPath))
	}

	app, err := folio.New(cfg, opts...)
	if err != nil {
		output.PrintHeader("Folio Serve")
		output.PrintError("%v", err)
		os.Exit(1)
	}
	defer func() { _ = app.Stop() }()

	addr := env.Lookup(env.AddrVar, cfg.Server.Addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	output.PrintHeader("Folio Serve")
	output.PrintSuccess("Serving %s on %s (%s mode)", cfg.Artist.Name, addr, mode)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			output.PrintError("Server failed: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			output.PrintError("Shutdown failed: %v", err)
			os.Exit(1)
		}
	}
}

func printUsage() {
	output := cli.NewOutput()
	output.PrintHeader("Folio Serve")
	fmt.Println()
	fmt.Println("Usage: folio-serve [project-dir | config-file]")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Printf("  %s=1        Dev mode: reload config per request, show error details\n", env.DevVar)
	fmt.Printf("  %s=:8080   Listen address (overrides server.addr)\n", env.AddrVar)
	fmt.Printf("  %s=...   Config file when no argument is given\n", env.ConfigVar)
}
