// Serves the example portfolio behind a chi router with an API route.
// Run from the repository root with: go run ./example
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/3-lines-studio/folio"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg, err := folio.LoadConfig("example/portfolio.yaml")
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	app, err := folio.New(cfg, folio.WithLogger(logger), folio.WithMode(folio.ModeDev))
	if err != nil {
		logger.Error("failed to create app", "error", err)
		os.Exit(1)
	}
	defer func() { _ = app.Stop() }()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/works", func(w http.ResponseWriter, req *http.Request) {
		p, err := app.Portfolio()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, ref := range p.Images() {
			_, _ = w.Write([]byte(ref.String() + "\n"))
		}
	})

	handler := app.Wrap(r)

	addr := ":8080"
	logger.Info("serving example portfolio", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
