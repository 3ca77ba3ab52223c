package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/af-corp/bughunt-backend/internal/relay"
)

func main() {
	listenAddr := flag.String("listen", ":8090", "address to listen on")
	askURL := flag.String("backend", "", "backend /ask endpoint URL")
	timeout := flag.Duration("timeout", 10*time.Second, "backend request timeout")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	backend := *askURL
	if backend == "" {
		backend = os.Getenv("BUGHUNT_ASK_URL")
	}
	if backend == "" {
		logger.Error("no backend configured, set -backend or BUGHUNT_ASK_URL")
		os.Exit(1)
	}

	handler := relay.NewHandler(backend, *timeout, logger)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Post("/", handler.Invoke)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	logger.Info("relay listening", "addr", *listenAddr, "backend", backend)
	if err := http.ListenAndServe(*listenAddr, r); err != nil {
		logger.Error("relay stopped", "error", err)
		os.Exit(1)
	}
}
