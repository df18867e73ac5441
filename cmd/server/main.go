package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/morthond/wotr-ladder/internal/cardgame"
	"github.com/morthond/wotr-ladder/internal/config"
	"github.com/morthond/wotr-ladder/internal/rating"
	"github.com/morthond/wotr-ladder/internal/reconcile"
	"github.com/morthond/wotr-ladder/internal/schema"
	"github.com/morthond/wotr-ladder/internal/store"
	"github.com/morthond/wotr-ladder/internal/wotr"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	db, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	engine, err := rating.NewEngine(rating.Default())
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := logrus.New()
	rec := reconcile.New(db, engine, cfg.BatchSize, logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newRouter(rec),
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	fmt.Printf("Ladder reconciler listening on http://localhost:%s\n", cfg.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}
	log.Println("Server stopped")
}

func newRouter(rec *reconcile.Reconciler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Batch trigger. The host scheduler posts here; one batch runs per
	// request, synchronously.
	r.Post("/reconcile/{game}", func(w http.ResponseWriter, req *http.Request) {
		g, ok := gameByName(chi.URLParam(req, "game"))
		if !ok {
			http.Error(w, "unknown game", http.StatusNotFound)
			return
		}

		summary, err := rec.Run(req.Context(), g)
		if err != nil {
			status := http.StatusInternalServerError
			var verr *schema.ValidationError
			if errors.As(err, &verr) {
				status = http.StatusUnprocessableEntity
			}
			http.Error(w, err.Error(), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	})

	return r
}

func gameByName(name string) (reconcile.Game, bool) {
	switch name {
	case "wotr":
		return wotr.New(), true
	case "cardgame":
		return cardgame.New(), true
	}
	return nil, false
}
