package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"guardianrx/m/internal/api"
	"guardianrx/m/internal/config"
	"guardianrx/m/internal/logger"
	"guardianrx/m/internal/metrics"
	"guardianrx/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	slogger := logger.New(cfg.Env)

	st, err := store.Open(cfg.DatabaseDSN, slogger)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	handler := api.New(st, cfg.Secret, slogger, nil)

	janitor := api.NewJanitor(handler, cfg.SessionTimeout, cfg.SessionInterval)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go janitor.Run(ctx)

	root := chi.NewRouter()
	root.Handle("/metrics", metrics.Handler())
	root.Mount("/", handler.Router())

	slogger.Info("GuardianRx server starting", "port", cfg.HTTPPort, "env", cfg.Env)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, root); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
