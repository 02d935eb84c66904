package main

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rkarimov/smart-traffic/internal/common/config"
	commonhttp "github.com/rkarimov/smart-traffic/internal/common/http"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
	"github.com/rkarimov/smart-traffic/internal/common/server"
	signalhttp "github.com/rkarimov/smart-traffic/internal/signal/http"
	"github.com/rkarimov/smart-traffic/internal/signal/service"
	"github.com/rkarimov/smart-traffic/internal/signal/ws"
)

const serviceName = "signal"

func main() {
	_ = godotenv.Load()

	cfg := config.LoadSignalConfig()

	appLog, err := logger.New(cfg.Logging.Dir, serviceName, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("signal service: failed to initialize logger: %v", err)
	}

	board := service.NewBoard(service.DefaultSeed())
	hub := ws.NewHub(appLog)
	handler := signalhttp.NewHandler(board, hub, appLog)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", commonhttp.HealthHandler())
	r.Handle("/metrics", promhttp.Handler())
	handler.Mount(r)

	srv := server.New(cfg.HTTPPort, commonhttp.BuildBaseHandler(serviceName, appLog, r))
	server.Run(srv, appLog, serviceName, func(ctx context.Context) error {
		hub.Close()
		return nil
	})
}
