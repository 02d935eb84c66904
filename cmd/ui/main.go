package main

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rkarimov/smart-traffic/internal/common/config"
	"github.com/rkarimov/smart-traffic/internal/common/crypto"
	commonhttp "github.com/rkarimov/smart-traffic/internal/common/http"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
	"github.com/rkarimov/smart-traffic/internal/common/server"
	"github.com/rkarimov/smart-traffic/internal/ui/client"
	"github.com/rkarimov/smart-traffic/internal/ui/session"
	"github.com/rkarimov/smart-traffic/internal/ui/web"
)

const serviceName = "ui"

func main() {
	_ = godotenv.Load()

	cfg := config.LoadUIConfig()

	appLog, err := logger.New(cfg.Logging.Dir, serviceName, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("ui service: failed to initialize logger: %v", err)
	}

	sessions := session.NewStore(cfg.RedisAddr, cfg.RedisPassword, crypto.NewUUIDGenerator())
	if err := sessions.Ping(context.Background()); err != nil {
		appLog.Fatalf("redis unavailable at %s: %v", cfg.RedisAddr, err)
	}

	api := client.New(cfg.TrafficAPIURL, cfg.IncidentAPIURL, cfg.RequestTimeout)

	handler, err := web.NewHandler(api, sessions, appLog)
	if err != nil {
		appLog.Fatalf("failed to build web handler: %v", err)
	}

	r := chi.NewRouter()
	r.Get("/health", commonhttp.HealthHandler())
	r.Handle("/metrics", promhttp.Handler())
	handler.Mount(r)

	srv := server.New(cfg.HTTPPort, commonhttp.BuildBaseHandler(serviceName, appLog, r))
	server.Run(srv, appLog, serviceName, func(ctx context.Context) error {
		return sessions.Close()
	})
}
