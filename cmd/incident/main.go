package main

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rkarimov/smart-traffic/internal/common/config"
	"github.com/rkarimov/smart-traffic/internal/common/db"
	commonhttp "github.com/rkarimov/smart-traffic/internal/common/http"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
	"github.com/rkarimov/smart-traffic/internal/common/server"
	incidenthttp "github.com/rkarimov/smart-traffic/internal/incidents/http"
	"github.com/rkarimov/smart-traffic/internal/incidents/repository"
	incidentmigrations "github.com/rkarimov/smart-traffic/internal/migrations/incident"
)

const serviceName = "incident"

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadIncidentConfig()
	if err != nil {
		log.Fatalf("incident service: invalid configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Logging.Dir, serviceName, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("incident service: failed to initialize logger: %v", err)
	}

	ctx := context.Background()

	if err := db.Migrate(ctx, cfg.DatabaseURL, incidentmigrations.Migrations); err != nil {
		appLog.Fatalf("migrations failed: %v", err)
	}

	pool, err := db.NewPool(ctx, appLog, cfg.DatabaseURL, serviceName)
	if err != nil {
		appLog.Fatalf("database unavailable: %v", err)
	}
	defer pool.Close()

	handler := incidenthttp.NewHandler(repository.NewPgRepository(pool), appLog)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", commonhttp.HealthHandler())
	r.Handle("/metrics", promhttp.Handler())
	handler.Mount(r)

	srv := server.New(cfg.HTTPPort, commonhttp.BuildBaseHandler(serviceName, appLog, r))
	server.Run(srv, appLog, serviceName, func(ctx context.Context) error {
		pool.Close()
		return nil
	})
}
