package main

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/rkarimov/smart-traffic/internal/auth/http"
	"github.com/rkarimov/smart-traffic/internal/auth/repository"
	"github.com/rkarimov/smart-traffic/internal/auth/service"
	"github.com/rkarimov/smart-traffic/internal/auth/token"
	"github.com/rkarimov/smart-traffic/internal/common/clock"
	"github.com/rkarimov/smart-traffic/internal/common/config"
	"github.com/rkarimov/smart-traffic/internal/common/crypto"
	"github.com/rkarimov/smart-traffic/internal/common/db"
	commonhttp "github.com/rkarimov/smart-traffic/internal/common/http"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
	"github.com/rkarimov/smart-traffic/internal/common/server"
	trafficmigrations "github.com/rkarimov/smart-traffic/internal/migrations/traffic"
	zoneshttp "github.com/rkarimov/smart-traffic/internal/zones/http"
	zonesrepo "github.com/rkarimov/smart-traffic/internal/zones/repository"
	zonesservice "github.com/rkarimov/smart-traffic/internal/zones/service"
)

const serviceName = "traffic"

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadTrafficConfig()
	if err != nil {
		log.Fatalf("traffic service: invalid configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Logging.Dir, serviceName, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("traffic service: failed to initialize logger: %v", err)
	}

	ctx := context.Background()

	if err := db.Migrate(ctx, cfg.DatabaseURL, trafficmigrations.Migrations); err != nil {
		appLog.Fatalf("migrations failed: %v", err)
	}

	pool, err := db.NewPool(ctx, appLog, cfg.DatabaseURL, serviceName)
	if err != nil {
		appLog.Fatalf("database unavailable: %v", err)
	}
	defer pool.Close()

	clk := clock.NewRealClock()
	tokenCfg := token.Config{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.AccessTokenTTL,
	}

	auth := service.NewAuthService(
		repository.NewPgUserRepository(pool),
		&crypto.BcryptHasher{},
		crypto.NewUUIDGenerator(),
		token.NewIssuer(tokenCfg, clk),
		token.NewVerifier(tokenCfg, clk),
		clk,
		appLog,
	)
	zones := zonesservice.NewZoneService(zonesrepo.NewPgRepository(pool), appLog)

	authHandler := authhttp.NewHandler(auth, appLog)
	zonesHandler := zoneshttp.NewHandler(zones, appLog)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Get("/health", commonhttp.HealthHandler())
	r.Handle("/metrics", promhttp.Handler())

	authHandler.Mount(r)
	r.Group(func(r chi.Router) {
		r.Use(authhttp.RequireUser(auth, appLog), authhttp.RequireActiveUser(appLog))
		zonesHandler.Mount(r)
	})

	handler := commonhttp.BuildBaseHandler(serviceName, appLog, r)

	srv := server.New(cfg.HTTPPort, handler)
	server.Run(srv, appLog, serviceName, func(ctx context.Context) error {
		pool.Close()
		return nil
	})
}
