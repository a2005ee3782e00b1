package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-growth/auth"
	"github.com/diewo77/go-growth/internal/billing"
	"github.com/diewo77/go-growth/internal/config"
	"github.com/diewo77/go-growth/internal/db"
	"github.com/diewo77/go-growth/internal/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	logger.SetGlobal(log)
	ctx := log.WithContext(context.Background())

	dbConn, err := db.Connect(ctx, cfg.Database, cfg.App.Dev)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(dbConn); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("migrations completed")
		return
	}

	if *seedOnlyFlag {
		if err := db.Seed(ctx, dbConn, cfg.Admin); err != nil {
			log.Fatal().Err(err).Msg("seeding failed")
		}
		log.Info().Msg("seeding completed")
		return
	}

	if cfg.App.Migrations || cfg.Database.Driver == "sqlite" {
		if err := db.Migrate(dbConn); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("migrations completed")
	}
	if err := db.Seed(ctx, dbConn, cfg.Admin); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	if cfg.Billing.SecretKey == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY not set; checkout requests will fail")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app := NewApp(Deps{
		DB:       dbConn,
		Config:   cfg,
		Issuer:   auth.NewIssuer(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.Secure),
		Provider: billing.NewStripeClient(cfg.Billing.APIBase, cfg.Billing.SecretKey, 10*time.Second),
		Registry: reg,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Bool("dev", cfg.App.Dev).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped gracefully")
}
