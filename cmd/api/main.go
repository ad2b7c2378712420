package main

import (
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Ricknho777/CarllyRommanel/internal/catalog"
	"github.com/Ricknho777/CarllyRommanel/internal/client"
	"github.com/Ricknho777/CarllyRommanel/internal/config"
	"github.com/Ricknho777/CarllyRommanel/internal/repository"
	"github.com/Ricknho777/CarllyRommanel/internal/server"
	"github.com/Ricknho777/CarllyRommanel/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to parse config")
	}

	setupLogger(&cfg.Log)

	db := client.InitSqliteClient(cfg.DatabasePath)
	mpClient := client.NewMercadoPagoClient(&cfg.MercadoPago)

	if !mpClient.Configured() {
		log.Warn().Msg("MP_ACCESS_TOKEN not set, checkout will be refused")
	} else {
		log.Info().Str("environment", mpClient.Environment().String()).Msg("payment provider configured")
	}

	store := catalog.NewStore()
	store.LoadOrSeed(cfg.CatalogFile)
	log.Info().Int("products", store.Len()).Str("file", cfg.CatalogFile).Msg("catalog loaded")

	orderRepo := repository.NewOrderRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	userRepo := repository.NewUserRepository(db)

	checkoutService := service.NewCheckoutService(mpClient, cfg, orderRepo)
	authService := service.NewAuthService(&cfg.Admin, tokenRepo, userRepo)
	catalogService := service.NewCatalogService(store, cfg.CatalogFile, &cfg.Shipping, userRepo, orderRepo)

	srv := server.NewServer(cfg, db, mpClient, store, checkoutService, authService, catalogService)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info().Str("addr", serverAddr).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info().Msg("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("HTTP server shutdown error")
	}
}

func setupLogger(cfg *config.Log) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
