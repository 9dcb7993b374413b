// Command server runs the legal pages API.
//
// Boot order: env → config → logging → tracing → database → page catalog →
// Shopify client → HTTP router → graceful shutdown. Configuration problems
// (missing encryption key, unwritable database path) abort the boot; a
// half-configured instance must never serve traffic.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/marutto-legal/go-legal-pages/internal/config"
	"github.com/marutto-legal/go-legal-pages/internal/crypto"
	httpapi "github.com/marutto-legal/go-legal-pages/internal/http"
	"github.com/marutto-legal/go-legal-pages/internal/observability"
	"github.com/marutto-legal/go-legal-pages/internal/pagetypes"
	"github.com/marutto-legal/go-legal-pages/internal/registry"
	"github.com/marutto-legal/go-legal-pages/internal/repo"
	"github.com/marutto-legal/go-legal-pages/internal/services"
	"github.com/marutto-legal/go-legal-pages/internal/shopify"
	"github.com/marutto-legal/go-legal-pages/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOTel(shutdownCtx)
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	codec, err := crypto.NewCodec(cfg.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("encryption key invalid")
	}

	catalog := registry.NewCatalog()
	if err := pagetypes.RegisterAll(catalog); err != nil {
		log.Fatal().Err(err).Msg("page type registration failed")
	}

	retry := shopify.DefaultRetryOptions()
	retry.MaxRetries = cfg.Shopify.MaxRetries
	retry.BaseDelay = cfg.Shopify.BaseDelay
	client := shopify.NewAdminClient(cfg.Shopify.ShopDomain, cfg.Shopify.AccessToken, cfg.Shopify.APIVersion,
		shopify.WithRetryOptions(retry))

	engine := gin.New()
	httpapi.RegisterRoutes(engine, httpapi.Deps{
		DB:      db,
		Codec:   codec,
		Catalog: catalog,
		Pages:   client,
		Menus:   client,
		Conf:    &services.ConfirmationService{API: client},
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("version", version).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
