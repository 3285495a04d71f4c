// Command server runs the franchise billing API.
//
//	@title			Billing API
//	@version		1.0
//	@description	Franchise billing service. Every failure is returned as an error envelope with a stable code.
//	@BasePath		/api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-billing-errors/internal/config"
	"github.com/tbourn/go-billing-errors/internal/dberr"
	"github.com/tbourn/go-billing-errors/internal/engine"
	httpapi "github.com/tbourn/go-billing-errors/internal/http"
	"github.com/tbourn/go-billing-errors/internal/observability"
	"github.com/tbourn/go-billing-errors/internal/repo"
	"github.com/tbourn/go-billing-errors/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	sysutil.ConfigureLogging(cfg.LogLevel, cfg.LogPretty, os.Stderr)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ver := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	x, err := newExtractor(cfg)
	if err != nil {
		return err
	}
	eng := engine.New(engine.Options{Debug: cfg.Debug, Extractor: x})
	if cfg.Debug && cfg.Env == config.EnvProduction {
		log.Warn().Msg("APP_DEBUG is on in production: unclassified failures will expose internal text")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, eng, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.Env).
			Str("db_dialect", x.RuleSet("").Name).
			Str("version", ver).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

// newExtractor builds the database rule sets, applying DB_TRIGGER_MARKER to
// the configured dialect.
func newExtractor(cfg config.Config) (*dberr.Extractor, error) {
	if cfg.DBTriggerMarker == "" {
		return dberr.NewExtractor(cfg.DBDialect), nil
	}
	base := dberr.NewExtractor(cfg.DBDialect).RuleSet(cfg.DBDialect)
	rs, err := base.WithTriggerMarker(cfg.DBTriggerMarker)
	if err != nil {
		return nil, err
	}
	return dberr.NewExtractor(cfg.DBDialect, rs), nil
}
