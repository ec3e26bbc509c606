package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/allana0-dev/refynely-backend/internal/api"
	"github.com/allana0-dev/refynely-backend/internal/cleanup"
	"github.com/allana0-dev/refynely-backend/internal/config"
	"github.com/allana0-dev/refynely-backend/internal/genai"
	"github.com/allana0-dev/refynely-backend/internal/logger"
	"github.com/allana0-dev/refynely-backend/internal/services"
	"github.com/allana0-dev/refynely-backend/internal/store"
	"github.com/allana0-dev/refynely-backend/internal/store/postgres"
	"github.com/allana0-dev/refynely-backend/internal/store/sqlite"
)

func main() {
	// Optional build-target flag override (local | cloud)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, cloud)")
	flag.Parse()

	log := logger.New("deck-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *buildTarget != "" {
		cfg.BuildTarget = *buildTarget
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid build-target override")
		}
	}

	if !cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Deck service starting…")

	// -------- Storage layer -----------------
	ctx := context.Background()
	var (
		db *sql.DB
		st store.Store
	)
	switch cfg.DBDriver {
	case "sqlite":
		db, err = sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("SQLite unavailable")
		}
		st = sqlite.NewWithDB(db)
	case "postgres":
		db, err = postgres.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("Postgres unavailable")
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Postgres migration failed")
		}
		st = postgres.NewWithDB(db)
	default:
		log.Fatal().Str("driver", cfg.DBDriver).Msg("Unknown DB driver")
	}
	defer db.Close()

	// -------- Collaborators -----------------
	var gen genai.Generator
	if cfg.ImageGenBaseURL != "" {
		gen = genai.NewClient(cfg.ImageGenBaseURL, cfg.ImageGenAPIKey, cfg.ImageGenModel)
	} else {
		gen = genai.Unconfigured()
	}

	runner := cleanup.NewRunner(log, cleanup.DeleteImageExec(log))
	defer runner.Close()

	// -------- Router & Server --------------
	router := api.NewRouter(api.Deps{
		Decks:    services.NewDeckService(st, gen, runner, log),
		Slides:   services.NewSlideService(st),
		Versions: services.NewVersionService(st),
		Exports:  services.NewExportService(st, log),
		Health:   st,
	})
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
