// Command server runs the Navarch hydrostatics service: REST API, result
// cache and background maintenance over three SQLite databases.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhee15/navarch-studio-sub003/internal/config"
	"github.com/abhee15/navarch-studio-sub003/internal/database"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/export"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/hydro"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/loadcases"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/reference"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/resultcache"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/vessels"
	"github.com/abhee15/navarch-studio-sub003/internal/scheduler"
	"github.com/abhee15/navarch-studio-sub003/internal/server"
	"github.com/abhee15/navarch-studio-sub003/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger isn't up yet.
		panic(err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode})
	logger.SetGlobalLogger(log)
	log.Info().Str("data_dir", cfg.DataDir).Int("port", cfg.Port).Msg("Starting Navarch")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("Failed to create data directory")
	}

	fleetDB := mustOpen(log, database.Config{
		Path:    filepath.Join(cfg.DataDir, "fleet.db"),
		Profile: database.ProfileStandard,
		Name:    "fleet",
	})
	defer fleetDB.Close()

	referenceDB := mustOpen(log, database.Config{
		Path:    filepath.Join(cfg.DataDir, "reference.db"),
		Profile: database.ProfileReference,
		Name:    "reference",
	})
	defer referenceDB.Close()

	cacheDB := mustOpen(log, database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	defer cacheDB.Close()

	referenceRepo := reference.NewRepository(referenceDB.Conn(), log)
	if err := referenceRepo.Seed(); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed reference catalogs")
	}

	vesselRepo := vessels.NewRepository(fleetDB.Conn(), log)
	geometryRepo := vessels.NewGeometryRepository(fleetDB.Conn(), log)
	vesselService := vessels.NewService(vesselRepo, geometryRepo, log)
	loadcaseRepo := loadcases.NewRepository(fleetDB.Conn(), log)

	cache := resultcache.New(cacheDB.Conn(), log)
	hydroService := hydro.NewService(geometryRepo, loadcaseRepo, cache, cfg.CacheTTL, log)

	var uploader *export.S3Uploader
	if cfg.Export.S3Enabled {
		uploader, err = export.NewS3Uploader(context.Background(),
			cfg.Export.S3Region, cfg.Export.S3Bucket, cfg.Export.S3Prefix, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 uploader")
		}
	}
	exportService := export.NewService(cfg.Export.Dir, uploader, log)

	sched := scheduler.New(log)
	cleanupJob := resultcache.NewCleanupJob(cache, log)
	if err := sched.AddJob("@every 10m", cleanupJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cache cleanup job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:           log,
		Config:        cfg,
		FleetDB:       fleetDB,
		ReferenceDB:   referenceDB,
		CacheDB:       cacheDB,
		VesselService: vesselService,
		LoadcaseRepo:  loadcaseRepo,
		ReferenceRepo: referenceRepo,
		HydroService:  hydroService,
		ExportService: exportService,
		ResultCache:   cache,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Navarch stopped")
}

func mustOpen(log zerolog.Logger, cfg database.Config) *database.DB {
	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("database", cfg.Name).Msg("Failed to open database")
	}
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Str("database", cfg.Name).Msg("Failed to migrate database")
	}
	return db
}
