// Package server provides the HTTP server and routing for Navarch.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/abhee15/navarch-studio-sub003/internal/config"
	"github.com/abhee15/navarch-studio-sub003/internal/database"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/hydro"
	hydrohandlers "github.com/abhee15/navarch-studio-sub003/internal/modules/hydro/handlers"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/loadcases"
	loadcasehandlers "github.com/abhee15/navarch-studio-sub003/internal/modules/loadcases/handlers"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/reference"
	referencehandlers "github.com/abhee15/navarch-studio-sub003/internal/modules/reference/handlers"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/resultcache"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/vessels"
	vesselhandlers "github.com/abhee15/navarch-studio-sub003/internal/modules/vessels/handlers"

	exportmod "github.com/abhee15/navarch-studio-sub003/internal/modules/export"
)

// Config holds everything the server needs wired in.
type Config struct {
	Log         zerolog.Logger
	Config      *config.Config
	FleetDB     *database.DB
	ReferenceDB *database.DB
	CacheDB     *database.DB

	VesselService *vessels.Service
	LoadcaseRepo  *loadcases.Repository
	ReferenceRepo *reference.Repository
	HydroService  *hydro.Service
	ExportService *exportmod.Service
	ResultCache   *resultcache.Cache
}

// Server is the HTTP front of the calculation service.
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	fleetDB        *database.DB
	referenceDB    *database.DB
	cacheDB        *database.DB
	vesselService  *vessels.Service
	loadcaseRepo   *loadcases.Repository
	referenceRepo  *reference.Repository
	hydroService   *hydro.Service
	exportService  *exportmod.Service
	resultCache    *resultcache.Cache
	systemHandlers *SystemHandlers
}

// New creates the HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		log:           cfg.Log.With().Str("component", "server").Logger(),
		cfg:           cfg.Config,
		fleetDB:       cfg.FleetDB,
		referenceDB:   cfg.ReferenceDB,
		cacheDB:       cfg.CacheDB,
		vesselService: cfg.VesselService,
		loadcaseRepo:  cfg.LoadcaseRepo,
		referenceRepo: cfg.ReferenceRepo,
		hydroService:  cfg.HydroService,
		exportService: cfg.ExportService,
		resultCache:   cfg.ResultCache,
	}
	s.systemHandlers = NewSystemHandlers(cfg.Log, cfg.Config.DataDir,
		cfg.FleetDB, cfg.ReferenceDB, cfg.CacheDB, cfg.ResultCache)

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// setupMiddleware configures middleware.
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)
		})

		vesselHandler := vesselhandlers.NewHandlers(s.vesselService, s.log)
		vesselHandler.RegisterRoutes(r)

		loadcaseHandler := loadcasehandlers.NewHandlers(s.loadcaseRepo, s.log)
		loadcaseHandler.RegisterRoutes(r)

		referenceHandler := referencehandlers.NewHandlers(s.referenceRepo, s.log)
		referenceHandler.RegisterRoutes(r)

		hydroHandler := hydrohandlers.NewHandlers(s.hydroService, s.exportService, s.log)
		hydroHandler.RegisterRoutes(r)

		stabilityStream := NewStabilityStreamHandler(s.hydroService, s.log)
		r.Get("/loadcases/{loadcaseID}/stability/stream", stabilityStream.ServeHTTP)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth is a liveness probe; it also pings the databases.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	for name, db := range map[string]*database.DB{
		"fleet": s.fleetDB, "reference": s.referenceDB, "cache": s.cacheDB,
	} {
		if err := db.Conn().Ping(); err != nil {
			s.log.Error().Err(err).Str("database", name).Msg("Health check ping failed")
			http.Error(w, fmt.Sprintf("database %s unavailable", name), http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
