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
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/G3Ram/liftingdiary/internal/api"
	"github.com/G3Ram/liftingdiary/internal/config"
	"github.com/G3Ram/liftingdiary/internal/logging"
	"github.com/G3Ram/liftingdiary/internal/metrics"
	"github.com/G3Ram/liftingdiary/internal/mw"
	"github.com/G3Ram/liftingdiary/internal/repository/store"
	"github.com/G3Ram/liftingdiary/internal/revalidate"
	"github.com/G3Ram/liftingdiary/internal/service"
)

// @title Lifting Diary API
// @version 1.0
// @description API for logging workouts, their exercises and sets.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	logging.Init(cfg.Log.Env)
	log.Info().Str("env", cfg.Log.Env).Msg("starting lifting diary server")

	// Sessions come signed by the identity provider; without the shared
	// secret every request would be refused, so fail fast instead.
	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("auth.jwt_secret is required")
	}

	// --- Database Connection ---
	var gdb *gorm.DB
	dialect := store.DialectPostgres
	switch cfg.Database.Driver {
	case "postgres":
		gdb, err = store.Open(cfg.Database.DSN)
	case "sqlite":
		dialect = store.DialectSQLite
		gdb, err = store.OpenSQLite(cfg.Database.Path)
	default:
		log.Fatal().Str("driver", cfg.Database.Driver).Msg("unsupported database driver")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	defer func() {
		if err := store.Close(gdb); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	// --- Migrations ---
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
	defer cancelMigrate()
	if err := store.RunMigrations(migrateCtx, gdb, dialect); err != nil {
		log.Fatal().Err(err).Msg("could not run migrations")
	}
	log.Info().Msg("database ready")

	// --- Revalidation Signaler ---
	var signaler revalidate.Signaler = revalidate.NewNoopSignaler()
	if cfg.Revalidate.URL != "" {
		signaler = revalidate.NewHTTPSignaler(cfg.Revalidate.URL, revalidate.WithToken(cfg.Revalidate.Token))
		log.Info().Str("url", cfg.Revalidate.URL).Msg("revalidation signaling enabled")
	}

	// --- Initialize Repositories ---
	workoutRepo := store.NewWorkoutRepository(gdb)
	exerciseRepo := store.NewExerciseRepository(gdb)
	entryRepo := store.NewWorkoutExerciseRepository(gdb)
	setRepo := store.NewSetRepository(gdb)

	// --- Initialize Services ---
	workoutService := service.NewWorkoutService(workoutRepo, exerciseRepo, entryRepo, setRepo, signaler)
	exerciseService := service.NewExerciseService(exerciseRepo, signaler)

	// --- Initialize Gin Engine ---
	if cfg.Log.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.GinMiddleware())
	router.Use(mw.RateLimit(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.RateBurst))
	router.Use(mw.CORS(cfg.Log.Env))

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.Auth.JWTSecret, workoutService, exerciseService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// In-flight requests get five seconds to finish.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
