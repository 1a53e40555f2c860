package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/coursebase/coursebase-api/internal/config"
	"github.com/coursebase/coursebase-api/internal/domain/admin"
	"github.com/coursebase/coursebase-api/internal/domain/course"
	"github.com/coursebase/coursebase-api/internal/domain/paymentrequest"
	"github.com/coursebase/coursebase-api/internal/domain/sponsor"
	"github.com/coursebase/coursebase-api/internal/domain/taxonomy"
	"github.com/coursebase/coursebase-api/internal/domain/translation"
	"github.com/coursebase/coursebase-api/internal/middleware"
	"github.com/coursebase/coursebase-api/internal/pkg/database"
	"github.com/coursebase/coursebase-api/internal/pkg/imaging"
	"github.com/coursebase/coursebase-api/internal/pkg/jwt"
	"github.com/coursebase/coursebase-api/internal/pkg/logger"
	"github.com/coursebase/coursebase-api/internal/pkg/response"
	"github.com/coursebase/coursebase-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting CourseBase API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	store := newStorage(cfg)
	imageProcessor := imaging.NewProcessor(imaging.DefaultConfig())

	// ---------- Repositories ----------
	translationRepo := translation.NewRepository(db)
	taxonomyRepo := taxonomy.NewRepository(db)
	courseRepo := course.NewRepository(db)
	facetRepo := course.NewFacetRepository(db)
	sponsorRepo := sponsor.NewRepository(db)
	requestRepo := paymentrequest.NewRepository(db)
	adminRepo := admin.NewRepository(db)

	// ---------- Services ----------
	translationService := translation.NewService(translationRepo, cfg.DefaultLocale)
	taxonomyService := taxonomy.NewService(taxonomyRepo, translationService)
	facetCache := course.NewFacetCache(facetRepo, redisClient, cfg.FacetCacheTTL)
	courseService := course.NewService(courseRepo, facetCache, translationService, store, imageProcessor, cfg.RelatedCourses)
	sponsorService := sponsor.NewService(sponsorRepo, jwtService)
	requestService := paymentrequest.NewService(requestRepo, store)
	adminService := admin.NewService(adminRepo, jwtService)

	// ---------- Handlers ----------
	taxonomyHandler := taxonomy.NewHandler(taxonomyService)
	courseHandler := course.NewHandler(courseService)
	sponsorHandler := sponsor.NewHandler(sponsorService)
	requestHandler := paymentrequest.NewHandler(requestService)
	translationHandler := translation.NewHandler(translationService)
	adminHandler := admin.NewHandler(adminService)

	authMiddleware := middleware.Auth(jwtService)
	adminOnly := middleware.RequireAdmin()
	sponsorOnly := middleware.RequireSponsor()
	passwordChanged := middleware.RequirePasswordChanged()
	adminAuth := func(next http.Handler) http.Handler {
		return authMiddleware(adminOnly(next))
	}

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/courses", courseHandler.PublicRoutes())
		r.Mount("/categories", taxonomyHandler.CategoryPublicRoutes())
		r.Mount("/tags", taxonomyHandler.TagPublicRoutes())
		r.Mount("/payment-requests", requestHandler.PublicRoutes())
		r.Mount("/sponsor", sponsorHandler.PortalRoutes(authMiddleware, sponsorOnly, passwordChanged))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Mount("/", adminHandler.Routes(adminAuth))
		r.Mount("/courses", courseHandler.AdminRoutes(adminAuth))
		r.Mount("/categories", taxonomyHandler.CategoryAdminRoutes(adminAuth))
		r.Mount("/tags", taxonomyHandler.TagAdminRoutes(adminAuth))
		r.Mount("/sponsors", sponsorHandler.AdminRoutes(adminAuth))
		r.Mount("/payment-requests", requestHandler.AdminRoutes(adminAuth))
		r.Mount("/translations", translationHandler.AdminRoutes(adminAuth))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newStorage(cfg *config.Config) storage.Storage {
	if cfg.UseS3() {
		s3Store, err := storage.NewS3Storage(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 storage")
		}
		return s3Store
	}

	localStore, err := storage.NewLocalStorage(cfg.LocalStoragePath, "/uploads")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create local storage")
	}
	log.Warn().Str("path", cfg.LocalStoragePath).Msg("S3 not configured, storing uploads on local disk")
	return localStore
}
