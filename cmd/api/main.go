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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ridehub/ridehub-api/internal/config"
	"github.com/ridehub/ridehub-api/internal/domain/admin"
	"github.com/ridehub/ridehub-api/internal/domain/catalog"
	"github.com/ridehub/ridehub-api/internal/domain/driver"
	"github.com/ridehub/ridehub-api/internal/domain/review"
	"github.com/ridehub/ridehub-api/internal/domain/ride"
	"github.com/ridehub/ridehub-api/internal/domain/ticket"
	"github.com/ridehub/ridehub-api/internal/domain/vehicle"
	"github.com/ridehub/ridehub-api/internal/domain/wallet"
	"github.com/ridehub/ridehub-api/internal/jobs"
	"github.com/ridehub/ridehub-api/internal/middleware"
	"github.com/ridehub/ridehub-api/internal/pkg/database"
	"github.com/ridehub/ridehub-api/internal/pkg/jwt"
	"github.com/ridehub/ridehub-api/internal/pkg/push"
	"github.com/ridehub/ridehub-api/internal/pkg/razorpay"
	pkgresponse "github.com/ridehub/ridehub-api/internal/pkg/response"
	"github.com/ridehub/ridehub-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting RideHub API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, caching and token revocation disabled")
		rdb = nil
	}
	defer database.CloseRedis(rdb)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	s3Storage, err := storage.NewS3Storage(storage.Config{
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
		S3Bucket:    cfg.S3Bucket,
		PublicURL:   cfg.S3PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 storage")
	}

	var fcm *push.FCMClient
	if cfg.FCMServerKey != "" {
		fcm = push.NewFCMClient(push.FCMConfig{
			ServerKey: cfg.FCMServerKey,
			ProjectID: cfg.FCMProjectID,
		})
	}

	gateway := razorpay.NewClient(razorpay.Config{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
	})

	// ---------- Repositories ----------
	adminRepo := admin.NewRepository(db)
	driverRepo := driver.NewRepository(db)
	vehicleRepo := vehicle.NewRepository(db)
	catalogRepo := catalog.NewRepository(db)
	rideRepo := ride.NewRepository(db)
	walletRepo := wallet.NewRepository(db)
	ticketRepo := ticket.NewRepository(db)
	reviewRepo := review.NewRepository(db)

	// ---------- Services ----------
	adminJWTService := admin.NewJWTService(cfg.JWTSecret, cfg.AdminTokenTTL)
	tokenRevoker := admin.NewTokenRevoker(rdb)
	adminService := admin.NewService(adminRepo, adminJWTService, tokenRevoker)

	driverService := driver.NewService(driverRepo, jwtService, s3Storage, fcm)
	vehicleService := vehicle.NewService(vehicleRepo, driverRepo)
	catalogService := catalog.NewService(catalogRepo, rdb)
	rideService := ride.NewService(rideRepo)
	walletService := wallet.NewService(walletRepo, driverRepo, gateway, fcm, cfg.RazorpayCurrency)
	ticketService := ticket.NewService(ticketRepo, driverRepo, fcm)
	reviewService := review.NewService(reviewRepo, rideRepo)

	// ---------- Handlers ----------
	adminHandler := admin.NewHandler(adminService, cfg.IsProduction())
	driverHandler := driver.NewHandler(driverService)
	vehicleHandler := vehicle.NewHandler(vehicleService)
	catalogHandler := catalog.NewHandler(catalogService, cfg.RazorpayCurrency)
	rideHandler := ride.NewHandler(rideService)
	walletHandler := wallet.NewHandler(walletService)
	ticketHandler := ticket.NewHandler(ticketService)
	reviewHandler := review.NewHandler(reviewService)

	driverAuth := middleware.DriverAuth(jwtService)
	adminAuth := admin.AuthMiddleware(adminJWTService, tokenRevoker)
	requireArea := func(area admin.Area) func(http.Handler) http.Handler {
		return admin.RequireArea(adminService, area)
	}

	// ---------- Background jobs ----------
	jobCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()

	lowBalanceJob := jobs.NewLowBalanceJob(driverRepo, fcm, cfg.LowBalanceThreshold, cfg.RazorpayCurrency)
	go lowBalanceJob.Start(jobCtx, cfg.LowBalanceInterval)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/", driverHandler.MobileRoutes(driverAuth))
		r.Mount("/packages", catalogHandler.MobileRoutes(driverAuth))
		r.Mount("/wallet", walletHandler.MobileRoutes(driverAuth))
		r.Mount("/tickets", ticketHandler.MobileRoutes(driverAuth))
		r.Mount("/reviews", reviewHandler.MobileRoutes(driverAuth))

		r.Route("/rides/{id}/review", func(r chi.Router) {
			r.Use(driverAuth)
			r.Post("/", reviewHandler.Create)
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Mount("/", adminHandler.Routes(adminAuth, requireArea))

		r.Group(func(r chi.Router) {
			r.Use(adminAuth)

			r.With(requireArea(admin.AreaDrivers)).Mount("/drivers", driverHandler.AdminRoutes())
			r.With(requireArea(admin.AreaWallet)).Get("/drivers/{id}/wallet", walletHandler.AdminWallet)
			r.With(requireArea(admin.AreaVehicles)).Mount("/vehicles", vehicleHandler.Routes())
			r.With(requireArea(admin.AreaPackages)).Mount("/packages", catalogHandler.AdminPackageRoutes())
			r.With(requireArea(admin.AreaPackages)).Mount("/subpackages", catalogHandler.AdminSubPackageRoutes())
			r.With(requireArea(admin.AreaRides)).Mount("/rides", rideHandler.Routes())
			r.With(requireArea(admin.AreaTickets)).Mount("/tickets", ticketHandler.AdminRoutes())
		})
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
	stopJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
