package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/rmagbanua/nanaycare-api/internal/config"
	"github.com/rmagbanua/nanaycare-api/internal/email"
	"github.com/rmagbanua/nanaycare-api/internal/handler"
	appointmentHandler "github.com/rmagbanua/nanaycare-api/internal/handler/appointment"
	assistantHandler "github.com/rmagbanua/nanaycare-api/internal/handler/assistant"
	authHandler "github.com/rmagbanua/nanaycare-api/internal/handler/auth"
	feedHandler "github.com/rmagbanua/nanaycare-api/internal/handler/feed"
	materialHandler "github.com/rmagbanua/nanaycare-api/internal/handler/material"
	motherHandler "github.com/rmagbanua/nanaycare-api/internal/handler/mother"
	riskHandler "github.com/rmagbanua/nanaycare-api/internal/handler/risk"
	userHandler "github.com/rmagbanua/nanaycare-api/internal/handler/user"
	"github.com/rmagbanua/nanaycare-api/internal/middleware"
	"github.com/rmagbanua/nanaycare-api/internal/repository/postgres"
	"github.com/rmagbanua/nanaycare-api/internal/router"
	appointmentService "github.com/rmagbanua/nanaycare-api/internal/service/appointment"
	assistantService "github.com/rmagbanua/nanaycare-api/internal/service/assistant"
	auditService "github.com/rmagbanua/nanaycare-api/internal/service/audit"
	authService "github.com/rmagbanua/nanaycare-api/internal/service/auth"
	feedService "github.com/rmagbanua/nanaycare-api/internal/service/feed"
	materialService "github.com/rmagbanua/nanaycare-api/internal/service/material"
	motherService "github.com/rmagbanua/nanaycare-api/internal/service/mother"
	recordService "github.com/rmagbanua/nanaycare-api/internal/service/record"
	riskService "github.com/rmagbanua/nanaycare-api/internal/service/risk"
	"github.com/rmagbanua/nanaycare-api/internal/storage"
	"github.com/rmagbanua/nanaycare-api/pkg/auth"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
	redisbroker "github.com/rmagbanua/nanaycare-api/pkg/messaging/redis"
	"github.com/rmagbanua/nanaycare-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{Level: logger.InfoLevel})
	m := metrics.NewMetrics("nanaycare", "api")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.Logger, m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	store, err := storage.NewS3Store(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize blob storage")
	}

	// Repositories
	motherRepo := postgres.NewMotherRepository(db)
	recordRepo := postgres.NewHealthRecordRepository(db, m)
	riskRepo := postgres.NewRiskRepository(db, m)
	appointmentRepo := postgres.NewAppointmentRepository(db, m)
	materialRepo := postgres.NewMaterialRepository(db)
	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	qaRepo := postgres.NewQARepository(db)

	// Services
	emailSvc := email.NewSMTPService(cfg.SMTP)
	auditSvc := auditService.NewService(auditRepo, appLogger)
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        cfg.JWT.Expiry,
		RefreshExpiry: cfg.JWT.RefreshExpiry,
	})
	authSvc := authService.NewService(userRepo, motherRepo, jwtSvc, emailSvc, auditSvc, appLogger, cfg.JWT.Expiry)
	motherSvc := motherService.NewService(motherRepo, auditSvc, store)
	recordSvc := recordService.NewService(recordRepo, motherRepo, riskRepo, auditSvc, broker, store, appLogger)
	riskSvc := riskService.NewService(motherRepo, recordRepo, riskRepo, broker, appLogger, cfg.Aggregator.RosterCacheTTL)
	appointmentSvc := appointmentService.NewService(appointmentRepo, motherRepo, emailSvc, auditSvc, appLogger)
	materialSvc := materialService.NewService(materialRepo, auditSvc, store)
	assistantSvc := assistantService.NewService(qaRepo, auditSvc)
	feedSvc := feedService.NewService(appointmentRepo, materialRepo, recordRepo, feedService.Config{
		AppointmentWindowDays: cfg.Feed.AppointmentWindowDays,
		RecentMaterials:       cfg.Feed.RecentMaterials,
	}, appLogger)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	h := handler.NewHandler(db)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		motherHandler.NewHandler(motherSvc, recordSvc),
		riskHandler.NewHandler(riskSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		materialHandler.NewHandler(materialSvc),
		feedHandler.NewHandler(feedSvc),
		assistantHandler.NewHandler(assistantSvc),
		userHandler.NewHandler(authSvc),
		h,
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORS:           middleware.DefaultCORSConfig(),
			MetricsPrefix:  "nanaycare_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	appLogger.Info("server started", map[string]interface{}{"port": cfg.Server.Port})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
