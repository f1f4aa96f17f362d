package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/rmagbanua/nanaycare-api/internal/config"
	"github.com/rmagbanua/nanaycare-api/internal/email"
	"github.com/rmagbanua/nanaycare-api/internal/repository/postgres"
	appointmentService "github.com/rmagbanua/nanaycare-api/internal/service/appointment"
	auditService "github.com/rmagbanua/nanaycare-api/internal/service/audit"
	riskService "github.com/rmagbanua/nanaycare-api/internal/service/risk"
	"github.com/rmagbanua/nanaycare-api/internal/worker"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
	redisbroker "github.com/rmagbanua/nanaycare-api/pkg/messaging/redis"
	"github.com/rmagbanua/nanaycare-api/pkg/metrics"
)

const (
	reminderInterval = 15 * time.Minute
	reminderWindow   = 24 * time.Hour
)

func setupHealthCheck(appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			appLogger.Fatal(err, "health check server failed")
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{Level: logger.InfoLevel})
	m := metrics.NewMetrics("nanaycare", "worker")

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

	motherRepo := postgres.NewMotherRepository(db)
	recordRepo := postgres.NewHealthRecordRepository(db, m)
	riskRepo := postgres.NewRiskRepository(db, m)
	appointmentRepo := postgres.NewAppointmentRepository(db, m)
	auditRepo := postgres.NewAuditRepository(db)

	emailSvc := email.NewSMTPService(cfg.SMTP)
	auditSvc := auditService.NewService(auditRepo, appLogger)
	riskSvc := riskService.NewService(motherRepo, recordRepo, riskRepo, broker, appLogger, cfg.Aggregator.RosterCacheTTL)
	appointmentSvc := appointmentService.NewService(appointmentRepo, motherRepo, emailSvc, auditSvc, appLogger)

	riskPoller := worker.NewRiskPoller(riskSvc, m, appLogger, cfg.Aggregator.PollInterval)
	reminderWorker := worker.NewReminderWorker(appointmentSvc, m, appLogger, reminderInterval, reminderWindow)
	auditCleanup := worker.NewAuditCleanupWorker(auditRepo, appLogger, cfg.Audit.RetentionDays, cfg.Audit.CleanupInterval)

	setupHealthCheck(appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		appLogger.Info("shutting down workers...")
		cancel()
	}()

	go reminderWorker.Start(ctx)
	go auditCleanup.Start(ctx)
	riskPoller.Start(ctx)
}
