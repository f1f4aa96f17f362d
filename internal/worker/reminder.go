package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rmagbanua/nanaycare-api/internal/service/appointment"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
	"github.com/rmagbanua/nanaycare-api/pkg/metrics"
)

// ReminderWorker mails reminders for appointments coming up inside the
// lookahead window. An appointment is only reminded once; failed sends are
// left unmarked and retried on the next tick.
type ReminderWorker struct {
	service  *appointment.Service
	metrics  *metrics.Metrics
	logger   *logger.Logger
	interval time.Duration
	window   time.Duration
}

func NewReminderWorker(service *appointment.Service, m *metrics.Metrics, log *logger.Logger, interval, window time.Duration) *ReminderWorker {
	return &ReminderWorker{
		service:  service,
		metrics:  m,
		logger:   log,
		interval: interval,
		window:   window,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("reminder worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker shutting down")
			return
		case <-ticker.C:
			w.runPass(ctx)
		}
	}
}

func (w *ReminderWorker) runPass(ctx context.Context) {
	timer := prometheus.NewTimer(w.metrics.ReminderLatency)
	defer timer.ObserveDuration()

	sent, err := w.service.SendDueReminders(ctx, w.window)
	if err != nil {
		w.metrics.RemindersSent.WithLabelValues("failed").Inc()
		w.logger.Error(err, "reminder pass failed")
		return
	}

	if sent > 0 {
		w.metrics.RemindersSent.WithLabelValues("sent").Add(float64(sent))
		w.logger.Info("reminders sent", map[string]interface{}{"count": sent})
	}
}
