package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rmagbanua/nanaycare-api/internal/service/risk"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
	"github.com/rmagbanua/nanaycare-api/pkg/metrics"
)

// RiskPoller runs an aggregation pass over the whole roster on a fixed
// interval so assessments stay current even when no health worker triggers
// a manual refresh.
type RiskPoller struct {
	service  *risk.Service
	metrics  *metrics.Metrics
	logger   *logger.Logger
	interval time.Duration
}

func NewRiskPoller(service *risk.Service, m *metrics.Metrics, log *logger.Logger, interval time.Duration) *RiskPoller {
	return &RiskPoller{
		service:  service,
		metrics:  m,
		logger:   log,
		interval: interval,
	}
}

func (w *RiskPoller) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("risk poller started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("risk poller shutting down")
			return
		case <-ticker.C:
			w.runPass(ctx)
		}
	}
}

func (w *RiskPoller) runPass(ctx context.Context) {
	timer := prometheus.NewTimer(w.metrics.RiskPassLatency)
	defer timer.ObserveDuration()

	result, err := w.service.RunPass(ctx, "")
	if err != nil {
		w.metrics.RiskPassesFailed.Inc()
		w.logger.Error(err, "aggregation pass failed")
		return
	}

	w.metrics.RiskPassesTotal.Inc()
	w.metrics.RiskRosterSize.Set(float64(len(result.Roster)))
	w.metrics.AtRiskMothers.Set(float64(result.AtRisk))
	if result.DeltaNote != "" {
		w.metrics.RiskAlertsPublished.Inc()
	}

	w.logger.Info("aggregation pass complete", map[string]interface{}{
		"roster_size": len(result.Roster),
		"at_risk":     result.AtRisk,
		"new_at_risk": result.NewAtRisk,
	})
}
