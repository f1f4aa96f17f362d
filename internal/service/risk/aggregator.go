package risk

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/repository"
	apperrors "github.com/rmagbanua/nanaycare-api/pkg/errors"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
	"github.com/rmagbanua/nanaycare-api/pkg/messaging"
)

const rosterCachePrefix = "roster:"

// Service runs risk aggregation passes: classify every mother's latest
// health record, upsert the per-mother assessment, and compare the at-risk
// count against the previous pass to raise a delta notice.
//
// The previous at-risk baseline is held in memory on this instance. It is
// reset by a restart, after which the next comparison starts from zero; that
// is accepted behavior, not a durability gap to close.
type Service struct {
	motherRepo repository.MotherRepository
	recordRepo repository.HealthRecordRepository
	riskRepo   repository.RiskRepository
	broker     messaging.Broker
	logger     *logger.Logger
	cache      *gocache.Cache

	mu         sync.Mutex
	prevAtRisk int
}

func NewService(
	motherRepo repository.MotherRepository,
	recordRepo repository.HealthRecordRepository,
	riskRepo repository.RiskRepository,
	broker messaging.Broker,
	log *logger.Logger,
	rosterTTL time.Duration,
) *Service {
	if rosterTTL <= 0 {
		rosterTTL = 30 * time.Second
	}
	return &Service{
		motherRepo: motherRepo,
		recordRepo: recordRepo,
		riskRepo:   riskRepo,
		broker:     broker,
		logger:     log,
		cache:      gocache.New(rosterTTL, 2*rosterTTL),
	}
}

// Roster returns the persisted assessments for a zone, served from a short
// TTL cache so repeated list views between passes do not hit the database.
func (s *Service) Roster(ctx context.Context, zone string) ([]*model.RiskAssessment, error) {
	key := rosterCachePrefix + zone
	if cached, found := s.cache.Get(key); found {
		return cached.([]*model.RiskAssessment), nil
	}

	roster, err := s.riskRepo.List(ctx, zone)
	if err != nil {
		return nil, fmt.Errorf("failed to list risk assessments: %w", err)
	}
	s.cache.SetDefault(key, roster)
	return roster, nil
}

// Assessment returns the persisted assessment for one mother, or not-found
// when she has never been classified.
func (s *Service) Assessment(ctx context.Context, motherID uuid.UUID) (*model.RiskAssessment, error) {
	assessment, err := s.riskRepo.GetByMother(ctx, motherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("risk assessment", err)
		}
		return nil, fmt.Errorf("failed to get risk assessment: %w", err)
	}
	if assessment == nil {
		return nil, apperrors.NotFound("risk assessment", nil)
	}
	return assessment, nil
}

// RunPass executes one aggregation pass over the cohort, optionally scoped
// to a zone. Mothers with no health records are excluded entirely. Each
// computed assessment is upserted before the pass returns, keyed by mother,
// so two concurrent passes race with last-write-wins semantics.
func (s *Service) RunPass(ctx context.Context, zone string) (*model.RiskPassResult, error) {
	mothers, err := s.motherRepo.List(ctx, &model.MotherFilters{Zone: zone})
	if err != nil {
		return nil, fmt.Errorf("failed to list mothers: %w", err)
	}
	latest, err := s.recordRepo.ListLatestPerMother(ctx, zone)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest records: %w", err)
	}

	byMother := make(map[uuid.UUID]*model.HealthRecord, len(latest))
	for _, rec := range latest {
		byMother[rec.MotherID] = rec
	}

	now := time.Now()
	result := &model.RiskPassResult{ComputedAt: now}

	for _, mother := range mothers {
		record, ok := byMother[mother.ID]
		if !ok {
			continue // no encounters yet, not classified
		}

		label := Classify(record)
		status := model.RiskStatusPending
		if label == model.RiskStable {
			status = model.RiskStatusStable
		}

		assessment := &model.RiskAssessment{
			ID:                 uuid.New(),
			MotherID:           mother.ID,
			MotherName:         mother.Name,
			Zone:               mother.Zone,
			Label:              label,
			Status:             status,
			LastReadingSummary: Summarize(record),
			ComputedAt:         now,
		}

		if err := s.riskRepo.Upsert(ctx, assessment); err != nil {
			return nil, fmt.Errorf("failed to upsert assessment for mother %s: %w", mother.ID, err)
		}

		result.Roster = append(result.Roster, assessment)
		if label.AtRisk() {
			result.AtRisk++
		}
	}

	s.cache.Flush()
	s.noteDelta(ctx, result)
	return result, nil
}

// UpdateStatus applies a manual status override to one mother's assessment.
// The override is a human acknowledgement; the next pass recomputes and
// overwrites it.
func (s *Service) UpdateStatus(ctx context.Context, motherID uuid.UUID, status model.RiskStatus) error {
	if err := s.riskRepo.UpdateStatus(ctx, motherID, status); err != nil {
		return fmt.Errorf("failed to override risk status: %w", err)
	}
	s.cache.Flush()
	return nil
}

// noteDelta compares this pass's at-risk count with the in-memory baseline
// and attaches a human-readable notice when the count grew. The notice is
// also published on the broker, best-effort.
func (s *Service) noteDelta(ctx context.Context, result *model.RiskPassResult) {
	s.mu.Lock()
	prev := s.prevAtRisk
	s.prevAtRisk = result.AtRisk
	s.mu.Unlock()

	if result.AtRisk <= prev {
		return
	}

	delta := result.AtRisk - prev
	noun := "mother"
	if delta != 1 {
		noun = "mothers"
	}
	result.NewAtRisk = delta
	result.DeltaNote = fmt.Sprintf("%d new at-risk %s", delta, noun)

	if s.broker == nil {
		return
	}
	err := s.broker.Publish(ctx, messaging.ChannelRiskAlerts, messaging.Message{
		Type: "risk.delta",
		Payload: map[string]interface{}{
			"new_at_risk": delta,
			"at_risk":     result.AtRisk,
			"computed_at": result.ComputedAt,
			"note":        result.DeltaNote,
		},
	})
	if err != nil {
		s.logger.Error(err, "failed to publish risk delta notice")
	}
}

// Summarize renders the one-line reading summary shown on the roster.
func Summarize(record *model.HealthRecord) string {
	return fmt.Sprintf("BP %s, temp %.1f°C, weight %.1fkg (%s)",
		orDash(record.BloodPressure),
		record.TemperatureC,
		record.WeightKg,
		record.EncounterDate.Format("2006-01-02"),
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
