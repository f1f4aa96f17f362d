package record

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/repository"
	"github.com/rmagbanua/nanaycare-api/internal/service/audit"
	"github.com/rmagbanua/nanaycare-api/internal/service/risk"
	"github.com/rmagbanua/nanaycare-api/internal/storage"
	apperrors "github.com/rmagbanua/nanaycare-api/pkg/errors"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
	"github.com/rmagbanua/nanaycare-api/pkg/messaging"
)

// Service owns the health record write path. Every write visibly sequences
// two steps: persist the record, then recompute and upsert the mother's risk
// assessment. The two steps are not atomic; a crash in between leaves the
// assessment stale until the next aggregation pass.
type Service struct {
	recordRepo repository.HealthRecordRepository
	motherRepo repository.MotherRepository
	riskRepo   repository.RiskRepository
	auditor    *audit.Service
	broker     messaging.Broker
	store      storage.BlobStore
	logger     *logger.Logger
}

func NewService(
	recordRepo repository.HealthRecordRepository,
	motherRepo repository.MotherRepository,
	riskRepo repository.RiskRepository,
	auditor *audit.Service,
	broker messaging.Broker,
	store storage.BlobStore,
	log *logger.Logger,
) *Service {
	return &Service{
		recordRepo: recordRepo,
		motherRepo: motherRepo,
		riskRepo:   riskRepo,
		auditor:    auditor,
		broker:     broker,
		store:      store,
		logger:     log,
	}
}

func (s *Service) CreateRecord(ctx context.Context, actorID uuid.UUID, motherID uuid.UUID, req *model.CreateHealthRecordRequest) (*model.HealthRecord, error) {
	mother, err := s.motherRepo.Get(ctx, motherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mother: %w", err)
	}

	record := &model.HealthRecord{
		Base:            model.Base{ID: uuid.New()},
		MotherID:        mother.ID,
		EncounterDate:   req.EncounterDate,
		WeightKg:        req.WeightKg,
		HeightCm:        req.HeightCm,
		BloodPressure:   req.BloodPressure,
		TemperatureC:    req.TemperatureC,
		PulseRate:       req.PulseRate,
		RespiratoryRate: req.RespiratoryRate,
		HeartRate:       req.HeartRate,
		Diabetes:        req.Diabetes,
		Hypertension:    req.Hypertension,
		Notes:           req.Notes,
	}
	record.BMI = record.ComputeBMI()

	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create health record: %w", err)
	}

	s.auditor.Log(ctx, actorID, "create", "health_record", record.ID, record)
	s.deriveAssessment(ctx, mother)
	s.publishChange(ctx, "record.created", record)
	return record, nil
}

func (s *Service) UpdateRecord(ctx context.Context, actorID uuid.UUID, motherID, recordID uuid.UUID, req *model.UpdateHealthRecordRequest) (*model.HealthRecord, error) {
	record, err := s.recordRepo.Get(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get health record: %w", err)
	}
	if record.MotherID != motherID {
		return nil, apperrors.NotFound("health record", nil)
	}

	if req.EncounterDate != nil {
		record.EncounterDate = *req.EncounterDate
	}
	if req.WeightKg != nil {
		record.WeightKg = *req.WeightKg
	}
	if req.HeightCm != nil {
		record.HeightCm = *req.HeightCm
	}
	if req.BloodPressure != nil {
		record.BloodPressure = *req.BloodPressure
	}
	if req.TemperatureC != nil {
		record.TemperatureC = *req.TemperatureC
	}
	if req.PulseRate != nil {
		record.PulseRate = *req.PulseRate
	}
	if req.RespiratoryRate != nil {
		record.RespiratoryRate = *req.RespiratoryRate
	}
	if req.HeartRate != nil {
		record.HeartRate = *req.HeartRate
	}
	if req.Diabetes != nil {
		record.Diabetes = *req.Diabetes
	}
	if req.Hypertension != nil {
		record.Hypertension = *req.Hypertension
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}
	record.BMI = record.ComputeBMI()

	if err := s.recordRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update health record: %w", err)
	}

	mother, err := s.motherRepo.Get(ctx, motherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mother: %w", err)
	}

	s.auditor.Log(ctx, actorID, "update", "health_record", record.ID, req)
	s.deriveAssessment(ctx, mother)
	s.publishChange(ctx, "record.updated", record)
	return record, nil
}

func (s *Service) GetRecord(ctx context.Context, motherID, recordID uuid.UUID) (*model.HealthRecord, error) {
	record, err := s.recordRepo.Get(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get health record: %w", err)
	}
	if record.MotherID != motherID {
		return nil, apperrors.NotFound("health record", nil)
	}
	return record, nil
}

// UploadAttachment stores a supporting document (lab result, ultrasound
// image) against one record and keeps its storage key on the row.
func (s *Service) UploadAttachment(ctx context.Context, actorID uuid.UUID, motherID, recordID uuid.UUID, filename string, data []byte) (string, error) {
	record, err := s.recordRepo.Get(ctx, recordID)
	if err != nil {
		return "", fmt.Errorf("failed to get health record: %w", err)
	}
	if record.MotherID != motherID {
		return "", apperrors.NotFound("health record", nil)
	}

	key, err := s.store.Upload(ctx, storage.BucketAttachments, fmt.Sprintf("%s/%s/%s", motherID, recordID, filename), data)
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	record.AttachmentKey = key
	if err := s.recordRepo.Update(ctx, record); err != nil {
		return "", fmt.Errorf("failed to save attachment key: %w", err)
	}

	s.auditor.Log(ctx, actorID, "upload_attachment", "health_record", recordID, map[string]string{"key": key})
	return s.store.PublicURL(storage.BucketAttachments, key), nil
}

func (s *Service) ListRecords(ctx context.Context, motherID uuid.UUID) ([]*model.HealthRecord, error) {
	records, err := s.recordRepo.ListByMother(ctx, motherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list health records: %w", err)
	}
	return records, nil
}

// deriveAssessment recomputes the mother's assessment from her latest record
// and upserts it. This is step two of the write path; a failure here is
// logged, not returned, because the record itself is already durable and the
// next aggregation pass will converge the assessment.
func (s *Service) deriveAssessment(ctx context.Context, mother *model.Mother) {
	latest, err := s.recordRepo.GetLatestByMother(ctx, mother.ID)
	if err != nil {
		s.logger.Error(err, "failed to load latest record for assessment", "mother_id", mother.ID.String())
		return
	}

	label := risk.Classify(latest)
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
		LastReadingSummary: risk.Summarize(latest),
		ComputedAt:         time.Now(),
	}

	if err := s.riskRepo.Upsert(ctx, assessment); err != nil {
		s.logger.Error(err, "failed to upsert derived assessment", "mother_id", mother.ID.String())
	}
}

func (s *Service) publishChange(ctx context.Context, eventType string, record *model.HealthRecord) {
	if s.broker == nil {
		return
	}
	err := s.broker.Publish(ctx, messaging.ChannelRecordChanges, messaging.Message{
		Type:    eventType,
		Payload: record,
	})
	if err != nil {
		s.logger.Error(err, "failed to publish record change", "record_id", record.ID.String())
	}
}
