package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/service/audit"
	"github.com/rmagbanua/nanaycare-api/internal/storage"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
)

type fakeMotherRepo struct {
	mothers map[uuid.UUID]*model.Mother
}

func (f *fakeMotherRepo) Create(context.Context, *model.Mother) error { return nil }
func (f *fakeMotherRepo) Get(_ context.Context, id uuid.UUID) (*model.Mother, error) {
	m, ok := f.mothers[id]
	if !ok {
		return nil, errors.New("mother not found")
	}
	return m, nil
}
func (f *fakeMotherRepo) Update(context.Context, *model.Mother) error { return nil }
func (f *fakeMotherRepo) SoftDelete(context.Context, uuid.UUID) error { return nil }
func (f *fakeMotherRepo) List(context.Context, *model.MotherFilters) ([]*model.Mother, error) {
	return nil, nil
}

type fakeRecordRepo struct {
	records   map[uuid.UUID]*model.HealthRecord
	latestErr error
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[uuid.UUID]*model.HealthRecord)}
}

func (f *fakeRecordRepo) Create(_ context.Context, record *model.HealthRecord) error {
	f.records[record.ID] = record
	return nil
}
func (f *fakeRecordRepo) Get(_ context.Context, id uuid.UUID) (*model.HealthRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return rec, nil
}
func (f *fakeRecordRepo) Update(_ context.Context, record *model.HealthRecord) error {
	f.records[record.ID] = record
	return nil
}
func (f *fakeRecordRepo) ListByMother(_ context.Context, motherID uuid.UUID) ([]*model.HealthRecord, error) {
	var out []*model.HealthRecord
	for _, rec := range f.records {
		if rec.MotherID == motherID {
			out = append(out, rec)
		}
	}
	return out, nil
}
func (f *fakeRecordRepo) GetLatestByMother(_ context.Context, motherID uuid.UUID) (*model.HealthRecord, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	var latest *model.HealthRecord
	for _, rec := range f.records {
		if rec.MotherID != motherID {
			continue
		}
		if latest == nil || rec.EncounterDate.After(latest.EncounterDate) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, errors.New("no records")
	}
	return latest, nil
}
func (f *fakeRecordRepo) ListLatestPerMother(context.Context, string) ([]*model.HealthRecord, error) {
	return nil, nil
}

type fakeRiskRepo struct {
	assessments map[uuid.UUID]*model.RiskAssessment
	upserts     int
}

func newFakeRiskRepo() *fakeRiskRepo {
	return &fakeRiskRepo{assessments: make(map[uuid.UUID]*model.RiskAssessment)}
}

func (f *fakeRiskRepo) Upsert(_ context.Context, a *model.RiskAssessment) error {
	f.upserts++
	f.assessments[a.MotherID] = a
	return nil
}
func (f *fakeRiskRepo) GetByMother(_ context.Context, motherID uuid.UUID) (*model.RiskAssessment, error) {
	return f.assessments[motherID], nil
}
func (f *fakeRiskRepo) UpdateStatus(_ context.Context, motherID uuid.UUID, status model.RiskStatus) error {
	f.assessments[motherID].Status = status
	return nil
}
func (f *fakeRiskRepo) List(context.Context, string) ([]*model.RiskAssessment, error) {
	return nil, nil
}

type fakeBlobStore struct {
	uploads map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: make(map[string][]byte)}
}

func (f *fakeBlobStore) Upload(_ context.Context, bucket storage.Bucket, key string, data []byte) (string, error) {
	f.uploads[string(bucket)+"/"+key] = data
	return key, nil
}

func (f *fakeBlobStore) PublicURL(bucket storage.Bucket, key string) string {
	return "https://cdn.example.com/" + string(bucket) + "/" + key
}

type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, log *model.AuditLog) error {
	f.entries = append(f.entries, log)
	return nil
}
func (f *fakeAuditRepo) List(context.Context, string, uuid.UUID) ([]*model.AuditLog, error) {
	return nil, nil
}
func (f *fakeAuditRepo) DeleteBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func newTestService(mothers *fakeMotherRepo, records *fakeRecordRepo, risks *fakeRiskRepo, audits *fakeAuditRepo) *Service {
	log := logger.NewLogger(nil)
	return NewService(records, mothers, risks, audit.NewService(audits, log), nil, newFakeBlobStore(), log)
}

func TestCreateRecordDerivesAssessment(t *testing.T) {
	motherID := uuid.New()
	mothers := &fakeMotherRepo{mothers: map[uuid.UUID]*model.Mother{
		motherID: {Base: model.Base{ID: motherID}, Name: "Liza Reyes", Zone: "purok-2"},
	}}
	records := newFakeRecordRepo()
	risks := newFakeRiskRepo()
	audits := &fakeAuditRepo{}
	svc := newTestService(mothers, records, risks, audits)

	rec, err := svc.CreateRecord(context.Background(), uuid.New(), motherID, &model.CreateHealthRecordRequest{
		EncounterDate: time.Now(),
		WeightKg:      52,
		BloodPressure: "150/95",
		TemperatureC:  36.8,
	})
	require.NoError(t, err)
	require.NotNil(t, rec)

	assessment := risks.assessments[motherID]
	require.NotNil(t, assessment, "write path must upsert an assessment")
	assert.Equal(t, model.RiskHighBloodPressure, assessment.Label)
	assert.Equal(t, model.RiskStatusPending, assessment.Status)
	assert.Equal(t, "Liza Reyes", assessment.MotherName)
	assert.Len(t, audits.entries, 1)
}

func TestCreateRecordSurvivesAssessmentFailure(t *testing.T) {
	motherID := uuid.New()
	mothers := &fakeMotherRepo{mothers: map[uuid.UUID]*model.Mother{
		motherID: {Base: model.Base{ID: motherID}, Name: "Ana Cruz", Zone: "purok-1"},
	}}
	records := newFakeRecordRepo()
	records.latestErr = errors.New("db unavailable")
	risks := newFakeRiskRepo()
	svc := newTestService(mothers, records, risks, &fakeAuditRepo{})

	rec, err := svc.CreateRecord(context.Background(), uuid.New(), motherID, &model.CreateHealthRecordRequest{
		EncounterDate: time.Now(),
		WeightKg:      55,
	})
	require.NoError(t, err, "record write succeeds even when derivation fails")
	require.NotNil(t, rec)
	assert.Zero(t, risks.upserts)
	assert.Contains(t, records.records, rec.ID)
}

func TestUpdateRecordRecomputesLabel(t *testing.T) {
	motherID := uuid.New()
	mothers := &fakeMotherRepo{mothers: map[uuid.UUID]*model.Mother{
		motherID: {Base: model.Base{ID: motherID}, Name: "Maria Santos", Zone: "purok-3"},
	}}
	records := newFakeRecordRepo()
	risks := newFakeRiskRepo()
	svc := newTestService(mothers, records, risks, &fakeAuditRepo{})

	rec, err := svc.CreateRecord(context.Background(), uuid.New(), motherID, &model.CreateHealthRecordRequest{
		EncounterDate: time.Now(),
		WeightKg:      60,
		TemperatureC:  39.2,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RiskFever, risks.assessments[motherID].Label)

	normal := 37.0
	_, err = svc.UpdateRecord(context.Background(), uuid.New(), motherID, rec.ID, &model.UpdateHealthRecordRequest{
		TemperatureC: &normal,
	})
	require.NoError(t, err)

	assessment := risks.assessments[motherID]
	assert.Equal(t, model.RiskStable, assessment.Label)
	assert.Equal(t, model.RiskStatusStable, assessment.Status)
}

func TestUpdateRecordRejectsForeignRecord(t *testing.T) {
	motherID := uuid.New()
	otherMotherID := uuid.New()
	mothers := &fakeMotherRepo{mothers: map[uuid.UUID]*model.Mother{
		motherID:      {Base: model.Base{ID: motherID}},
		otherMotherID: {Base: model.Base{ID: otherMotherID}},
	}}
	records := newFakeRecordRepo()
	risks := newFakeRiskRepo()
	svc := newTestService(mothers, records, risks, &fakeAuditRepo{})

	rec, err := svc.CreateRecord(context.Background(), uuid.New(), motherID, &model.CreateHealthRecordRequest{
		EncounterDate: time.Now(),
		WeightKg:      58,
	})
	require.NoError(t, err)

	notes := "tampered"
	_, err = svc.UpdateRecord(context.Background(), uuid.New(), otherMotherID, rec.ID, &model.UpdateHealthRecordRequest{
		Notes: &notes,
	})
	assert.Error(t, err)

	_, err = svc.GetRecord(context.Background(), otherMotherID, rec.ID)
	assert.Error(t, err)
}

func TestUpdateRecordEditsRespiratoryAndHeartRate(t *testing.T) {
	motherID := uuid.New()
	mothers := &fakeMotherRepo{mothers: map[uuid.UUID]*model.Mother{
		motherID: {Base: model.Base{ID: motherID}, Name: "Maria Santos"},
	}}
	records := newFakeRecordRepo()
	svc := newTestService(mothers, records, newFakeRiskRepo(), &fakeAuditRepo{})

	rec, err := svc.CreateRecord(context.Background(), uuid.New(), motherID, &model.CreateHealthRecordRequest{
		EncounterDate:   time.Now(),
		WeightKg:        60,
		RespiratoryRate: 18,
		HeartRate:       80,
	})
	require.NoError(t, err)

	respiratory := 22
	heart := 95
	updated, err := svc.UpdateRecord(context.Background(), uuid.New(), motherID, rec.ID, &model.UpdateHealthRecordRequest{
		RespiratoryRate: &respiratory,
		HeartRate:       &heart,
	})
	require.NoError(t, err)

	assert.Equal(t, 22, updated.RespiratoryRate)
	assert.Equal(t, 95, updated.HeartRate)
	assert.Equal(t, 22, records.records[rec.ID].RespiratoryRate)
	assert.Equal(t, 95, records.records[rec.ID].HeartRate)
}

func TestUploadAttachmentStoresKey(t *testing.T) {
	motherID := uuid.New()
	mothers := &fakeMotherRepo{mothers: map[uuid.UUID]*model.Mother{
		motherID: {Base: model.Base{ID: motherID}, Name: "Ana Cruz"},
	}}
	records := newFakeRecordRepo()
	store := newFakeBlobStore()
	log := logger.NewLogger(nil)
	svc := NewService(records, mothers, newFakeRiskRepo(), audit.NewService(&fakeAuditRepo{}, log), nil, store, log)

	rec, err := svc.CreateRecord(context.Background(), uuid.New(), motherID, &model.CreateHealthRecordRequest{
		EncounterDate: time.Now(),
		WeightKg:      55,
	})
	require.NoError(t, err)

	url, err := svc.UploadAttachment(context.Background(), uuid.New(), motherID, rec.ID, "lab-result.pdf", []byte("pdf-bytes"))
	require.NoError(t, err)

	assert.Contains(t, url, "lab-result.pdf")
	assert.NotEmpty(t, records.records[rec.ID].AttachmentKey)
	assert.Len(t, store.uploads, 1)

	// An attachment for another mother's record is refused.
	_, err = svc.UploadAttachment(context.Background(), uuid.New(), uuid.New(), rec.ID, "lab-result.pdf", []byte("pdf-bytes"))
	assert.Error(t, err)
}

func TestComputeBMI(t *testing.T) {
	rec := &model.HealthRecord{WeightKg: 60, HeightCm: 150}
	assert.InDelta(t, 26.67, rec.ComputeBMI(), 0.01)

	rec = &model.HealthRecord{WeightKg: 60}
	assert.Zero(t, rec.ComputeBMI())
}
