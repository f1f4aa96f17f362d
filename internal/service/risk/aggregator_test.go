package risk

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
)

type fakeMotherRepo struct {
	mothers []*model.Mother
}

func (f *fakeMotherRepo) Create(context.Context, *model.Mother) error { return nil }
func (f *fakeMotherRepo) Get(context.Context, uuid.UUID) (*model.Mother, error) {
	return nil, nil
}
func (f *fakeMotherRepo) Update(context.Context, *model.Mother) error { return nil }
func (f *fakeMotherRepo) SoftDelete(context.Context, uuid.UUID) error { return nil }
func (f *fakeMotherRepo) List(_ context.Context, filters *model.MotherFilters) ([]*model.Mother, error) {
	if filters == nil || filters.Zone == "" {
		return f.mothers, nil
	}
	var out []*model.Mother
	for _, m := range f.mothers {
		if m.Zone == filters.Zone {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeRecordRepo struct {
	latest map[uuid.UUID]*model.HealthRecord
}

func (f *fakeRecordRepo) Create(context.Context, *model.HealthRecord) error { return nil }
func (f *fakeRecordRepo) Get(context.Context, uuid.UUID) (*model.HealthRecord, error) {
	return nil, nil
}
func (f *fakeRecordRepo) Update(context.Context, *model.HealthRecord) error { return nil }
func (f *fakeRecordRepo) ListByMother(context.Context, uuid.UUID) ([]*model.HealthRecord, error) {
	return nil, nil
}
func (f *fakeRecordRepo) GetLatestByMother(_ context.Context, motherID uuid.UUID) (*model.HealthRecord, error) {
	return f.latest[motherID], nil
}
func (f *fakeRecordRepo) ListLatestPerMother(context.Context, string) ([]*model.HealthRecord, error) {
	var out []*model.HealthRecord
	for _, rec := range f.latest {
		out = append(out, rec)
	}
	return out, nil
}

type fakeRiskRepo struct {
	assessments map[uuid.UUID]*model.RiskAssessment
}

func newFakeRiskRepo() *fakeRiskRepo {
	return &fakeRiskRepo{assessments: make(map[uuid.UUID]*model.RiskAssessment)}
}

func (f *fakeRiskRepo) Upsert(_ context.Context, a *model.RiskAssessment) error {
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
func (f *fakeRiskRepo) List(_ context.Context, zone string) ([]*model.RiskAssessment, error) {
	var out []*model.RiskAssessment
	for _, a := range f.assessments {
		if zone == "" || a.Zone == zone {
			out = append(out, a)
		}
	}
	return out, nil
}

func newTestService(mothers *fakeMotherRepo, records *fakeRecordRepo, risks *fakeRiskRepo) *Service {
	return NewService(mothers, records, risks, nil, logger.NewLogger(nil), time.Second)
}

func mother(name, zone string) *model.Mother {
	return &model.Mother{
		Base: model.Base{ID: uuid.New()},
		Name: name,
		Zone: zone,
	}
}

func record(motherID uuid.UUID, bp string, temp, weight float64) *model.HealthRecord {
	return &model.HealthRecord{
		Base:          model.Base{ID: uuid.New()},
		MotherID:      motherID,
		EncounterDate: time.Now(),
		BloodPressure: bp,
		TemperatureC:  temp,
		WeightKg:      weight,
	}
}

func TestRunPassExcludesMothersWithoutRecords(t *testing.T) {
	withRecord := mother("Ana Reyes", "Zone 1")
	noRecord := mother("Liza Cruz", "Zone 1")

	mothers := &fakeMotherRepo{mothers: []*model.Mother{withRecord, noRecord}}
	records := &fakeRecordRepo{latest: map[uuid.UUID]*model.HealthRecord{
		withRecord.ID: record(withRecord.ID, "110/70", 37, 60),
	}}
	risks := newFakeRiskRepo()

	result, err := newTestService(mothers, records, risks).RunPass(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, result.Roster, 1)
	assert.Equal(t, withRecord.ID, result.Roster[0].MotherID)
	_, hasExcluded := risks.assessments[noRecord.ID]
	assert.False(t, hasExcluded, "mother without records must not be assessed")
}

func TestRunPassPersistsAssessments(t *testing.T) {
	m := mother("Ana Reyes", "Zone 2")
	mothers := &fakeMotherRepo{mothers: []*model.Mother{m}}
	records := &fakeRecordRepo{latest: map[uuid.UUID]*model.HealthRecord{
		m.ID: record(m.ID, "150/95", 37, 60),
	}}
	risks := newFakeRiskRepo()

	result, err := newTestService(mothers, records, risks).RunPass(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.AtRisk)
	stored := risks.assessments[m.ID]
	require.NotNil(t, stored)
	assert.Equal(t, model.RiskHighBloodPressure, stored.Label)
	assert.Equal(t, model.RiskStatusPending, stored.Status)
	assert.Equal(t, "Zone 2", stored.Zone)
	assert.Contains(t, stored.LastReadingSummary, "150/95")
}

func TestRunPassIdempotentLabels(t *testing.T) {
	m := mother("Ana Reyes", "")
	mothers := &fakeMotherRepo{mothers: []*model.Mother{m}}
	records := &fakeRecordRepo{latest: map[uuid.UUID]*model.HealthRecord{
		m.ID: record(m.ID, "110/70", 39, 60),
	}}
	risks := newFakeRiskRepo()
	svc := newTestService(mothers, records, risks)

	first, err := svc.RunPass(context.Background(), "")
	require.NoError(t, err)
	second, err := svc.RunPass(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, first.Roster[0].Label, second.Roster[0].Label)
	assert.Equal(t, model.RiskFever, second.Roster[0].Label)
}

func TestRunPassOverwritesManualOverride(t *testing.T) {
	m := mother("Ana Reyes", "")
	mothers := &fakeMotherRepo{mothers: []*model.Mother{m}}
	records := &fakeRecordRepo{latest: map[uuid.UUID]*model.HealthRecord{
		m.ID: record(m.ID, "150/95", 37, 60),
	}}
	risks := newFakeRiskRepo()
	svc := newTestService(mothers, records, risks)

	_, err := svc.RunPass(context.Background(), "")
	require.NoError(t, err)

	// Human acknowledgement lasts only until the next pass.
	require.NoError(t, svc.UpdateStatus(context.Background(), m.ID, model.RiskStatusStable))
	assert.Equal(t, model.RiskStatusStable, risks.assessments[m.ID].Status)

	_, err = svc.RunPass(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, model.RiskStatusPending, risks.assessments[m.ID].Status)
	assert.Equal(t, model.RiskHighBloodPressure, risks.assessments[m.ID].Label)
}

func TestRunPassDeltaNotice(t *testing.T) {
	stable := mother("Ana Reyes", "")
	risky := mother("Liza Cruz", "")
	mothers := &fakeMotherRepo{mothers: []*model.Mother{stable, risky}}
	records := &fakeRecordRepo{latest: map[uuid.UUID]*model.HealthRecord{
		stable.ID: record(stable.ID, "110/70", 37, 60),
	}}
	risks := newFakeRiskRepo()
	svc := newTestService(mothers, records, risks)

	// Fresh process, one at-risk mother appears against a zero baseline.
	records.latest[risky.ID] = record(risky.ID, "110/70", 39.2, 60)
	first, err := svc.RunPass(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, first.NewAtRisk)
	assert.Equal(t, "1 new at-risk mother", first.DeltaNote)

	// No change, no notice.
	second, err := svc.RunPass(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, second.NewAtRisk)
	assert.Empty(t, second.DeltaNote)

	// Previously stable mother deteriorates.
	records.latest[stable.ID] = record(stable.ID, "145/80", 37, 60)
	third, err := svc.RunPass(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, third.NewAtRisk)
	assert.Equal(t, 2, third.AtRisk)
}

func TestAssessmentReturnsPersisted(t *testing.T) {
	m := mother("Ana Reyes", "Zone 1")
	mothers := &fakeMotherRepo{mothers: []*model.Mother{m}}
	records := &fakeRecordRepo{latest: map[uuid.UUID]*model.HealthRecord{
		m.ID: record(m.ID, "150/95", 37, 60),
	}}
	risks := newFakeRiskRepo()
	svc := newTestService(mothers, records, risks)

	_, err := svc.RunPass(context.Background(), "")
	require.NoError(t, err)

	assessment, err := svc.Assessment(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RiskHighBloodPressure, assessment.Label)
	assert.Equal(t, "Ana Reyes", assessment.MotherName)
}

func TestAssessmentUnknownMother(t *testing.T) {
	svc := newTestService(&fakeMotherRepo{}, &fakeRecordRepo{}, newFakeRiskRepo())

	_, err := svc.Assessment(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestRunPassZoneScoping(t *testing.T) {
	inZone := mother("Ana Reyes", "Zone 1")
	outZone := mother("Liza Cruz", "Zone 2")
	mothers := &fakeMotherRepo{mothers: []*model.Mother{inZone, outZone}}
	records := &fakeRecordRepo{latest: map[uuid.UUID]*model.HealthRecord{
		inZone.ID:  record(inZone.ID, "110/70", 37, 60),
		outZone.ID: record(outZone.ID, "110/70", 37, 60),
	}}
	risks := newFakeRiskRepo()

	result, err := newTestService(mothers, records, risks).RunPass(context.Background(), "Zone 1")
	require.NoError(t, err)

	require.Len(t, result.Roster, 1)
	assert.Equal(t, inZone.ID, result.Roster[0].MotherID)
}
