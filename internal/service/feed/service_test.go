package feed

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
)

type fakeAppointmentRepo struct {
	upcoming []*model.Appointment
}

func (f *fakeAppointmentRepo) Create(context.Context, *model.Appointment) error { return nil }
func (f *fakeAppointmentRepo) Get(context.Context, uuid.UUID) (*model.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) Update(context.Context, *model.Appointment) error { return nil }
func (f *fakeAppointmentRepo) Delete(context.Context, uuid.UUID) error          { return nil }
func (f *fakeAppointmentRepo) List(context.Context, *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) ListUpcoming(_ context.Context, _ uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range f.upcoming {
		if !a.ScheduledAt.Before(from) && a.ScheduledAt.Before(to) {
			out = append(out, a)
		}
	}
	return out, nil
}
func (f *fakeAppointmentRepo) ListDueReminders(context.Context, time.Time, time.Time) ([]*model.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) MarkReminderSent(context.Context, uuid.UUID) error { return nil }

type fakeMaterialRepo struct {
	published []*model.EducationalMaterial
}

func (f *fakeMaterialRepo) Create(context.Context, *model.EducationalMaterial) error { return nil }
func (f *fakeMaterialRepo) Get(context.Context, uuid.UUID) (*model.EducationalMaterial, error) {
	return nil, nil
}
func (f *fakeMaterialRepo) Update(context.Context, *model.EducationalMaterial) error { return nil }
func (f *fakeMaterialRepo) Delete(context.Context, uuid.UUID) error                  { return nil }
func (f *fakeMaterialRepo) List(context.Context, bool) ([]*model.EducationalMaterial, error) {
	return nil, nil
}
func (f *fakeMaterialRepo) ListRecentPublished(_ context.Context, limit int) ([]*model.EducationalMaterial, error) {
	if len(f.published) > limit {
		return f.published[:limit], nil
	}
	return f.published, nil
}

type fakeRecordRepo struct {
	latest    *model.HealthRecord
	latestErr error
}

func (f *fakeRecordRepo) Create(context.Context, *model.HealthRecord) error { return nil }
func (f *fakeRecordRepo) Get(context.Context, uuid.UUID) (*model.HealthRecord, error) {
	return nil, nil
}
func (f *fakeRecordRepo) Update(context.Context, *model.HealthRecord) error { return nil }
func (f *fakeRecordRepo) ListByMother(context.Context, uuid.UUID) ([]*model.HealthRecord, error) {
	return nil, nil
}
func (f *fakeRecordRepo) GetLatestByMother(context.Context, uuid.UUID) (*model.HealthRecord, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	if f.latest == nil {
		return nil, fmt.Errorf("failed to get latest health record: %w", sql.ErrNoRows)
	}
	return f.latest, nil
}
func (f *fakeRecordRepo) ListLatestPerMother(context.Context, string) ([]*model.HealthRecord, error) {
	return nil, nil
}

func newTestService(appts *fakeAppointmentRepo, mats *fakeMaterialRepo, recs *fakeRecordRepo, now time.Time) *Service {
	svc := NewService(appts, mats, recs, Config{AppointmentWindowDays: 3, RecentMaterials: 3}, logger.NewLogger(nil))
	svc.now = func() time.Time { return now }
	return svc
}

func TestCompileEmptyForUnresolvedMother(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeMaterialRepo{}, &fakeRecordRepo{}, time.Now())

	items, err := svc.Compile(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCompileMergesAndSortsDescending(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	motherID := uuid.New()

	appts := &fakeAppointmentRepo{upcoming: []*model.Appointment{
		{
			Base:        model.Base{ID: uuid.New()},
			MotherID:    motherID,
			ScheduledAt: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
			Location:    "Barangay Health Station",
			Status:      model.AppointmentStatusScheduled,
		},
	}}
	mats := &fakeMaterialRepo{published: []*model.EducationalMaterial{
		{
			Base:     model.Base{ID: uuid.New(), CreatedAt: now.AddDate(0, 0, -1)},
			Title:    "Iron-Rich Foods",
			Category: model.CategoryNutrition,
		},
	}}

	svc := newTestService(appts, mats, &fakeRecordRepo{}, now)
	items, err := svc.Compile(context.Background(), motherID)
	require.NoError(t, err)

	// Appointment, material, and the evergreen tips.
	require.GreaterOrEqual(t, len(items), 2)

	var apptItem, matItem *model.FeedItem
	for _, item := range items {
		switch item.Source {
		case model.SourceAppointment:
			apptItem = item
		case model.SourceMaterial:
			matItem = item
		}
	}
	require.NotNil(t, apptItem)
	require.NotNil(t, matItem)
	assert.Contains(t, apptItem.Message, "today")
	assert.Contains(t, apptItem.Message, "14:00")
	assert.Contains(t, matItem.Message, "Iron-Rich Foods")
	assert.Contains(t, matItem.Message, "nutrition")

	for i := 1; i < len(items); i++ {
		assert.False(t, items[i-1].Timestamp.Before(items[i].Timestamp),
			"feed must be descending by timestamp")
	}
	// The 14:00 appointment is the most recent timestamp in this fixture.
	assert.Equal(t, model.SourceAppointment, items[0].Source)
}

func TestCompileFutureAppointmentMessage(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	motherID := uuid.New()

	appts := &fakeAppointmentRepo{upcoming: []*model.Appointment{
		{
			Base:        model.Base{ID: uuid.New()},
			MotherID:    motherID,
			ScheduledAt: time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC),
			Location:    "Rural Health Unit II",
			Status:      model.AppointmentStatusScheduled,
		},
	}}

	svc := newTestService(appts, &fakeMaterialRepo{}, &fakeRecordRepo{}, now)
	items, err := svc.Compile(context.Background(), motherID)
	require.NoError(t, err)

	var apptItem *model.FeedItem
	for _, item := range items {
		if item.Source == model.SourceAppointment {
			apptItem = item
		}
	}
	require.NotNil(t, apptItem)
	assert.Contains(t, apptItem.Message, "2 day(s)")
	assert.Contains(t, apptItem.Message, "Rural Health Unit II")
}

func TestCompileCarriesRecordNotesVerbatim(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	motherID := uuid.New()

	recs := &fakeRecordRepo{latest: &model.HealthRecord{
		Base:          model.Base{ID: uuid.New()},
		MotherID:      motherID,
		EncounterDate: now.AddDate(0, 0, -2),
		Notes:         "Advise bed rest; follow up in 1 week",
	}}

	svc := newTestService(&fakeAppointmentRepo{}, &fakeMaterialRepo{}, recs, now)
	items, err := svc.Compile(context.Background(), motherID)
	require.NoError(t, err)

	var healthItem *model.FeedItem
	for _, item := range items {
		if item.Source == model.SourceHealth {
			healthItem = item
		}
	}
	require.NotNil(t, healthItem)
	assert.Contains(t, healthItem.Message, "Advise bed rest; follow up in 1 week")
	assert.Contains(t, healthItem.Message, "March 8, 2025")
}

func TestCompileLogsRecordLookupFailure(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	recs := &fakeRecordRepo{latestErr: errors.New("connection refused")}

	var buf bytes.Buffer
	svc := NewService(&fakeAppointmentRepo{}, &fakeMaterialRepo{}, recs,
		Config{AppointmentWindowDays: 3, RecentMaterials: 3},
		logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: &buf}))
	svc.now = func() time.Time { return now }

	items, err := svc.Compile(context.Background(), uuid.New())
	require.NoError(t, err, "a record lookup failure must not fail the whole feed")

	for _, item := range items {
		assert.NotEqual(t, model.SourceHealth, item.Source)
	}
	assert.Contains(t, buf.String(), "failed to load latest record for feed")
}

func TestCompileSilentOnNoRecords(t *testing.T) {
	var buf bytes.Buffer
	svc := NewService(&fakeAppointmentRepo{}, &fakeMaterialRepo{}, &fakeRecordRepo{},
		Config{AppointmentWindowDays: 3, RecentMaterials: 3},
		logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: &buf}))

	_, err := svc.Compile(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, buf.String(), "the no-rows case is not an error worth logging")
}

func TestCompileAlwaysIncludesSystemTips(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeMaterialRepo{}, &fakeRecordRepo{}, time.Now())

	items, err := svc.Compile(context.Background(), uuid.New())
	require.NoError(t, err)

	var tips int
	for _, item := range items {
		if item.Source == model.SourceSystem {
			tips++
		}
	}
	assert.Equal(t, len(systemTips), tips)
}
