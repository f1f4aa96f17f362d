package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/model"
)

// All repository interfaces in one file
type (
	MotherRepository interface {
		Create(ctx context.Context, mother *model.Mother) error
		Get(ctx context.Context, id uuid.UUID) (*model.Mother, error)
		Update(ctx context.Context, mother *model.Mother) error
		SoftDelete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.MotherFilters) ([]*model.Mother, error)
	}

	HealthRecordRepository interface {
		Create(ctx context.Context, record *model.HealthRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.HealthRecord, error)
		Update(ctx context.Context, record *model.HealthRecord) error
		ListByMother(ctx context.Context, motherID uuid.UUID) ([]*model.HealthRecord, error)
		GetLatestByMother(ctx context.Context, motherID uuid.UUID) (*model.HealthRecord, error)
		ListLatestPerMother(ctx context.Context, zone string) ([]*model.HealthRecord, error)
	}

	RiskRepository interface {
		Upsert(ctx context.Context, assessment *model.RiskAssessment) error
		GetByMother(ctx context.Context, motherID uuid.UUID) (*model.RiskAssessment, error)
		UpdateStatus(ctx context.Context, motherID uuid.UUID, status model.RiskStatus) error
		List(ctx context.Context, zone string) ([]*model.RiskAssessment, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		ListUpcoming(ctx context.Context, motherID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
		ListDueReminders(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
		MarkReminderSent(ctx context.Context, id uuid.UUID) error
	}

	MaterialRepository interface {
		Create(ctx context.Context, material *model.EducationalMaterial) error
		Get(ctx context.Context, id uuid.UUID) (*model.EducationalMaterial, error)
		Update(ctx context.Context, material *model.EducationalMaterial) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, publishedOnly bool) ([]*model.EducationalMaterial, error)
		ListRecentPublished(ctx context.Context, limit int) ([]*model.EducationalMaterial, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
	}

	QARepository interface {
		Create(ctx context.Context, entry *model.QAEntry) error
		List(ctx context.Context) ([]*model.QAEntry, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	AuditRepository interface {
		Create(ctx context.Context, log *model.AuditLog) error
		List(ctx context.Context, resourceType string, resourceID uuid.UUID) ([]*model.AuditLog, error)
		DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}
)
