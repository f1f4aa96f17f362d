package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/email"
	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/repository"
	"github.com/rmagbanua/nanaycare-api/internal/service/audit"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
)

type Service struct {
	repo       repository.AppointmentRepository
	motherRepo repository.MotherRepository
	emailSvc   email.Service
	auditor    *audit.Service
	logger     *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	motherRepo repository.MotherRepository,
	emailSvc email.Service,
	auditor *audit.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:       repo,
		motherRepo: motherRepo,
		emailSvc:   emailSvc,
		auditor:    auditor,
		logger:     log,
	}
}

func (s *Service) CreateAppointment(ctx context.Context, actorID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if _, err := s.motherRepo.Get(ctx, req.MotherID); err != nil {
		return nil, fmt.Errorf("failed to get mother: %w", err)
	}

	appt := &model.Appointment{
		Base:        model.Base{ID: uuid.New()},
		MotherID:    req.MotherID,
		ScheduledAt: req.ScheduledAt,
		Location:    req.Location,
		Notes:       req.Notes,
		Status:      model.AppointmentStatusScheduled,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.auditor.Log(ctx, actorID, "create", "appointment", appt.ID, appt)
	return appt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appt, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if req.ScheduledAt != nil {
		appt.ScheduledAt = *req.ScheduledAt
		appt.ReminderSent = false
	}
	if req.Location != nil {
		appt.Location = *req.Location
	}
	if req.Notes != nil {
		appt.Notes = *req.Notes
	}
	if req.Status != nil {
		appt.Status = *req.Status
	}

	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.auditor.Log(ctx, actorID, "update", "appointment", appt.ID, req)
	return appt, nil
}

func (s *Service) CancelAppointment(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get appointment: %w", err)
	}

	appt.Status = model.AppointmentStatusCancelled
	if err := s.repo.Update(ctx, appt); err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.auditor.Log(ctx, actorID, "cancel", "appointment", id, nil)
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// SendDueReminders emails mothers whose scheduled appointments fall inside
// the window and have not been reminded yet. A failed send leaves the
// appointment unmarked so the next pass retries it.
func (s *Service) SendDueReminders(ctx context.Context, window time.Duration) (int, error) {
	now := time.Now()
	due, err := s.repo.ListDueReminders(ctx, now, now.Add(window))
	if err != nil {
		return 0, fmt.Errorf("failed to list due reminders: %w", err)
	}

	sent := 0
	for _, appt := range due {
		mother, err := s.motherRepo.Get(ctx, appt.MotherID)
		if err != nil {
			s.logger.Error(err, "failed to load mother for reminder", "appointment_id", appt.ID.String())
			continue
		}
		if mother.Email == "" {
			continue
		}

		subject := "Appointment reminder"
		body := fmt.Sprintf("Hi %s, you have a checkup on %s at %s.",
			mother.Name, appt.ScheduledAt.Format("January 2 at 15:04"), appt.Location)
		if err := s.emailSvc.SendCustom(ctx, mother.Email, subject, body); err != nil {
			s.logger.Error(err, "failed to send reminder", "appointment_id", appt.ID.String())
			continue
		}

		if err := s.repo.MarkReminderSent(ctx, appt.ID); err != nil {
			s.logger.Error(err, "failed to mark reminder sent", "appointment_id", appt.ID.String())
			continue
		}
		sent++
	}
	return sent, nil
}
