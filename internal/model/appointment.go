package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusMissed    AppointmentStatus = "missed"
)

type Appointment struct {
	Base
	MotherID     uuid.UUID         `db:"mother_id" json:"mother_id"`
	ScheduledAt  time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Location     string            `db:"location" json:"location"`
	Notes        string            `db:"notes" json:"notes,omitempty"`
	Status       AppointmentStatus `db:"status" json:"status"`
	ReminderSent bool              `db:"reminder_sent" json:"reminder_sent"`
}

type CreateAppointmentRequest struct {
	MotherID    uuid.UUID `json:"mother_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	Notes       string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	ScheduledAt *time.Time         `json:"scheduled_at"`
	Location    *string            `json:"location"`
	Notes       *string            `json:"notes"`
	Status      *AppointmentStatus `json:"status" binding:"omitempty,oneof=scheduled completed cancelled missed"`
}

type AppointmentFilters struct {
	MotherID  uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
