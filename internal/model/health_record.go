package model

import (
	"time"

	"github.com/google/uuid"
)

// HealthRecord is one clinical encounter for a mother. Blood pressure is
// stored as "systolic/diastolic" text, matching how field workers enter it.
type HealthRecord struct {
	Base
	MotherID        uuid.UUID `db:"mother_id" json:"mother_id"`
	EncounterDate   time.Time `db:"encounter_date" json:"encounter_date"`
	WeightKg        float64   `db:"weight_kg" json:"weight_kg"`
	HeightCm        float64   `db:"height_cm" json:"height_cm"`
	BMI             float64   `db:"bmi" json:"bmi"`
	BloodPressure   string    `db:"blood_pressure" json:"blood_pressure"`
	TemperatureC    float64   `db:"temperature_c" json:"temperature_c"`
	PulseRate       int       `db:"pulse_rate" json:"pulse_rate"`
	RespiratoryRate int       `db:"respiratory_rate" json:"respiratory_rate"`
	HeartRate       int       `db:"heart_rate" json:"heart_rate"`
	Diabetes        bool      `db:"diabetes" json:"diabetes"`
	Hypertension    bool      `db:"hypertension" json:"hypertension"`
	Notes           string    `db:"notes" json:"notes,omitempty"`
	AttachmentKey   string    `db:"attachment_key" json:"attachment_key,omitempty"`
}

// ComputeBMI derives BMI from weight and height; zero height yields zero.
func (r *HealthRecord) ComputeBMI() float64 {
	if r.HeightCm <= 0 {
		return 0
	}
	m := r.HeightCm / 100
	return r.WeightKg / (m * m)
}

type CreateHealthRecordRequest struct {
	EncounterDate   time.Time `json:"encounter_date" binding:"required"`
	WeightKg        float64   `json:"weight_kg" binding:"required"`
	HeightCm        float64   `json:"height_cm"`
	BloodPressure   string    `json:"blood_pressure"`
	TemperatureC    float64   `json:"temperature_c"`
	PulseRate       int       `json:"pulse_rate"`
	RespiratoryRate int       `json:"respiratory_rate"`
	HeartRate       int       `json:"heart_rate"`
	Diabetes        bool      `json:"diabetes"`
	Hypertension    bool      `json:"hypertension"`
	Notes           string    `json:"notes" binding:"max=2000"`
}

type UpdateHealthRecordRequest struct {
	EncounterDate   *time.Time `json:"encounter_date"`
	WeightKg        *float64   `json:"weight_kg"`
	HeightCm        *float64   `json:"height_cm"`
	BloodPressure   *string    `json:"blood_pressure"`
	TemperatureC    *float64   `json:"temperature_c"`
	PulseRate       *int       `json:"pulse_rate"`
	RespiratoryRate *int       `json:"respiratory_rate"`
	HeartRate       *int       `json:"heart_rate"`
	Diabetes        *bool      `json:"diabetes"`
	Hypertension    *bool      `json:"hypertension"`
	Notes           *string    `json:"notes" binding:"omitempty,max=2000"`
}
