package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/repository"
	"github.com/rmagbanua/nanaycare-api/pkg/metrics"
)

type healthRecordRepository struct {
	db *sqlx.DB
	m  *metrics.Metrics
}

func NewHealthRecordRepository(db *sqlx.DB, m *metrics.Metrics) repository.HealthRecordRepository {
	return &healthRecordRepository{db: db, m: m}
}

func (r *healthRecordRepository) Create(ctx context.Context, record *model.HealthRecord) error {
	query := `
		INSERT INTO health_records (id, mother_id, encounter_date, weight_kg, height_cm, bmi,
			blood_pressure, temperature_c, pulse_rate, respiratory_rate, heart_rate,
			diabetes, hypertension, notes, attachment_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.MotherID,
		record.EncounterDate,
		record.WeightKg,
		record.HeightCm,
		record.BMI,
		record.BloodPressure,
		record.TemperatureC,
		record.PulseRate,
		record.RespiratoryRate,
		record.HeartRate,
		record.Diabetes,
		record.Hypertension,
		record.Notes,
		record.AttachmentKey,
		record.CreatedAt,
		record.UpdatedAt,
	)
	observe(r.m, "health_records.insert", start, err)
	if err != nil {
		return fmt.Errorf("failed to create health record: %w", err)
	}
	return nil
}

func (r *healthRecordRepository) Get(ctx context.Context, id uuid.UUID) (*model.HealthRecord, error) {
	query := `SELECT * FROM health_records WHERE id = $1 AND deleted_at IS NULL`
	var record model.HealthRecord
	start := time.Now()
	err := r.db.GetContext(ctx, &record, query, id)
	observe(r.m, "health_records.get", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get health record: %w", err)
	}
	return &record, nil
}

func (r *healthRecordRepository) Update(ctx context.Context, record *model.HealthRecord) error {
	query := `
		UPDATE health_records
		SET encounter_date = $1, weight_kg = $2, height_cm = $3, bmi = $4, blood_pressure = $5,
			temperature_c = $6, pulse_rate = $7, respiratory_rate = $8, heart_rate = $9,
			diabetes = $10, hypertension = $11, notes = $12, attachment_key = $13, updated_at = $14
		WHERE id = $15 AND deleted_at IS NULL
	`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		record.EncounterDate,
		record.WeightKg,
		record.HeightCm,
		record.BMI,
		record.BloodPressure,
		record.TemperatureC,
		record.PulseRate,
		record.RespiratoryRate,
		record.HeartRate,
		record.Diabetes,
		record.Hypertension,
		record.Notes,
		record.AttachmentKey,
		time.Now(),
		record.ID,
	)
	observe(r.m, "health_records.update", start, err)
	return err
}

func (r *healthRecordRepository) ListByMother(ctx context.Context, motherID uuid.UUID) ([]*model.HealthRecord, error) {
	query := `
		SELECT * FROM health_records
		WHERE mother_id = $1 AND deleted_at IS NULL
		ORDER BY encounter_date DESC, id DESC
	`
	var records []*model.HealthRecord
	start := time.Now()
	err := r.db.SelectContext(ctx, &records, query, motherID)
	observe(r.m, "health_records.list_by_mother", start, err)
	return records, err
}

// GetLatestByMother returns the record with the maximum encounter date;
// equal dates are broken by the greater id so the result is deterministic.
func (r *healthRecordRepository) GetLatestByMother(ctx context.Context, motherID uuid.UUID) (*model.HealthRecord, error) {
	query := `
		SELECT * FROM health_records
		WHERE mother_id = $1 AND deleted_at IS NULL
		ORDER BY encounter_date DESC, id DESC
		LIMIT 1
	`
	var record model.HealthRecord
	start := time.Now()
	err := r.db.GetContext(ctx, &record, query, motherID)
	observe(r.m, "health_records.get_latest", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest health record: %w", err)
	}
	return &record, nil
}

// ListLatestPerMother returns one record per mother, the latest by encounter
// date (ties broken by greater id). Zone is matched against the mother row
// when non-empty.
func (r *healthRecordRepository) ListLatestPerMother(ctx context.Context, zone string) ([]*model.HealthRecord, error) {
	query := `
		SELECT DISTINCT ON (hr.mother_id) hr.*
		FROM health_records hr
		JOIN mothers m ON m.id = hr.mother_id AND m.deleted_at IS NULL
		WHERE hr.deleted_at IS NULL
	`
	args := []interface{}{}
	if zone != "" {
		args = append(args, zone)
		query += fmt.Sprintf(" AND m.zone = $%d", len(args))
	}
	query += " ORDER BY hr.mother_id, hr.encounter_date DESC, hr.id DESC"

	var records []*model.HealthRecord
	start := time.Now()
	err := r.db.SelectContext(ctx, &records, query, args...)
	observe(r.m, "health_records.list_latest_per_mother", start, err)
	return records, err
}
