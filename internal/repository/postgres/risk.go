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

type riskRepository struct {
	db *sqlx.DB
	m  *metrics.Metrics
}

func NewRiskRepository(db *sqlx.DB, m *metrics.Metrics) repository.RiskRepository {
	return &riskRepository{db: db, m: m}
}

// Upsert writes an assessment keyed by mother. Last write wins; concurrent
// aggregation passes are not guarded against.
func (r *riskRepository) Upsert(ctx context.Context, assessment *model.RiskAssessment) error {
	query := `
		INSERT INTO risk_assessments (id, mother_id, mother_name, zone, label, status,
			last_reading_summary, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (mother_id) DO UPDATE SET
			mother_name = EXCLUDED.mother_name,
			zone = EXCLUDED.zone,
			label = EXCLUDED.label,
			status = EXCLUDED.status,
			last_reading_summary = EXCLUDED.last_reading_summary,
			computed_at = EXCLUDED.computed_at
	`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		assessment.ID,
		assessment.MotherID,
		assessment.MotherName,
		assessment.Zone,
		assessment.Label,
		assessment.Status,
		assessment.LastReadingSummary,
		assessment.ComputedAt,
	)
	observe(r.m, "risk_assessments.upsert", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert risk assessment: %w", err)
	}
	return nil
}

func (r *riskRepository) GetByMother(ctx context.Context, motherID uuid.UUID) (*model.RiskAssessment, error) {
	query := `SELECT * FROM risk_assessments WHERE mother_id = $1`
	var assessment model.RiskAssessment
	start := time.Now()
	err := r.db.GetContext(ctx, &assessment, query, motherID)
	observe(r.m, "risk_assessments.get_by_mother", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get risk assessment: %w", err)
	}
	return &assessment, nil
}

func (r *riskRepository) UpdateStatus(ctx context.Context, motherID uuid.UUID, status model.RiskStatus) error {
	query := `UPDATE risk_assessments SET status = $1 WHERE mother_id = $2`
	start := time.Now()
	res, err := r.db.ExecContext(ctx, query, status, motherID)
	observe(r.m, "risk_assessments.update_status", start, err)
	if err != nil {
		return fmt.Errorf("failed to update risk status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("no risk assessment for mother %s", motherID)
	}
	return nil
}

func (r *riskRepository) List(ctx context.Context, zone string) ([]*model.RiskAssessment, error) {
	query := `SELECT * FROM risk_assessments`
	args := []interface{}{}
	if zone != "" {
		args = append(args, zone)
		query += " WHERE zone = $1"
	}
	query += " ORDER BY computed_at DESC, mother_name"

	var assessments []*model.RiskAssessment
	start := time.Now()
	err := r.db.SelectContext(ctx, &assessments, query, args...)
	observe(r.m, "risk_assessments.list", start, err)
	return assessments, err
}
