package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/repository"
)

type motherRepository struct {
	db *sqlx.DB
}

func NewMotherRepository(db *sqlx.DB) repository.MotherRepository {
	return &motherRepository{db: db}
}

func (r *motherRepository) Create(ctx context.Context, mother *model.Mother) error {
	query := `
		INSERT INTO mothers (id, name, address, zone, contact_number, email, date_of_birth,
			expected_delivery, pregnancy_month, photo_key, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	mother.CreatedAt = time.Now()
	mother.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		mother.ID,
		mother.Name,
		mother.Address,
		mother.Zone,
		mother.ContactNumber,
		mother.Email,
		mother.DateOfBirth,
		mother.ExpectedDelivery,
		mother.PregnancyMonth,
		mother.PhotoKey,
		mother.UserID,
		mother.CreatedAt,
		mother.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create mother: %w", err)
	}
	return nil
}

func (r *motherRepository) Get(ctx context.Context, id uuid.UUID) (*model.Mother, error) {
	query := `SELECT * FROM mothers WHERE id = $1 AND deleted_at IS NULL`
	var mother model.Mother
	err := r.db.GetContext(ctx, &mother, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get mother: %w", err)
	}
	return &mother, nil
}

func (r *motherRepository) Update(ctx context.Context, mother *model.Mother) error {
	query := `
		UPDATE mothers
		SET name = $1, address = $2, zone = $3, contact_number = $4, email = $5,
			expected_delivery = $6, pregnancy_month = $7, photo_key = $8, updated_at = $9
		WHERE id = $10 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query,
		mother.Name,
		mother.Address,
		mother.Zone,
		mother.ContactNumber,
		mother.Email,
		mother.ExpectedDelivery,
		mother.PregnancyMonth,
		mother.PhotoKey,
		time.Now(),
		mother.ID,
	)
	return err
}

// SoftDelete marks the row deleted; mothers are never hard-deleted.
func (r *motherRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE mothers SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *motherRepository) List(ctx context.Context, filters *model.MotherFilters) ([]*model.Mother, error) {
	query := `SELECT * FROM mothers WHERE deleted_at IS NULL`
	args := []interface{}{}

	if filters != nil && filters.Zone != "" {
		args = append(args, filters.Zone)
		query += fmt.Sprintf(" AND zone = $%d", len(args))
	}
	if filters != nil && filters.SearchTerm != "" {
		args = append(args, "%"+filters.SearchTerm+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	query += " ORDER BY name"

	var mothers []*model.Mother
	err := r.db.SelectContext(ctx, &mothers, query, args...)
	return mothers, err
}
