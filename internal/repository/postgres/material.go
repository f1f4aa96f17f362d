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

type materialRepository struct {
	db *sqlx.DB
}

func NewMaterialRepository(db *sqlx.DB) repository.MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, material *model.EducationalMaterial) error {
	query := `
		INSERT INTO educational_materials (id, title, category, body, image_key, published,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	material.CreatedAt = time.Now()
	material.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		material.ID,
		material.Title,
		material.Category,
		material.Body,
		material.ImageKey,
		material.Published,
		material.CreatedAt,
		material.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}
	return nil
}

func (r *materialRepository) Get(ctx context.Context, id uuid.UUID) (*model.EducationalMaterial, error) {
	query := `SELECT * FROM educational_materials WHERE id = $1 AND deleted_at IS NULL`
	var material model.EducationalMaterial
	err := r.db.GetContext(ctx, &material, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	return &material, nil
}

func (r *materialRepository) Update(ctx context.Context, material *model.EducationalMaterial) error {
	query := `
		UPDATE educational_materials
		SET title = $1, category = $2, body = $3, image_key = $4, published = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query,
		material.Title,
		material.Category,
		material.Body,
		material.ImageKey,
		material.Published,
		time.Now(),
		material.ID,
	)
	return err
}

func (r *materialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE educational_materials SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *materialRepository) List(ctx context.Context, publishedOnly bool) ([]*model.EducationalMaterial, error) {
	query := `SELECT * FROM educational_materials WHERE deleted_at IS NULL`
	if publishedOnly {
		query += " AND published = TRUE"
	}
	query += " ORDER BY created_at DESC"

	var materials []*model.EducationalMaterial
	err := r.db.SelectContext(ctx, &materials, query)
	return materials, err
}

func (r *materialRepository) ListRecentPublished(ctx context.Context, limit int) ([]*model.EducationalMaterial, error) {
	query := `
		SELECT * FROM educational_materials
		WHERE deleted_at IS NULL AND published = TRUE
		ORDER BY created_at DESC
		LIMIT $1
	`
	var materials []*model.EducationalMaterial
	err := r.db.SelectContext(ctx, &materials, query, limit)
	return materials, err
}
