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

type qaRepository struct {
	db *sqlx.DB
}

func NewQARepository(db *sqlx.DB) repository.QARepository {
	return &qaRepository{db: db}
}

func (r *qaRepository) Create(ctx context.Context, entry *model.QAEntry) error {
	query := `
		INSERT INTO qa_entries (id, question, answer, keywords, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	entry.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Question,
		entry.Answer,
		entry.Keywords,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create QA entry: %w", err)
	}
	return nil
}

func (r *qaRepository) List(ctx context.Context) ([]*model.QAEntry, error) {
	query := `SELECT * FROM qa_entries ORDER BY created_at DESC`
	var entries []*model.QAEntry
	err := r.db.SelectContext(ctx, &entries, query)
	return entries, err
}

func (r *qaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM qa_entries WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
