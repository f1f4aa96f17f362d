package mother

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/repository"
	"github.com/rmagbanua/nanaycare-api/internal/service/audit"
	"github.com/rmagbanua/nanaycare-api/internal/storage"
	apperrors "github.com/rmagbanua/nanaycare-api/pkg/errors"
)

type Service struct {
	repo    repository.MotherRepository
	auditor *audit.Service
	store   storage.BlobStore
}

func NewService(repo repository.MotherRepository, auditor *audit.Service, store storage.BlobStore) *Service {
	return &Service{repo: repo, auditor: auditor, store: store}
}

func (s *Service) CreateMother(ctx context.Context, actorID uuid.UUID, req *model.CreateMotherRequest) (*model.Mother, error) {
	m := &model.Mother{
		Base:             model.Base{ID: uuid.New()},
		Name:             req.Name,
		Address:          req.Address,
		Zone:             req.Zone,
		ContactNumber:    req.ContactNumber,
		Email:            req.Email,
		DateOfBirth:      req.DateOfBirth,
		ExpectedDelivery: req.ExpectedDelivery,
		PregnancyMonth:   req.PregnancyMonth,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create mother: %w", err)
	}

	s.auditor.Log(ctx, actorID, "create", "mother", m.ID, m)
	return m, nil
}

func (s *Service) GetMother(ctx context.Context, id uuid.UUID) (*model.Mother, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("mother", err)
		}
		return nil, fmt.Errorf("failed to get mother: %w", err)
	}
	return m, nil
}

func (s *Service) UpdateMother(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req *model.UpdateMotherRequest) (*model.Mother, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get mother: %w", err)
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Address != nil {
		m.Address = *req.Address
	}
	if req.Zone != nil {
		m.Zone = *req.Zone
	}
	if req.ContactNumber != nil {
		m.ContactNumber = *req.ContactNumber
	}
	if req.Email != nil {
		m.Email = *req.Email
	}
	if req.ExpectedDelivery != nil {
		m.ExpectedDelivery = req.ExpectedDelivery
	}
	if req.PregnancyMonth != nil {
		m.PregnancyMonth = *req.PregnancyMonth
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update mother: %w", err)
	}

	s.auditor.Log(ctx, actorID, "update", "mother", m.ID, req)
	return m, nil
}

// DeleteMother soft-deletes only; records stay attached to the row for the
// program's retention requirements.
func (s *Service) DeleteMother(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("failed to get mother: %w", err)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete mother: %w", err)
	}
	s.auditor.Log(ctx, actorID, "delete", "mother", id, nil)
	return nil
}

func (s *Service) ListMothers(ctx context.Context, filters *model.MotherFilters) ([]*model.Mother, error) {
	mothers, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list mothers: %w", err)
	}
	return mothers, nil
}

// UploadPhoto stores a profile photo and records its key on the mother.
func (s *Service) UploadPhoto(ctx context.Context, actorID uuid.UUID, id uuid.UUID, filename string, data []byte) (string, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to get mother: %w", err)
	}

	key, err := s.store.Upload(ctx, storage.BucketPhotos, fmt.Sprintf("%s/%s", id, filename), data)
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	m.PhotoKey = key
	if err := s.repo.Update(ctx, m); err != nil {
		return "", fmt.Errorf("failed to save photo key: %w", err)
	}

	s.auditor.Log(ctx, actorID, "upload_photo", "mother", id, map[string]string{"key": key})
	return s.store.PublicURL(storage.BucketPhotos, key), nil
}
