package material

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/repository"
	"github.com/rmagbanua/nanaycare-api/internal/service/audit"
	"github.com/rmagbanua/nanaycare-api/internal/storage"
)

type Service struct {
	repo    repository.MaterialRepository
	auditor *audit.Service
	store   storage.BlobStore
}

func NewService(repo repository.MaterialRepository, auditor *audit.Service, store storage.BlobStore) *Service {
	return &Service{repo: repo, auditor: auditor, store: store}
}

// CreateMaterial saves a draft; publishing is a separate, explicit step.
func (s *Service) CreateMaterial(ctx context.Context, actorID uuid.UUID, req *model.CreateMaterialRequest) (*model.EducationalMaterial, error) {
	mat := &model.EducationalMaterial{
		Base:     model.Base{ID: uuid.New()},
		Title:    req.Title,
		Category: req.Category,
		Body:     req.Body,
	}

	if err := s.repo.Create(ctx, mat); err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}

	s.auditor.Log(ctx, actorID, "create", "material", mat.ID, mat)
	return mat, nil
}

func (s *Service) GetMaterial(ctx context.Context, id uuid.UUID) (*model.EducationalMaterial, error) {
	mat, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	return mat, nil
}

func (s *Service) UpdateMaterial(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req *model.UpdateMaterialRequest) (*model.EducationalMaterial, error) {
	mat, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}

	if req.Title != nil {
		mat.Title = *req.Title
	}
	if req.Category != nil {
		mat.Category = *req.Category
	}
	if req.Body != nil {
		mat.Body = *req.Body
	}

	if err := s.repo.Update(ctx, mat); err != nil {
		return nil, fmt.Errorf("failed to update material: %w", err)
	}

	s.auditor.Log(ctx, actorID, "update", "material", mat.ID, req)
	return mat, nil
}

func (s *Service) DeleteMaterial(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}
	s.auditor.Log(ctx, actorID, "delete", "material", id, nil)
	return nil
}

func (s *Service) ListMaterials(ctx context.Context, publishedOnly bool) ([]*model.EducationalMaterial, error) {
	materials, err := s.repo.List(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return materials, nil
}

func (s *Service) PublishMaterial(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*model.EducationalMaterial, error) {
	mat, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}

	mat.Published = true
	if err := s.repo.Update(ctx, mat); err != nil {
		return nil, fmt.Errorf("failed to publish material: %w", err)
	}

	s.auditor.Log(ctx, actorID, "publish", "material", id, nil)
	return mat, nil
}

// UploadImage stores the material's illustration and records its key.
func (s *Service) UploadImage(ctx context.Context, actorID uuid.UUID, id uuid.UUID, filename string, data []byte) (string, error) {
	mat, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to get material: %w", err)
	}

	key, err := s.store.Upload(ctx, storage.BucketMaterials, fmt.Sprintf("%s/%s", id, filename), data)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	mat.ImageKey = key
	if err := s.repo.Update(ctx, mat); err != nil {
		return "", fmt.Errorf("failed to save image key: %w", err)
	}

	s.auditor.Log(ctx, actorID, "upload_image", "material", id, map[string]string{"key": key})
	return s.store.PublicURL(storage.BucketMaterials, key), nil
}
