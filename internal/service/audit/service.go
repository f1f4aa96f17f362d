package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/repository"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
)

type Service struct {
	repo   repository.AuditRepository
	logger *logger.Logger
}

func NewService(repo repository.AuditRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// Log records one audit entry. Failures are logged, never surfaced: an
// unavailable audit table must not fail the operation being audited.
func (s *Service) Log(ctx context.Context, actorID uuid.UUID, action, resourceType string, resourceID uuid.UUID, changes interface{}) {
	var payload json.RawMessage
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			s.logger.Error(err, "failed to marshal audit changes")
		} else {
			payload = data
		}
	}

	entry := &model.AuditLog{
		ID:           uuid.New(),
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Changes:      payload,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error(err, "failed to write audit log", "action", action, "resource", resourceType)
	}
}

func (s *Service) List(ctx context.Context, resourceType string, resourceID uuid.UUID) ([]*model.AuditLog, error) {
	return s.repo.List(ctx, resourceType, resourceID)
}
