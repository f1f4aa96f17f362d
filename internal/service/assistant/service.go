package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/repository"
	"github.com/rmagbanua/nanaycare-api/internal/service/audit"
)

const fallbackAnswer = "I don't have an answer for that yet. Please ask your " +
	"barangay health worker at your next checkup."

// Service answers free-text health questions by keyword-matching against the
// stored QA entries. The entry whose keyword list hits the question the most
// times wins; no hit at all returns a fixed fallback.
type Service struct {
	repo    repository.QARepository
	auditor *audit.Service
}

func NewService(repo repository.QARepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Ask(ctx context.Context, question string) (*model.AssistantReply, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list QA entries: %w", err)
	}

	normalized := strings.ToLower(question)

	var best *model.QAEntry
	bestScore := 0
	for _, entry := range entries {
		score := matchScore(normalized, entry.Keywords)
		if score > bestScore {
			best = entry
			bestScore = score
		}
	}

	if best == nil {
		return &model.AssistantReply{Answer: fallbackAnswer}, nil
	}
	return &model.AssistantReply{
		Answer:  best.Answer,
		Matched: true,
		EntryID: &best.ID,
	}, nil
}

// matchScore counts how many of the entry's keywords occur in the question.
// Keywords are comma-separated and matched case-insensitively.
func matchScore(question, keywords string) int {
	score := 0
	for _, kw := range strings.Split(keywords, ",") {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(question, kw) {
			score++
		}
	}
	return score
}

func (s *Service) CreateEntry(ctx context.Context, actorID uuid.UUID, req *model.CreateQAEntryRequest) (*model.QAEntry, error) {
	entry := &model.QAEntry{
		ID:       uuid.New(),
		Question: req.Question,
		Answer:   req.Answer,
		Keywords: req.Keywords,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create QA entry: %w", err)
	}

	s.auditor.Log(ctx, actorID, "create", "qa_entry", entry.ID, entry)
	return entry, nil
}

func (s *Service) ListEntries(ctx context.Context) ([]*model.QAEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list QA entries: %w", err)
	}
	return entries, nil
}

func (s *Service) DeleteEntry(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete QA entry: %w", err)
	}
	s.auditor.Log(ctx, actorID, "delete", "qa_entry", id, nil)
	return nil
}
