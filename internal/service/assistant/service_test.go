package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/service/audit"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
)

type fakeQARepo struct {
	entries []*model.QAEntry
}

func (f *fakeQARepo) Create(_ context.Context, entry *model.QAEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}
func (f *fakeQARepo) List(context.Context) ([]*model.QAEntry, error) {
	return f.entries, nil
}
func (f *fakeQARepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			break
		}
	}
	return nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(context.Context, *model.AuditLog) error { return nil }
func (fakeAuditRepo) List(context.Context, string, uuid.UUID) ([]*model.AuditLog, error) {
	return nil, nil
}
func (fakeAuditRepo) DeleteBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func newTestService(repo *fakeQARepo) *Service {
	return NewService(repo, audit.NewService(fakeAuditRepo{}, logger.NewLogger(nil)))
}

func TestAskPicksBestKeywordMatch(t *testing.T) {
	repo := &fakeQARepo{entries: []*model.QAEntry{
		{ID: uuid.New(), Answer: "Drink plenty of water.", Keywords: "water, hydration"},
		{ID: uuid.New(), Answer: "Eat iron-rich foods like malunggay.", Keywords: "iron, anemia, dizzy, pale"},
	}}
	svc := newTestService(repo)

	reply, err := svc.Ask(context.Background(), "I feel dizzy and pale, could it be anemia?")
	require.NoError(t, err)
	assert.True(t, reply.Matched)
	assert.Equal(t, "Eat iron-rich foods like malunggay.", reply.Answer)
	require.NotNil(t, reply.EntryID)
	assert.Equal(t, repo.entries[1].ID, *reply.EntryID)
}

func TestAskMatchesCaseInsensitively(t *testing.T) {
	repo := &fakeQARepo{entries: []*model.QAEntry{
		{ID: uuid.New(), Answer: "Rest and take paracetamol if advised.", Keywords: "Fever, Headache"},
	}}
	svc := newTestService(repo)

	reply, err := svc.Ask(context.Background(), "what to do about a FEVER?")
	require.NoError(t, err)
	assert.True(t, reply.Matched)
}

func TestAskFallsBackWhenNothingMatches(t *testing.T) {
	repo := &fakeQARepo{entries: []*model.QAEntry{
		{ID: uuid.New(), Answer: "Drink plenty of water.", Keywords: "water"},
	}}
	svc := newTestService(repo)

	reply, err := svc.Ask(context.Background(), "how do I renew my passport?")
	require.NoError(t, err)
	assert.False(t, reply.Matched)
	assert.Equal(t, fallbackAnswer, reply.Answer)
	assert.Nil(t, reply.EntryID)
}

func TestCreateAndDeleteEntry(t *testing.T) {
	repo := &fakeQARepo{}
	svc := newTestService(repo)

	entry, err := svc.CreateEntry(context.Background(), uuid.New(), &model.CreateQAEntryRequest{
		Question: "What should I eat?",
		Answer:   "Balanced meals with vegetables and protein.",
		Keywords: "eat, food, diet",
	})
	require.NoError(t, err)
	assert.Len(t, repo.entries, 1)

	require.NoError(t, svc.DeleteEntry(context.Background(), uuid.New(), entry.ID))
	assert.Empty(t, repo.entries)
}
