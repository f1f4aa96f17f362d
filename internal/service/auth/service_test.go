package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/repository"
	"github.com/rmagbanua/nanaycare-api/internal/service/audit"
	"github.com/rmagbanua/nanaycare-api/pkg/auth"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.New("user not found")
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

type fakeMotherRepo struct {
	mothers map[uuid.UUID]*model.Mother
}

func (f *fakeMotherRepo) Create(context.Context, *model.Mother) error { return nil }
func (f *fakeMotherRepo) Get(_ context.Context, id uuid.UUID) (*model.Mother, error) {
	m, ok := f.mothers[id]
	if !ok {
		return nil, errors.New("mother not found")
	}
	return m, nil
}
func (f *fakeMotherRepo) Update(context.Context, *model.Mother) error { return nil }
func (f *fakeMotherRepo) SoftDelete(context.Context, uuid.UUID) error { return nil }
func (f *fakeMotherRepo) List(context.Context, *model.MotherFilters) ([]*model.Mother, error) {
	return nil, nil
}

type fakeEmailService struct {
	welcomes int
}

func (f *fakeEmailService) SendWelcome(context.Context, string, string) error {
	f.welcomes++
	return nil
}
func (f *fakeEmailService) SendCustom(context.Context, string, string, string) error { return nil }

type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, log *model.AuditLog) error {
	f.entries = append(f.entries, log)
	return nil
}
func (f *fakeAuditRepo) List(context.Context, string, uuid.UUID) ([]*model.AuditLog, error) {
	return nil, nil
}
func (f *fakeAuditRepo) DeleteBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func newTestService(users repository.UserRepository, mothers repository.MotherRepository) (*Service, auth.JWTService) {
	log := logger.NewLogger(nil)
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
		Expiry:        time.Minute,
		RefreshExpiry: time.Hour,
	})
	svc := NewService(users, mothers, jwtSvc, &fakeEmailService{}, audit.NewService(&fakeAuditRepo{}, log), log, time.Minute)
	return svc, jwtSvc
}

func TestRegisterAlwaysCreatesMotherRole(t *testing.T) {
	users := newFakeUserRepo()
	svc, _ := newTestService(users, &fakeMotherRepo{})

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "ana@example.com",
		Password: "hunter2hunter2",
		Name:     "Ana Reyes",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleMother, user.Role, "self-registration must never grant a staff role")
	assert.Equal(t, model.UserStatusActive, user.Status)
	assert.Nil(t, user.MotherID)
	assert.Equal(t, model.RoleMother, users.users[user.ID].Role)
}

func TestCreateStaffAssignsRequestedRole(t *testing.T) {
	users := newFakeUserRepo()
	svc, _ := newTestService(users, &fakeMotherRepo{})

	user, err := svc.CreateStaff(context.Background(), uuid.New(), &model.CreateStaffRequest{
		Email:    "bhw@example.com",
		Password: "hunter2hunter2",
		Name:     "Liza Cruz",
		Role:     model.RoleHealthWorker,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleHealthWorker, user.Role)
}

func TestCreateStaffRejectsMotherRole(t *testing.T) {
	svc, _ := newTestService(newFakeUserRepo(), &fakeMotherRepo{})

	_, err := svc.CreateStaff(context.Background(), uuid.New(), &model.CreateStaffRequest{
		Email:    "ana@example.com",
		Password: "hunter2hunter2",
		Name:     "Ana Reyes",
		Role:     model.RoleMother,
	})
	assert.Error(t, err)
}

func TestLinkMotherCarriesClaimIntoTokens(t *testing.T) {
	motherID := uuid.New()
	users := newFakeUserRepo()
	mothers := &fakeMotherRepo{mothers: map[uuid.UUID]*model.Mother{
		motherID: {Base: model.Base{ID: motherID}, Name: "Ana Reyes"},
	}}
	svc, jwtSvc := newTestService(users, mothers)

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "ana@example.com",
		Password: "hunter2hunter2",
		Name:     "Ana Reyes",
	})
	require.NoError(t, err)

	linked, err := svc.LinkMother(context.Background(), uuid.New(), user.ID, motherID)
	require.NoError(t, err)
	require.NotNil(t, linked.MotherID)
	assert.Equal(t, motherID, *linked.MotherID)

	// Tokens issued after the link resolve back to the mother profile.
	tokens, err := svc.Login(context.Background(), "ana@example.com", "hunter2hunter2")
	require.NoError(t, err)
	claims, err := jwtSvc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, claims.MotherID)
	assert.Equal(t, motherID, *claims.MotherID)
}

func TestLinkMotherRejectsStaffAccount(t *testing.T) {
	motherID := uuid.New()
	users := newFakeUserRepo()
	mothers := &fakeMotherRepo{mothers: map[uuid.UUID]*model.Mother{
		motherID: {Base: model.Base{ID: motherID}},
	}}
	svc, _ := newTestService(users, mothers)

	staff, err := svc.CreateStaff(context.Background(), uuid.New(), &model.CreateStaffRequest{
		Email:    "bhw@example.com",
		Password: "hunter2hunter2",
		Name:     "Liza Cruz",
		Role:     model.RoleHealthWorker,
	})
	require.NoError(t, err)

	_, err = svc.LinkMother(context.Background(), uuid.New(), staff.ID, motherID)
	assert.Error(t, err)
	assert.Nil(t, users.users[staff.ID].MotherID)
}

func TestLinkMotherUnknownProfile(t *testing.T) {
	users := newFakeUserRepo()
	svc, _ := newTestService(users, &fakeMotherRepo{mothers: map[uuid.UUID]*model.Mother{}})

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "ana@example.com",
		Password: "hunter2hunter2",
		Name:     "Ana Reyes",
	})
	require.NoError(t, err)

	_, err = svc.LinkMother(context.Background(), uuid.New(), user.ID, uuid.New())
	assert.Error(t, err)
	assert.Nil(t, users.users[user.ID].MotherID)
}
