package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmagbanua/nanaycare-api/internal/model"
)

func testService() JWTService {
	return NewJWTService(Config{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
		Expiry:        time.Minute,
		RefreshExpiry: time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := testService()
	motherID := uuid.New()
	user := &model.User{
		Base:     model.Base{ID: uuid.New()},
		Email:    "bhw@nanaycare.ph",
		Role:     model.RoleHealthWorker,
		MotherID: &motherID,
	}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.RoleHealthWorker, claims.Role)
	require.NotNil(t, claims.MotherID)
	assert.Equal(t, motherID, *claims.MotherID)
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	svc := testService()
	user := &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleMother}

	refresh, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(refresh)
	assert.Error(t, err, "tokens signed with the refresh secret must not pass access validation")

	claims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService(Config{
		Secret: "access-secret",
		Expiry: -time.Minute,
	})
	user := &model.User{Base: model.Base{ID: uuid.New()}}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	svc := testService()
	user := &model.User{Base: model.Base{ID: uuid.New()}}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)
}
