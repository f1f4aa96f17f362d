package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/email"
	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/repository"
	"github.com/rmagbanua/nanaycare-api/internal/service/audit"
	"github.com/rmagbanua/nanaycare-api/pkg/auth"
	apperrors "github.com/rmagbanua/nanaycare-api/pkg/errors"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
	"github.com/rmagbanua/nanaycare-api/pkg/security"
)

var ErrInvalidCredentials = apperrors.Unauthorized(errors.New("invalid credentials"))

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
	bcryptCost       = 12
)

type Service struct {
	userRepo   repository.UserRepository
	motherRepo repository.MotherRepository
	jwtSvc     auth.JWTService
	hasher     security.PasswordHasher
	emailSvc   email.Service
	auditor    *audit.Service
	logger     *logger.Logger
	expiry     time.Duration
}

func NewService(
	userRepo repository.UserRepository,
	motherRepo repository.MotherRepository,
	jwtSvc auth.JWTService,
	emailSvc email.Service,
	auditor *audit.Service,
	log *logger.Logger,
	expiry time.Duration,
) *Service {
	return &Service{
		userRepo:   userRepo,
		motherRepo: motherRepo,
		jwtSvc:   jwtSvc,
		hasher:   security.NewBcryptHasher(bcryptCost),
		emailSvc: emailSvc,
		auditor:  auditor,
		logger:   log,
		expiry:   expiry,
	}
}

// Register creates a user account. Self-registration is always the mother
// role; staff accounts go through CreateStaff.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         model.RoleMother,
		Status:       model.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.auditor.Log(ctx, user.ID, "register", "user", user.ID, map[string]string{"email": user.Email})

	// Welcome email is best-effort.
	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.Name); err != nil {
		s.logger.Error(err, "failed to send welcome email", "email", user.Email)
	}

	return user, nil
}

// CreateStaff creates a health worker or admin account. The route is
// admin-only; the service never grants a role outside the staff set.
func (s *Service) CreateStaff(ctx context.Context, actorID uuid.UUID, req *model.CreateStaffRequest) (*model.User, error) {
	if req.Role != model.RoleAdmin && req.Role != model.RoleHealthWorker {
		return nil, apperrors.BadRequest(fmt.Sprintf("role %q is not a staff role", req.Role), nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		Status:       model.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create staff user: %w", err)
	}

	s.auditor.Log(ctx, actorID, "create_staff", "user", user.ID, map[string]string{
		"email": user.Email,
		"role":  string(user.Role),
	})
	return user, nil
}

// LinkMother attaches a mother profile to a mother-role account. Tokens
// issued after the link carry the mother id, which scopes record access and
// feed compilation to that profile.
func (s *Service) LinkMother(ctx context.Context, actorID, userID, motherID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}
	if user.Role != model.RoleMother {
		return nil, apperrors.BadRequest(fmt.Sprintf("user %s is not a mother account", userID), nil)
	}

	mother, err := s.motherRepo.Get(ctx, motherID)
	if err != nil {
		return nil, apperrors.NotFound("mother", err)
	}

	user.MotherID = &mother.ID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to link mother profile: %w", err)
	}

	s.auditor.Log(ctx, actorID, "link_mother", "user", user.ID, map[string]string{
		"mother_id": mother.ID.String(),
	})
	return user, nil
}

func (s *Service) Login(ctx context.Context, emailAddr, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Status == model.UserStatusLocked {
		if time.Since(user.LastLoginAttempt) < lockoutDuration {
			return nil, apperrors.Forbidden("account is locked, please try again later")
		}
		user.Status = model.UserStatusActive
		user.LoginAttempts = 0
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		user.LoginAttempts++
		user.LastLoginAttempt = time.Now()

		if user.LoginAttempts >= maxLoginAttempts {
			user.Status = model.UserStatusLocked
		}

		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update login attempts: %w", err)
		}
		return nil, ErrInvalidCredentials
	}

	user.LoginAttempts = 0
	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update login timestamp: %w", err)
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.auditor.Log(ctx, user.ID, "login", "user", user.ID, nil)
	return tokens, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid refresh token: %w", err))
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.Status == model.UserStatusLocked {
		return nil, apperrors.Forbidden("account is locked")
	}

	return s.generateTokens(user)
}

func (s *Service) ValidateToken(_ context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

func (s *Service) generateTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.expiry.Seconds()),
	}, nil
}
