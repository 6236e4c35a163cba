package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/letterdraw/letterdraw-backend/internal/apperrors"
	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	"github.com/letterdraw/letterdraw-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService authenticates admin users and issues JWT tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.AdminUser, error)
	// EnsureUser creates a privileged user if no user with that email
	// exists yet. Used to seed the initial admin and authority accounts.
	EnsureUser(ctx context.Context, email, password, role string) error
}

// AuthServiceImpl implements AuthService
type AuthServiceImpl struct {
	userRepo repositories.AdminUserRepository
	tokens   *jwt.TokenService
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(userRepo repositories.AdminUserRepository, tokens *jwt.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{userRepo: userRepo, tokens: tokens}
}

// Login checks the credentials and returns a signed token plus the
// authenticated user. Bad email and bad password produce the same
// error.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *models.AdminUser, error) {
	if email == "" || password == "" {
		return "", nil, apperrors.Validationf("email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, apperrors.Authorizationf("invalid credentials")
		}
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.Authorizationf("invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

// EnsureUser creates the user if absent. An existing user is left
// untouched, password included.
func (s *AuthServiceImpl) EnsureUser(ctx context.Context, email, password, role string) error {
	if email == "" || password == "" {
		return apperrors.Validationf("email and password are required")
	}
	if role != models.RoleAdmin && role != models.RoleAuthority {
		return apperrors.Validationf("unknown role %q", role)
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.AdminUser{Email: email, PasswordHash: string(hash), Role: role}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	slog.Info("Seeded privileged user", "email", email, "role", role)
	return nil
}
