package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bioproximity/support-service/internal/auth"
	"github.com/bioproximity/support-service/internal/config"
	"github.com/bioproximity/support-service/internal/domain"
	"github.com/bioproximity/support-service/internal/repository"
	"github.com/bioproximity/support-service/pkg/util"
)

// AuthDependencies bundles collaborators for AuthService.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	AdminRepo repository.AdminRepository
}

// AuthService issues tokens for users and admins.
type AuthService struct {
	cfg    config.Config
	deps   AuthDependencies
	tokens *auth.TokenManager
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		cfg:    cfg,
		deps:   deps,
		tokens: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// RegisterUser creates a customer account and issues a token. The account
// starts unconfirmed; ticketing opens once the email is confirmed.
func (s *AuthService) RegisterUser(ctx context.Context, firstName, lastName, email, password string, phone *string) (*domain.User, string, time.Time, error) {
	if _, err := s.deps.UserRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, util.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, util.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, "", time.Time{}, util.NewInternalError(err)
	}
	user := &domain.User{
		FirstName:          firstName,
		LastName:           lastName,
		Email:              email,
		PasswordHash:       hash,
		Phone:              phone,
		EmailNotifications: true,
		PlanCode:           domain.DefaultPlanCode,
	}
	if err := s.deps.UserRepo.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, util.MapError(err)
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, domain.SubjectTypeUser, nil)
	if err != nil {
		return nil, "", time.Time{}, util.NewInternalError(err)
	}
	return user, token, expiresAt, nil
}

// RegisterAdmin provisions a back-office account. Callers gate this behind
// the superadmin role.
func (s *AuthService) RegisterAdmin(ctx context.Context, firstName, lastName, email, password string, role domain.AdminRole) (*domain.Admin, error) {
	if !role.Valid() {
		return nil, util.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}
	if _, err := s.deps.AdminRepo.GetByEmail(ctx, email); err == nil {
		return nil, util.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, util.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	admin := &domain.Admin{
		FirstName:          firstName,
		LastName:           lastName,
		Email:              email,
		PasswordHash:       hash,
		Role:               role,
		EmailNotifications: true,
	}
	if err := s.deps.AdminRepo.Create(ctx, admin); err != nil {
		return nil, util.MapError(err)
	}
	return admin, nil
}

// LoginUser authenticates a customer and issues a token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.deps.UserRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, util.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, util.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, util.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, domain.SubjectTypeUser, nil)
	if err != nil {
		return nil, "", time.Time{}, util.NewInternalError(err)
	}
	return user, token, expiresAt, nil
}

// LoginAdmin authenticates a back-office admin and issues a token.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.deps.AdminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, util.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, util.MapError(err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, util.NewUnauthorized("invalid credentials")
	}

	role := admin.Role
	token, expiresAt, err := s.tokens.GenerateToken(admin.ID, domain.SubjectTypeAdmin, &role)
	if err != nil {
		return nil, "", time.Time{}, util.NewInternalError(err)
	}
	return admin, token, expiresAt, nil
}
