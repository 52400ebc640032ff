package service

import (
	"context"

	"go.uber.org/zap"

	"duso-api/internal/core/auth"
	"duso-api/internal/domain"
	"duso-api/pkg/utils"
)

// RegisterInput is the validated signup payload. Transport-level binding
// has already checked shapes; the service re-checks the password policy
// because registration can also be reached through the users endpoint.
type RegisterInput struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
	Role        string
}

// AuthService owns the credential/token lifecycle. It never touches user
// rows directly, always through the repository.
type AuthService struct {
	users domain.UserRepository
	jwter *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, jwter: jwter, log: log}
}

// Register creates a new account: one read (email lookup), one write.
// A concurrent duplicate that slips past the lookup is caught by the
// unique index and surfaces as the same validation error.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.UserView, error) {
	if err := utils.ValidatePasswordStrength(in.Password); err != nil {
		return domain.UserView{}, domain.Validation(err.Error())
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return domain.UserView{}, domain.Wrap(err, "failed to register user")
	}
	if existing != nil {
		return domain.UserView{}, domain.Validation("Email already registered")
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	u := &domain.User{
		ID:              utils.NewID(),
		Email:           in.Email,
		FullName:        in.FullName,
		PhoneNumber:     in.PhoneNumber,
		Role:            role,
		HashedPassword:  utils.HashPassword(in.Password),
		IsActive:        true,
		IsEmailVerified: false,
		Preferences:     domain.JSONMap{},
	}
	if err := s.users.Create(ctx, u); err != nil {
		return domain.UserView{}, domain.Wrap(err, "failed to register user")
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return u.View(), nil
}

// Authenticate verifies credentials and mints a session token. Unknown
// email and wrong password return the same error so the caller cannot
// tell which happened. A mismatch bumps the failed-attempt counter; a
// success resets it and stamps last_login.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", domain.Wrap(err, "authentication failed")
	}
	if u == nil {
		return "", domain.Authentication("Invalid email or password")
	}

	if !utils.CheckPassword(password, u.HashedPassword) {
		if _, err := s.users.UpdateLoginInfo(ctx, u.ID, false); err != nil {
			s.log.Warn("failed-login counter update failed", zap.String("user_id", u.ID), zap.Error(err))
		}
		return "", domain.Authentication("Invalid email or password")
	}

	if !u.IsActive {
		return "", domain.Authentication("User account is inactive")
	}

	if _, err := s.users.UpdateLoginInfo(ctx, u.ID, true); err != nil {
		s.log.Warn("login info update failed", zap.String("user_id", u.ID), zap.Error(err))
	}

	token, err := s.jwter.Issue(u.ID)
	if err != nil {
		return "", domain.Database("failed to issue token", err)
	}
	return token, nil
}

// Refresh mints a fresh token for an already-identified user. The prior
// token is neither reused nor invalidated; it expires on its own.
func (s *AuthService) Refresh(ctx context.Context, userID string) (string, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", domain.Wrap(err, "token refresh failed")
	}
	if u == nil {
		return "", domain.Authentication("User not found")
	}
	if !u.IsActive {
		return "", domain.Authentication("User account is inactive")
	}

	token, err := s.jwter.Issue(u.ID)
	if err != nil {
		return "", domain.Database("failed to issue token", err)
	}
	return token, nil
}
