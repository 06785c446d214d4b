package services

import (
	"context"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/auth"
	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
	"github.com/matnas-digital/questionnaire-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, tokens *auth.TokenManager) AuthService {
	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
	}
}

// Login verifies credentials and the requested role. All credential
// failures return the same error so the response does not reveal whether
// the account exists.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	email := NormalizeEmail(req.Email)

	user, err := s.repo.User().GetByEmail(ctx, nil, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for login", "error", err)
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	if user.Role != req.Role {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("failed to issue session token", "error", err, "user_id", user.ID)
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)

	return &AuthResult{
		Token: token,
		User:  toUserInfo(user),
	}, nil
}

// NormalizeEmail lowercases and trims an address before any lookup or
// comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(user *models.User) *UserInfo {
	return &UserInfo{
		ID:               user.ID,
		Email:            user.Email,
		FullName:         user.FullName,
		Role:             user.Role,
		OrganizationName: user.OrganizationName,
	}
}
