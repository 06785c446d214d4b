package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/auth"
	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
	"github.com/matnas-digital/questionnaire-service/internal/validator"
)

// InvitationConfig carries the tunables of the invitation flow.
type InvitationConfig struct {
	// DefaultTTL is used when the request does not specify an expiry.
	DefaultTTL time.Duration

	// RegistrationBaseURL is the public frontend URL that registration
	// links point at.
	RegistrationBaseURL string
}

type invitationService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
	events    NotificationEventService
	config    InvitationConfig
}

func NewInvitationService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	validator *validator.Validator,
	tokens *auth.TokenManager,
	events NotificationEventService,
	config InvitationConfig,
) InvitationService {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 30 * 24 * time.Hour
	}
	return &invitationService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
		events:    events,
		config:    config,
	}
}

// Create issues a new pending invitation. Uniqueness of the pending
// invitation per email is enforced by the database, so concurrent creates
// for the same address resolve to exactly one winner. With Replace, a prior
// pending invitation is revoked in the same transaction as the new insert
// and its token never validates again.
func (s *invitationService) Create(ctx context.Context, req *CreateInvitationRequest, invitedBy string) (*InvitationResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	email := NormalizeEmail(req.Email)

	exists, err := s.repo.User().ExistsByEmail(ctx, nil, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	token, err := auth.NewInviteToken()
	if err != nil {
		return nil, err
	}

	ttl := s.config.DefaultTTL
	if req.ExpiresInDays > 0 {
		ttl = time.Duration(req.ExpiresInDays) * 24 * time.Hour
	}

	invitation := &models.Invitation{
		Email:           email,
		InvitationToken: token,
		InvitedBy:       invitedBy,
		Status:          models.InvitationPending,
		Message:         req.Message,
		ExpiresAt:       time.Now().Add(ttl),
	}

	if req.Replace {
		var replaced *models.Invitation
		err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
			existing, err := txRepo.Invitation().GetPendingByEmail(ctx, nil, email)
			if err != nil && !repositories.IsNotFoundError(err) {
				return err
			}
			if existing != nil {
				revoked, err := txRepo.Invitation().Revoke(ctx, nil, existing.ID)
				if err != nil {
					return err
				}
				if revoked {
					replaced = existing
				}
			}
			return txRepo.Invitation().Create(ctx, nil, invitation)
		})
		if err != nil {
			s.logger.Error("failed to replace invitation", "error", err, "email", email)
			return nil, err
		}

		if replaced != nil {
			s.logger.Info("invitation superseded",
				"invitation_id", replaced.ID,
				"replaced_by", invitation.ID,
				"email", email)
			replaced.Status = models.InvitationRevoked
			if err := s.events.InvitationRevoked(ctx, replaced); err != nil {
				s.logger.Error("failed to publish invitation revoked event", "error", err)
			}
		}
	} else if err := s.repo.Invitation().Create(ctx, nil, invitation); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			// Hand back the existing invitation so the caller can decide
			// to replace it.
			if existing, lookupErr := s.repo.Invitation().GetPendingByEmail(ctx, nil, email); lookupErr == nil {
				return nil, &DuplicateInvitationError{Existing: existing}
			}
			return nil, ErrInvitationAlreadyExists
		}
		s.logger.Error("failed to create invitation", "error", err, "email", email)
		return nil, err
	}

	s.logger.Info("invitation created",
		"invitation_id", invitation.ID,
		"email", email,
		"invited_by", invitedBy)

	if err := s.events.InvitationCreated(ctx, invitation); err != nil {
		// Event delivery must not fail the request.
		s.logger.Error("failed to publish invitation created event", "error", err)
	}

	return s.toResponse(invitation), nil
}

// Redeem turns a pending invitation into a manager account. The status
// transition is a conditional update inside the transaction, so a token can
// be redeemed exactly once even under concurrent submissions.
func (s *invitationService) Redeem(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	email := NormalizeEmail(req.Email)

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		invitation, err := txRepo.Invitation().GetByToken(ctx, nil, req.Token)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrInvitationNotFound
			}
			return err
		}

		if invitation.Status != models.InvitationPending {
			return ErrInvitationNotPending
		}

		if NormalizeEmail(invitation.Email) != email {
			return ErrInvitationEmailMismatch
		}

		now := time.Now()
		if invitation.IsExpired(now) {
			if err := txRepo.Invitation().MarkExpired(ctx, nil, invitation.ID); err != nil {
				s.logger.Error("failed to mark invitation expired", "error", err, "invitation_id", invitation.ID)
			}
			return ErrInvitationExpired
		}

		exists, err := txRepo.User().ExistsByEmail(ctx, nil, email)
		if err != nil {
			return err
		}
		if exists {
			return ErrUserAlreadyExists
		}

		accepted, err := txRepo.Invitation().Accept(ctx, nil, invitation.ID, now)
		if err != nil {
			return err
		}
		if !accepted {
			// Lost the race against a concurrent redemption.
			return ErrInvitationNotPending
		}

		user = &models.User{
			Email:            email,
			PasswordHash:     passwordHash,
			FullName:         req.FullName,
			Role:             models.RoleManager,
			OrganizationName: req.OrganizationName,
			IsVerified:       true,
		}
		if err := txRepo.User().Create(ctx, nil, user); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return ErrUserAlreadyExists
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invitation redeemed", "user_id", user.ID, "email", email)

	if invitation, lookupErr := s.repo.Invitation().GetByToken(ctx, nil, req.Token); lookupErr == nil {
		if err := s.events.InvitationRedeemed(ctx, invitation, user); err != nil {
			s.logger.Error("failed to publish invitation redeemed event", "error", err)
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("failed to issue session token after registration", "error", err, "user_id", user.ID)
		return nil, err
	}

	return &AuthResult{
		Token: token,
		User:  toUserInfo(user),
	}, nil
}

// GetByToken looks up an invitation so the registration page can prefill
// the invited email. A pending invitation past its deadline is marked
// expired on read.
func (s *invitationService) GetByToken(ctx context.Context, token string) (*InvitationResponse, error) {
	invitation, err := s.repo.Invitation().GetByToken(ctx, nil, token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}

	if invitation.Status == models.InvitationPending && invitation.IsExpired(time.Now()) {
		if err := s.repo.Invitation().MarkExpired(ctx, nil, invitation.ID); err != nil {
			s.logger.Error("failed to mark invitation expired", "error", err, "invitation_id", invitation.ID)
		} else {
			invitation.Status = models.InvitationExpired
		}
	}

	return &InvitationResponse{Invitation: invitation}, nil
}

func (s *invitationService) List(ctx context.Context, req *ListInvitationsRequest) (*InvitationListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.Size
	if size < 1 || size > 100 {
		size = 20
	}

	filters := repositories.InvitationFilters{
		Status: req.Status,
		Email:  NormalizeEmail(req.Email),
		Limit:  size,
		Offset: (page - 1) * size,
	}
	if req.Email == "" {
		filters.Email = ""
	}

	invitations, total, err := s.repo.Invitation().List(ctx, nil, filters)
	if err != nil {
		return nil, err
	}

	responses := make([]*InvitationResponse, len(invitations))
	for i, invitation := range invitations {
		responses[i] = s.toResponse(invitation)
	}

	return &InvitationListResponse{
		Invitations: responses,
		Total:       total,
		Page:        page,
		Size:        size,
	}, nil
}

func (s *invitationService) Revoke(ctx context.Context, id string) error {
	invitation, err := s.repo.Invitation().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrInvitationNotFound
		}
		return err
	}

	revoked, err := s.repo.Invitation().Revoke(ctx, nil, id)
	if err != nil {
		return err
	}
	if !revoked {
		return ErrInvitationNotPending
	}

	s.logger.Info("invitation revoked", "invitation_id", id, "email", invitation.Email)

	invitation.Status = models.InvitationRevoked
	if err := s.events.InvitationRevoked(ctx, invitation); err != nil {
		s.logger.Error("failed to publish invitation revoked event", "error", err)
	}

	return nil
}

func (s *invitationService) toResponse(invitation *models.Invitation) *InvitationResponse {
	resp := &InvitationResponse{Invitation: invitation}
	if invitation.Status == models.InvitationPending {
		resp.RegistrationLink = fmt.Sprintf("%s/dashboard?token=%s",
			s.config.RegistrationBaseURL, invitation.InvitationToken)
	}
	return resp
}
