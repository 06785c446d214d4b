package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/matnas-digital/questionnaire-service/internal/events"
	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
	"github.com/matnas-digital/questionnaire-service/internal/validator"
)

// DefaultEventTopic is used when no topic is configured.
const DefaultEventTopic = "questionnaire.events"

// Payloads carried in the event envelope. Tokens and password material are
// never part of an event.

type InvitationCreatedEvent struct {
	InvitationID string    `json:"invitation_id"`
	Email        string    `json:"email"`
	InvitedBy    string    `json:"invited_by"`
	Message      string    `json:"message,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type InvitationRedeemedEvent struct {
	InvitationID     string `json:"invitation_id"`
	UserID           string `json:"user_id"`
	Email            string `json:"email"`
	FullName         string `json:"full_name"`
	OrganizationName string `json:"organization_name,omitempty"`
}

type InvitationRevokedEvent struct {
	InvitationID string `json:"invitation_id"`
	Email        string `json:"email"`
}

type QuestionnaireCompletedEvent struct {
	UserID          string    `json:"user_id"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name"`
	QuestionnaireID string    `json:"questionnaire_id"`
	Year            int       `json:"year"`
	CompletedAt     time.Time `json:"completed_at"`
}

type notificationEventService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
	topic          string
}

func NewNotificationEventService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator, topic string) NotificationEventService {
	if topic == "" {
		topic = DefaultEventTopic
	}
	return &notificationEventService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
		topic:          topic,
	}
}

func (s *notificationEventService) InvitationCreated(ctx context.Context, invitation *models.Invitation) error {
	return s.publish(ctx, events.NewEvent(events.EventInvitationCreated, &InvitationCreatedEvent{
		InvitationID: invitation.ID,
		Email:        invitation.Email,
		InvitedBy:    invitation.InvitedBy,
		Message:      invitation.Message,
		ExpiresAt:    invitation.ExpiresAt,
	}))
}

func (s *notificationEventService) InvitationRedeemed(ctx context.Context, invitation *models.Invitation, user *models.User) error {
	return s.publish(ctx, events.NewEvent(events.EventInvitationRedeemed, &InvitationRedeemedEvent{
		InvitationID:     invitation.ID,
		UserID:           user.ID,
		Email:            user.Email,
		FullName:         user.FullName,
		OrganizationName: user.OrganizationName,
	}))
}

func (s *notificationEventService) InvitationRevoked(ctx context.Context, invitation *models.Invitation) error {
	return s.publish(ctx, events.NewEvent(events.EventInvitationRevoked, &InvitationRevokedEvent{
		InvitationID: invitation.ID,
		Email:        invitation.Email,
	}))
}

func (s *notificationEventService) QuestionnaireCompleted(ctx context.Context, user *models.User, completion *models.QuestionnaireCompletion) error {
	payload := &QuestionnaireCompletedEvent{
		UserID:          user.ID,
		Email:           user.Email,
		FullName:        user.FullName,
		QuestionnaireID: completion.QuestionnaireID,
		Year:            completion.Year,
	}
	if completion.CompletedAt != nil {
		payload.CompletedAt = *completion.CompletedAt
	}
	return s.publish(ctx, events.NewEvent(events.EventQuestionnaireCompleted, payload))
}

func (s *notificationEventService) publish(ctx context.Context, event *events.Event) error {
	if err := s.eventPublisher.Publish(ctx, s.topic, event); err != nil {
		s.logger.Error("failed to publish event",
			"error", err,
			"topic", s.topic,
			"event_type", event.Type)
		return err
	}

	s.logger.Debug("event published", "topic", s.topic, "event_type", event.Type, "event_id", event.ID)
	return nil
}
