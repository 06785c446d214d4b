package validator

import "github.com/matnas-digital/questionnaire-service/internal/models"

// CreateInvitationRequest represents the request structure for inviting a manager
type CreateInvitationRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Message       string `json:"message" validate:"omitempty,max=2000"`
	ExpiresInDays int    `json:"expires_in_days" validate:"omitempty,min=1,max=365"`

	// Replace revokes an existing pending invitation for the same email
	// instead of failing with a conflict.
	Replace bool `json:"replace"`
}

// RegisterRequest represents the request structure for redeeming an invitation
type RegisterRequest struct {
	Token            string `json:"token" validate:"required,len=64,hexadecimal"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8,max=72"`
	FullName         string `json:"full_name" validate:"required,min=2,max=255"`
	OrganizationName string `json:"organization_name" validate:"omitempty,max=255"`
}

// LoginRequest represents the request structure for credential sign-in
type LoginRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required"`
	Role     models.UserRole `json:"user_type" validate:"required,user_role"`
}

// SaveAnswerRequest represents the request structure for saving a single answer
type SaveAnswerRequest struct {
	QuestionID  string  `json:"question_id" validate:"required,uuid"`
	AnswerValue *string `json:"answer_value" validate:"omitempty,max=500"`
	AnswerText  *string `json:"answer_text" validate:"omitempty,max=5000"`
}
