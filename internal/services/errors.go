package services

import (
	"errors"
	"fmt"

	"github.com/matnas-digital/questionnaire-service/internal/models"
)

// Sentinel errors mapped to HTTP statuses at the handler layer.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")

	ErrInvitationNotFound      = errors.New("invitation not found")
	ErrInvitationAlreadyExists = errors.New("a pending invitation already exists for this email")
	ErrInvitationExpired       = errors.New("invitation has expired")
	ErrInvitationNotPending    = errors.New("invitation is no longer pending")
	ErrInvitationEmailMismatch = errors.New("email does not match the invitation")

	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	ErrQuestionNotFound      = errors.New("question not found in questionnaire")
)

// IncompleteError is returned when Complete is called before every question
// has an answer. It carries the counts so the client can show progress.
type IncompleteError struct {
	Answered   int64
	Total      int64
	Percentage int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("questionnaire is incomplete: %d of %d questions answered (%d%%)",
		e.Answered, e.Total, e.Percentage)
}

// DuplicateInvitationError is returned when a pending invitation already
// exists for the email and the caller did not ask to replace it. It carries
// the existing invitation so the client can offer the replace flow.
type DuplicateInvitationError struct {
	Existing *models.Invitation
}

func (e *DuplicateInvitationError) Error() string {
	return fmt.Sprintf("a pending invitation for %s already exists and expires at %s",
		e.Existing.Email, e.Existing.ExpiresAt.Format("2006-01-02"))
}

func (e *DuplicateInvitationError) Unwrap() error {
	return ErrInvitationAlreadyExists
}

// PermissionError indicates the caller may not perform the action.
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s: %s",
		e.UserID, e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// IsPermissionError reports whether err is a PermissionError.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
