package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/models"
)

// InvitationRepository interface for invitation lifecycle operations
type InvitationRepository interface {
	// Create relies on the partial unique pending-email index to reject a
	// second pending invitation for the same address.
	Create(ctx context.Context, tx *gorm.DB, invitation *models.Invitation) error

	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Invitation, error)
	GetByToken(ctx context.Context, tx *gorm.DB, token string) (*models.Invitation, error)
	GetPendingByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Invitation, error)

	List(ctx context.Context, tx *gorm.DB, filters InvitationFilters) ([]*models.Invitation, int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status models.InvitationStatus) (int64, error)

	// Accept flips status pending -> accepted as a single conditional update
	// and reports whether this caller won the transition.
	Accept(ctx context.Context, tx *gorm.DB, id string, at time.Time) (bool, error)

	// Revoke flips status pending -> revoked; false when no longer pending.
	Revoke(ctx context.Context, tx *gorm.DB, id string) (bool, error)

	// MarkExpired stamps a pending invitation whose deadline has passed.
	MarkExpired(ctx context.Context, tx *gorm.DB, id string) error
}
