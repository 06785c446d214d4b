package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
	InvitationRevoked  InvitationStatus = "revoked"
)

// Invitation is a single-use registration grant for a manager account.
// At most one pending invitation may exist per email; this is enforced by a
// partial unique index on (email) WHERE status = 'pending' created during
// migration, so concurrent creates surface as duplicate-key errors.
type Invitation struct {
	ID              string           `json:"id" gorm:"primaryKey;size:36"`
	Email           string           `json:"email" gorm:"not null;size:255;index"`
	InvitationToken string           `json:"-" gorm:"uniqueIndex;not null;size:64"`
	InvitedBy       string           `json:"invited_by" gorm:"size:36;index"`
	Status          InvitationStatus `json:"status" gorm:"not null;size:20;default:pending;index"`
	Message         string           `json:"message,omitempty" gorm:"type:text"`
	ExpiresAt       time.Time        `json:"expires_at" gorm:"not null"`
	AcceptedAt      *time.Time       `json:"accepted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Invitation) TableName() string {
	return "invitations"
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// IsExpired reports whether the invitation deadline has passed, regardless
// of the stored status. Expiry is evaluated lazily at redemption time.
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
