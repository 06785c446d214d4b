package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
)

// InvitationPostgreSQL implements InvitationRepository backed by gorm.
type InvitationPostgreSQL struct {
	db *gorm.DB
}

func NewInvitationPostgreSQL(db *gorm.DB) repositories.InvitationRepository {
	return &InvitationPostgreSQL{db: db}
}

func (r *InvitationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, invitation *models.Invitation) error {
	return dbOrTx(r.db, tx).WithContext(ctx).Create(invitation).Error
}

func (r *InvitationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Where("id = ?", id).
		First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *InvitationPostgreSQL) GetByToken(ctx context.Context, tx *gorm.DB, token string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Where("invitation_token = ?", token).
		First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *InvitationPostgreSQL) GetPendingByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Where("email = ? AND status = ?", email, models.InvitationPending).
		First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *InvitationPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.InvitationFilters) ([]*models.Invitation, int64, error) {
	query := dbOrTx(r.db, tx).WithContext(ctx).Model(&models.Invitation{})
	query = applyInvitationFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invitations: %w", err)
	}

	var invitations []*models.Invitation
	if err := applyPagination(query, filters.Limit, filters.Offset).Find(&invitations).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list invitations: %w", err)
	}

	return invitations, total, nil
}

func (r *InvitationPostgreSQL) CountByStatus(ctx context.Context, tx *gorm.DB, status models.InvitationStatus) (int64, error) {
	var count int64
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Model(&models.Invitation{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// Accept is the single-use gate: a conditional update that only one caller
// can win for a given invitation.
func (r *InvitationPostgreSQL) Accept(ctx context.Context, tx *gorm.DB, id string, at time.Time) (bool, error) {
	result := dbOrTx(r.db, tx).WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, models.InvitationPending).
		Updates(map[string]interface{}{
			"status":      models.InvitationAccepted,
			"accepted_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *InvitationPostgreSQL) Revoke(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	result := dbOrTx(r.db, tx).WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, models.InvitationPending).
		Update("status", models.InvitationRevoked)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *InvitationPostgreSQL) MarkExpired(ctx context.Context, tx *gorm.DB, id string) error {
	return dbOrTx(r.db, tx).WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, models.InvitationPending).
		Update("status", models.InvitationExpired).Error
}
