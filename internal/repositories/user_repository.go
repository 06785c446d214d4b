package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/models"
)

// UserRepository interface for user account operations
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)

	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)

	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	CountByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) (int64, error)
}
