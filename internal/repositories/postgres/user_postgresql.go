package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
)

// UserPostgreSQL implements UserRepository backed by gorm.
type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (r *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return dbOrTx(r.db, tx).WithContext(ctx).Create(user).Error
}

func (r *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := dbOrTx(r.db, tx).WithContext(ctx).Model(&models.User{})
	query = applyUserFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []*models.User
	if err := applyPagination(query, filters.Limit, filters.Offset).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

func (r *UserPostgreSQL) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	var count int64
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *UserPostgreSQL) CountByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) (int64, error) {
	var count int64
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Model(&models.User{}).
		Where("user_type = ?", role).
		Count(&count).Error
	return count, err
}
