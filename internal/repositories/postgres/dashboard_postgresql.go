package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/cache"
	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
)

// DashboardPostgreSQL implements DashboardRepository. Aggregations are
// cached briefly since admin dashboards tolerate slightly stale counts.
type DashboardPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheHelper
}

func NewDashboardPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.DashboardRepository {
	return &DashboardPostgreSQL{
		db:    db,
		cache: cache.NewCacheHelper(redisClient, cache.StatsCacheConfig.Prefix),
	}
}

func (r *DashboardPostgreSQL) GetAdminStats(ctx context.Context, tx *gorm.DB) (*repositories.AdminStats, error) {
	if tx != nil {
		return r.fetchAdminStats(ctx, tx)
	}

	var stats repositories.AdminStats
	err := r.cache.CacheOrExecute(ctx, "dashboard:admin", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return r.fetchAdminStats(ctx, nil)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *DashboardPostgreSQL) fetchAdminStats(ctx context.Context, tx *gorm.DB) (*repositories.AdminStats, error) {
	db := dbOrTx(r.db, tx).WithContext(ctx)
	stats := &repositories.AdminStats{}

	if err := db.Model(&models.User{}).
		Where("user_type = ?", models.RoleManager).
		Count(&stats.TotalManagers).Error; err != nil {
		return nil, fmt.Errorf("failed to count managers: %w", err)
	}

	if err := db.Model(&models.Questionnaire{}).
		Where("is_active = ?", true).
		Count(&stats.TotalQuestionnaires).Error; err != nil {
		return nil, fmt.Errorf("failed to count questionnaires: %w", err)
	}

	if err := db.Model(&models.QuestionnaireCompletion{}).
		Where("is_completed = ?", true).
		Count(&stats.CompletedQuestionnaires).Error; err != nil {
		return nil, fmt.Errorf("failed to count completions: %w", err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := db.Model(&models.QuestionnaireCompletion{}).
		Where("is_completed = ? AND completed_at >= ?", true, monthStart).
		Count(&stats.CompletedThisMonth).Error; err != nil {
		return nil, fmt.Errorf("failed to count completions this month: %w", err)
	}

	if err := db.Model(&models.Invitation{}).
		Where("status = ?", models.InvitationPending).
		Count(&stats.PendingInvitations).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending invitations: %w", err)
	}

	return stats, nil
}

func (r *DashboardPostgreSQL) ListCompleted(ctx context.Context, tx *gorm.DB) ([]*repositories.CompletedRow, error) {
	var rows []*repositories.CompletedRow
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Model(&models.QuestionnaireCompletion{}).
		Select(`questionnaire_completions.id AS completion_id,
			users.id AS user_id,
			users.full_name,
			users.email,
			users.organization_name,
			questionnaires.id AS questionnaire_id,
			questionnaires.title,
			questionnaires.category,
			questionnaire_completions.year,
			questionnaire_completions.completed_at`).
		Joins("JOIN users ON users.id = questionnaire_completions.user_id").
		Joins("JOIN questionnaires ON questionnaires.id = questionnaire_completions.questionnaire_id").
		Where("questionnaire_completions.is_completed = ?", true).
		Order("questionnaire_completions.completed_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list completed questionnaires: %w", err)
	}
	return rows, nil
}
