package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/cache"
	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
)

// QuestionnairePostgreSQL implements QuestionnaireRepository with a
// read-through catalog cache. The catalog is effectively static between
// deployments so cached reads expire by TTL rather than invalidation.
type QuestionnairePostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheHelper
}

func NewQuestionnairePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.QuestionnaireRepository {
	return &QuestionnairePostgreSQL{
		db:    db,
		cache: cache.NewCacheHelper(redisClient, cache.CatalogCacheConfig.Prefix),
	}
}

func (r *QuestionnairePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Questionnaire, error) {
	var questionnaire models.Questionnaire
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Where("id = ?", id).
		First(&questionnaire).Error
	if err != nil {
		return nil, err
	}
	return &questionnaire, nil
}

func (r *QuestionnairePostgreSQL) GetActiveByCategory(ctx context.Context, tx *gorm.DB, category string) (*models.Questionnaire, error) {
	// Transactions bypass the cache.
	if tx != nil {
		return r.fetchActiveByCategory(ctx, tx, category)
	}

	var questionnaire models.Questionnaire
	cacheKey := fmt.Sprintf("questionnaire:%s", category)
	err := r.cache.CacheOrExecute(ctx, cacheKey, &questionnaire, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		return r.fetchActiveByCategory(ctx, nil, category)
	})
	if err != nil {
		return nil, err
	}
	return &questionnaire, nil
}

func (r *QuestionnairePostgreSQL) fetchActiveByCategory(ctx context.Context, tx *gorm.DB, category string) (*models.Questionnaire, error) {
	var questionnaire models.Questionnaire
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_number ASC")
		}).
		Where("category = ? AND is_active = ?", category, true).
		First(&questionnaire).Error
	if err != nil {
		return nil, err
	}
	return &questionnaire, nil
}

func (r *QuestionnairePostgreSQL) ListActive(ctx context.Context, tx *gorm.DB) ([]*models.Questionnaire, error) {
	fetch := func() ([]*models.Questionnaire, error) {
		var questionnaires []*models.Questionnaire
		err := dbOrTx(r.db, tx).WithContext(ctx).
			Where("is_active = ?", true).
			Order("category ASC").
			Find(&questionnaires).Error
		return questionnaires, err
	}

	if tx != nil {
		return fetch()
	}

	var questionnaires []*models.Questionnaire
	err := r.cache.CacheOrExecute(ctx, "questionnaire:list", &questionnaires, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		return fetch()
	})
	if err != nil {
		return nil, err
	}
	return questionnaires, nil
}

func (r *QuestionnairePostgreSQL) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Model(&models.Questionnaire{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// QuestionPostgreSQL implements QuestionRepository backed by gorm.
type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (r *QuestionPostgreSQL) ListByQuestionnaire(ctx context.Context, tx *gorm.DB, questionnaireID string) ([]*models.Question, error) {
	var questions []*models.Question
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Where("questionnaire_id = ?", questionnaireID).
		Order("question_number ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionPostgreSQL) CountByQuestionnaire(ctx context.Context, tx *gorm.DB, questionnaireID string) (int64, error) {
	var count int64
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Model(&models.Question{}).
		Where("questionnaire_id = ?", questionnaireID).
		Count(&count).Error
	return count, err
}

func (r *QuestionPostgreSQL) BelongsToQuestionnaire(ctx context.Context, tx *gorm.DB, questionID, questionnaireID string) (bool, error) {
	var count int64
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ? AND questionnaire_id = ?", questionID, questionnaireID).
		Count(&count).Error
	return count > 0, err
}
