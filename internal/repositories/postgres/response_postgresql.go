package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/matnas-digital/questionnaire-service/internal/cache"
	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
)

// ResponsePostgreSQL implements ResponseRepository backed by gorm.
type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{db: db}
}

func (r *ResponsePostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, response *models.Response) error {
	return dbOrTx(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "questionnaire_id"},
				{Name: "question_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"answer_value", "answer_text", "updated_at"}),
		}).
		Create(response).Error
}

func (r *ResponsePostgreSQL) ListByUserAndQuestionnaire(ctx context.Context, tx *gorm.DB, userID, questionnaireID string) ([]*models.Response, error) {
	var responses []*models.Response
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Where("user_id = ? AND questionnaire_id = ?", userID, questionnaireID).
		Find(&responses).Error
	return responses, err
}

func (r *ResponsePostgreSQL) CountByUserAndQuestionnaire(ctx context.Context, tx *gorm.DB, userID, questionnaireID string) (int64, error) {
	var count int64
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Model(&models.Response{}).
		Where("user_id = ? AND questionnaire_id = ?", userID, questionnaireID).
		Count(&count).Error
	return count, err
}

func (r *ResponsePostgreSQL) ListRowsWithQuestions(ctx context.Context, tx *gorm.DB, userID, questionnaireID string) ([]*repositories.ResponseRow, error) {
	var rows []*repositories.ResponseRow
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Model(&models.Response{}).
		Select(`questions.id AS question_id,
			questions.question_number,
			questions.question_text,
			questions.question_type,
			questions.section_title,
			responses.answer_value,
			responses.answer_text,
			responses.updated_at AS answered_at`).
		Joins("JOIN questions ON questions.id = responses.question_id").
		Where("responses.user_id = ? AND responses.questionnaire_id = ?", userID, questionnaireID).
		Order("questions.question_number ASC").
		Scan(&rows).Error
	return rows, err
}

// CompletionPostgreSQL implements CompletionRepository backed by gorm.
// Per-user reads go through the short-lived progress cache; writes drop the
// user's progress entries and the dashboard aggregations derived from them.
type CompletionPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewCompletionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CompletionRepository {
	return &CompletionPostgreSQL{db: db, cache: cacheManager}
}

func (r *CompletionPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, completion *models.QuestionnaireCompletion) error {
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "questionnaire_id"},
				{Name: "year"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"progress_percentage", "is_completed", "completed_at", "updated_at"}),
		}).
		Create(completion).Error
	if err != nil {
		return err
	}

	if r.cache != nil {
		cache.InvalidateCompletionCaches(ctx, r.cache, completion.UserID)
	}
	return nil
}

func (r *CompletionPostgreSQL) Get(ctx context.Context, tx *gorm.DB, userID, questionnaireID string, year int) (*models.QuestionnaireCompletion, error) {
	var completion models.QuestionnaireCompletion
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Where("user_id = ? AND questionnaire_id = ? AND year = ?", userID, questionnaireID, year).
		First(&completion).Error
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

func (r *CompletionPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.QuestionnaireCompletion, error) {
	fetch := func() ([]*models.QuestionnaireCompletion, error) {
		var completions []*models.QuestionnaireCompletion
		err := dbOrTx(r.db, tx).WithContext(ctx).
			Where("user_id = ?", userID).
			Find(&completions).Error
		return completions, err
	}

	// Transactions bypass the cache.
	if tx != nil || r.cache == nil {
		return fetch()
	}

	var completions []*models.QuestionnaireCompletion
	cacheKey := fmt.Sprintf("user:%s:completions", userID)
	err := r.cache.Progress.CacheOrExecute(ctx, cacheKey, &completions, cache.ProgressCacheConfig.TTL, func() (interface{}, error) {
		return fetch()
	})
	if err != nil {
		return nil, err
	}
	return completions, nil
}
