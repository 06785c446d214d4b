package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/models"
)

// QuestionnaireRepository interface for questionnaire catalog reads
type QuestionnaireRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Questionnaire, error)
	GetActiveByCategory(ctx context.Context, tx *gorm.DB, category string) (*models.Questionnaire, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*models.Questionnaire, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

// QuestionRepository interface for question reads within a questionnaire
type QuestionRepository interface {
	ListByQuestionnaire(ctx context.Context, tx *gorm.DB, questionnaireID string) ([]*models.Question, error)
	CountByQuestionnaire(ctx context.Context, tx *gorm.DB, questionnaireID string) (int64, error)
	BelongsToQuestionnaire(ctx context.Context, tx *gorm.DB, questionID, questionnaireID string) (bool, error)
}
