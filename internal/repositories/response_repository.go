package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/models"
)

// ResponseRepository interface for saved answers
type ResponseRepository interface {
	// Upsert writes the answer keyed by (user, questionnaire, question),
	// overwriting any previous value.
	Upsert(ctx context.Context, tx *gorm.DB, response *models.Response) error

	ListByUserAndQuestionnaire(ctx context.Context, tx *gorm.DB, userID, questionnaireID string) ([]*models.Response, error)
	CountByUserAndQuestionnaire(ctx context.Context, tx *gorm.DB, userID, questionnaireID string) (int64, error)

	// ListRowsWithQuestions returns answers joined with question metadata,
	// ordered by question number.
	ListRowsWithQuestions(ctx context.Context, tx *gorm.DB, userID, questionnaireID string) ([]*ResponseRow, error)
}

// CompletionRepository interface for per-year progress records
type CompletionRepository interface {
	// Upsert writes the completion keyed by (user, questionnaire, year).
	Upsert(ctx context.Context, tx *gorm.DB, completion *models.QuestionnaireCompletion) error

	Get(ctx context.Context, tx *gorm.DB, userID, questionnaireID string, year int) (*models.QuestionnaireCompletion, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.QuestionnaireCompletion, error)
}
