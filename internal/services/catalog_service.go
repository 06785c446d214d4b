package services

import (
	"context"
	"log/slog"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
)

// Rough per-question answering time used for the estimated duration shown
// in the catalog.
const minutesPerQuestion = 1.5

type catalogService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewCatalogService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// GetByCategory returns the active questionnaire for a category with its
// questions in order.
func (s *catalogService) GetByCategory(ctx context.Context, category string) (*QuestionnaireDetail, error) {
	questionnaire, err := s.repo.Questionnaire().GetActiveByCategory(ctx, nil, category)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, err
	}

	count := len(questionnaire.Questions)
	return &QuestionnaireDetail{
		Questionnaire:    questionnaire,
		QuestionCount:    count,
		EstimatedMinutes: estimatedMinutes(int64(count)),
	}, nil
}

// GetForUser returns the filling view for one questionnaire: its questions
// in order, each carrying the user's saved answer when one exists.
func (s *catalogService) GetForUser(ctx context.Context, userID, category string) (*QuestionnaireUserView, error) {
	detail, err := s.GetByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	responses, err := s.repo.Response().ListByUserAndQuestionnaire(ctx, nil, userID, detail.ID)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[string]*models.Response, len(responses))
	for _, response := range responses {
		byQuestion[response.QuestionID] = response
	}

	questions := make([]*QuestionWithAnswer, len(detail.Questions))
	for i := range detail.Questions {
		question := &detail.Questions[i]
		questions[i] = &QuestionWithAnswer{
			Question:       question,
			ExistingAnswer: byQuestion[question.ID],
		}
	}

	answered := int64(len(responses))
	total := int64(detail.QuestionCount)
	return &QuestionnaireUserView{
		ID:               detail.ID,
		Title:            detail.Title,
		Description:      detail.Description,
		Category:         detail.Category,
		Year:             detail.Year,
		EstimatedMinutes: detail.EstimatedMinutes,
		Questions:        questions,
		Progress: &ProgressInfo{
			Answered:   answered,
			Total:      total,
			Percentage: progressPercentage(answered, total),
		},
	}, nil
}

// ListForUser returns every active questionnaire annotated with the user's
// progress for the current year.
func (s *catalogService) ListForUser(ctx context.Context, userID string) ([]*QuestionnaireOverview, error) {
	questionnaires, err := s.repo.Questionnaire().ListActive(ctx, nil)
	if err != nil {
		return nil, err
	}

	completions, err := s.repo.Completion().ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	year := time.Now().Year()
	byQuestionnaire := make(map[string]*models.QuestionnaireCompletion, len(completions))
	for _, completion := range completions {
		if completion.Year == year {
			byQuestionnaire[completion.QuestionnaireID] = completion
		}
	}

	overviews := make([]*QuestionnaireOverview, 0, len(questionnaires))
	for _, questionnaire := range questionnaires {
		count, err := s.repo.Question().CountByQuestionnaire(ctx, nil, questionnaire.ID)
		if err != nil {
			return nil, err
		}

		overview := &QuestionnaireOverview{
			ID:               questionnaire.ID,
			Title:            questionnaire.Title,
			Description:      questionnaire.Description,
			Category:         questionnaire.Category,
			Year:             questionnaire.Year,
			QuestionCount:    count,
			EstimatedMinutes: estimatedMinutes(count),
			Status:           ProgressNotStarted,
		}

		if completion, ok := byQuestionnaire[questionnaire.ID]; ok {
			overview.Progress = completion.ProgressPercentage
			overview.CompletedAt = completion.CompletedAt
			switch {
			case completion.IsCompleted:
				overview.Status = ProgressCompleted
			case completion.ProgressPercentage > 0:
				overview.Status = ProgressInProgress
			}
		}

		overviews = append(overviews, overview)
	}

	return overviews, nil
}

func estimatedMinutes(questionCount int64) int {
	return int(math.Ceil(float64(questionCount) * minutesPerQuestion))
}
