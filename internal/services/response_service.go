package services

import (
	"context"
	"log/slog"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
	"github.com/matnas-digital/questionnaire-service/internal/validator"
)

type responseService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	events    NotificationEventService
}

func NewResponseService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, events NotificationEventService) ResponseService {
	return &responseService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		events:    events,
	}
}

// SaveAnswer upserts a single answer and recomputes stored progress in the
// same transaction. Both answer fields may be null; such a row records a
// touched-but-unanswered question and still counts toward progress. A
// completed questionnaire stays marked completed even if edits later pull
// the recomputed percentage below 100.
func (s *responseService) SaveAnswer(ctx context.Context, userID, category string, req *SaveAnswerRequest) (*SaveAnswerResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	questionnaire, err := s.getActiveQuestionnaire(ctx, category)
	if err != nil {
		return nil, err
	}

	belongs, err := s.repo.Question().BelongsToQuestionnaire(ctx, nil, req.QuestionID, questionnaire.ID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, ErrQuestionNotFound
	}

	var result *SaveAnswerResult
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		response := &models.Response{
			UserID:          userID,
			QuestionnaireID: questionnaire.ID,
			QuestionID:      req.QuestionID,
			AnswerValue:     req.AnswerValue,
			AnswerText:      req.AnswerText,
		}
		if err := txRepo.Response().Upsert(ctx, nil, response); err != nil {
			return err
		}

		progress, err := s.computeProgress(ctx, txRepo, userID, questionnaire.ID)
		if err != nil {
			return err
		}
		result = &SaveAnswerResult{
			Response: response,
			Progress: progress,
		}

		return s.storeProgress(ctx, txRepo, userID, questionnaire, progress)
	})
	if err != nil {
		s.logger.Error("failed to save answer",
			"error", err,
			"user_id", userID,
			"questionnaire_id", questionnaire.ID,
			"question_id", req.QuestionID)
		return nil, err
	}

	return result, nil
}

// Complete finalizes the questionnaire for the current year. The counts are
// recomputed inside the transaction rather than trusted from the stored
// progress row. Calling it again on a completed questionnaire succeeds and
// refreshes the completion timestamp.
func (s *responseService) Complete(ctx context.Context, userID, category string) (*CompletionResult, error) {
	questionnaire, err := s.getActiveQuestionnaire(ctx, category)
	if err != nil {
		return nil, err
	}

	var result *CompletionResult
	var completion *models.QuestionnaireCompletion
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		progress, err := s.computeProgress(ctx, txRepo, userID, questionnaire.ID)
		if err != nil {
			return err
		}

		if progress.Answered < progress.Total || progress.Total == 0 {
			return &IncompleteError{
				Answered:   progress.Answered,
				Total:      progress.Total,
				Percentage: progress.Percentage,
			}
		}

		now := time.Now()
		completion = &models.QuestionnaireCompletion{
			UserID:             userID,
			QuestionnaireID:    questionnaire.ID,
			Year:               now.Year(),
			ProgressPercentage: 100,
			IsCompleted:        true,
			CompletedAt:        &now,
		}
		if err := txRepo.Completion().Upsert(ctx, nil, completion); err != nil {
			return err
		}

		result = &CompletionResult{
			QuestionnaireID: questionnaire.ID,
			Year:            now.Year(),
			Percentage:      100,
			CompletedAt:     now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("questionnaire completed",
		"user_id", userID,
		"questionnaire_id", questionnaire.ID,
		"category", category)

	if user, lookupErr := s.repo.User().GetByID(ctx, nil, userID); lookupErr == nil {
		if err := s.events.QuestionnaireCompleted(ctx, user, completion); err != nil {
			s.logger.Error("failed to publish questionnaire completed event", "error", err)
		}
	}

	return result, nil
}

// GetAnswers returns the user's saved answers for the questionnaire along
// with current progress.
func (s *responseService) GetAnswers(ctx context.Context, userID, category string) (*AnswersResponse, error) {
	questionnaire, err := s.getActiveQuestionnaire(ctx, category)
	if err != nil {
		return nil, err
	}

	answers, err := s.repo.Response().ListByUserAndQuestionnaire(ctx, nil, userID, questionnaire.ID)
	if err != nil {
		return nil, err
	}

	progress, err := s.computeProgress(ctx, s.repo, userID, questionnaire.ID)
	if err != nil {
		return nil, err
	}

	return &AnswersResponse{
		QuestionnaireID: questionnaire.ID,
		Answers:         answers,
		Progress:        progress,
	}, nil
}

func (s *responseService) getActiveQuestionnaire(ctx context.Context, category string) (*models.Questionnaire, error) {
	questionnaire, err := s.repo.Questionnaire().GetActiveByCategory(ctx, nil, category)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, err
	}
	return questionnaire, nil
}

func (s *responseService) computeProgress(ctx context.Context, repo repositories.Repository, userID, questionnaireID string) (*ProgressInfo, error) {
	answered, err := repo.Response().CountByUserAndQuestionnaire(ctx, nil, userID, questionnaireID)
	if err != nil {
		return nil, err
	}

	total, err := repo.Question().CountByQuestionnaire(ctx, nil, questionnaireID)
	if err != nil {
		return nil, err
	}

	return &ProgressInfo{
		Answered:   answered,
		Total:      total,
		Percentage: progressPercentage(answered, total),
	}, nil
}

// storeProgress updates the stored completion row without disturbing an
// earlier completion stamp.
func (s *responseService) storeProgress(ctx context.Context, repo repositories.Repository, userID string, questionnaire *models.Questionnaire, progress *ProgressInfo) error {
	year := time.Now().Year()

	completion := &models.QuestionnaireCompletion{
		UserID:             userID,
		QuestionnaireID:    questionnaire.ID,
		Year:               year,
		ProgressPercentage: progress.Percentage,
	}

	existing, err := repo.Completion().Get(ctx, nil, userID, questionnaire.ID, year)
	if err != nil && !repositories.IsNotFoundError(err) {
		return err
	}
	if existing != nil {
		completion.IsCompleted = existing.IsCompleted
		completion.CompletedAt = existing.CompletedAt
	}

	return repo.Completion().Upsert(ctx, nil, completion)
}

// progressPercentage rounds answered/total to a whole percentage;
// an empty questionnaire reports zero.
func progressPercentage(answered, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(answered) / float64(total) * 100))
}
