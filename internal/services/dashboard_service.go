package services

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/repositories"
)

const recentItemsLimit = 5

type dashboardService struct {
	repo    repositories.Repository
	db      *gorm.DB
	logger  *slog.Logger
	catalog CatalogService
}

func NewDashboardService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, catalog CatalogService) DashboardService {
	return &dashboardService{
		repo:    repo,
		db:      db,
		logger:  logger,
		catalog: catalog,
	}
}

// AdminOverview aggregates counts plus the most recent invitations and
// completions for the admin landing page.
func (s *dashboardService) AdminOverview(ctx context.Context) (*AdminDashboard, error) {
	stats, err := s.repo.Dashboard().GetAdminStats(ctx, nil)
	if err != nil {
		return nil, err
	}

	invitations, _, err := s.repo.Invitation().List(ctx, nil, repositories.InvitationFilters{
		Limit: recentItemsLimit,
	})
	if err != nil {
		return nil, err
	}

	completions, err := s.repo.Dashboard().ListCompleted(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(completions) > recentItemsLimit {
		completions = completions[:recentItemsLimit]
	}

	return &AdminDashboard{
		Stats:             stats,
		RecentInvitations: invitations,
		RecentCompletions: completions,
	}, nil
}

// ManagerOverview shows a manager every active questionnaire with their
// progress for the current year.
func (s *dashboardService) ManagerOverview(ctx context.Context, userID string) (*ManagerDashboard, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	overviews, err := s.catalog.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, overview := range overviews {
		if overview.Status == ProgressCompleted {
			completed++
		}
	}

	return &ManagerDashboard{
		User:           toUserInfo(user),
		Questionnaires: overviews,
		TotalCompleted: completed,
	}, nil
}

// CompletedQuestionnaires groups every completed questionnaire by category
// for the admin report.
func (s *dashboardService) CompletedQuestionnaires(ctx context.Context) (*CompletedQuestionnairesReport, error) {
	rows, err := s.repo.Dashboard().ListCompleted(ctx, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	groupsByCategory := make(map[string]*CompletedCategoryGroup)
	var groups []*CompletedCategoryGroup
	thisMonth := 0

	for _, row := range rows {
		group, ok := groupsByCategory[row.Category]
		if !ok {
			group = &CompletedCategoryGroup{
				Category: row.Category,
				Title:    row.Title,
			}
			groupsByCategory[row.Category] = group
			groups = append(groups, group)
		}
		group.Completions = append(group.Completions, row)
		group.Count++

		if !row.CompletedAt.Before(monthStart) {
			thisMonth++
		}
	}

	return &CompletedQuestionnairesReport{
		Groups:             groups,
		TotalCompleted:     len(rows),
		CompletedThisMonth: thisMonth,
	}, nil
}

// QuestionnaireResponses returns one user's answers joined with question
// metadata for admin review.
func (s *dashboardService) QuestionnaireResponses(ctx context.Context, userID, questionnaireID string) (*QuestionnaireResponsesDetail, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	questionnaire, err := s.repo.Questionnaire().GetByID(ctx, nil, questionnaireID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, err
	}

	rows, err := s.repo.Response().ListRowsWithQuestions(ctx, nil, userID, questionnaireID)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Question().CountByQuestionnaire(ctx, nil, questionnaireID)
	if err != nil {
		return nil, err
	}

	answered := int64(len(rows))
	return &QuestionnaireResponsesDetail{
		User:          toUserInfo(user),
		Questionnaire: questionnaire,
		Responses:     rows,
		Progress: &ProgressInfo{
			Answered:   answered,
			Total:      total,
			Percentage: progressPercentage(answered, total),
		},
	}, nil
}
