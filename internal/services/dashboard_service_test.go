package services

import (
	"context"
	"errors"
	"testing"

	"github.com/matnas-digital/questionnaire-service/internal/models"
)

func TestDashboardService_AdminOverview(t *testing.T) {
	env := newTestEnv(t)
	dashboard := env.dashboardService()
	invitations := env.invitationService()
	responses := env.responseService()
	admin := seedUser(t, env, "admin@example.com", "password123", models.RoleAdmin)
	manager := seedUser(t, env, "manager@example.com", "password123", models.RoleManager)
	questionnaire := seedQuestionnaire(t, env, "community-center", 1)
	ctx := context.Background()

	if _, err := invitations.Create(ctx, &CreateInvitationRequest{Email: "invited@example.com"}, admin.ID); err != nil {
		t.Fatalf("Create invitation failed: %v", err)
	}
	if _, err := responses.SaveAnswer(ctx, manager.ID, "community-center", &SaveAnswerRequest{
		QuestionID:  questionnaire.Questions[0].ID,
		AnswerValue: strPtr("5"),
	}); err != nil {
		t.Fatalf("SaveAnswer failed: %v", err)
	}
	if _, err := responses.Complete(ctx, manager.ID, "community-center"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	overview, err := dashboard.AdminOverview(ctx)
	if err != nil {
		t.Fatalf("AdminOverview failed: %v", err)
	}

	if overview.Stats.TotalManagers != 1 {
		t.Errorf("expected 1 manager, got %d", overview.Stats.TotalManagers)
	}
	if overview.Stats.TotalQuestionnaires != 1 {
		t.Errorf("expected 1 questionnaire, got %d", overview.Stats.TotalQuestionnaires)
	}
	if overview.Stats.CompletedQuestionnaires != 1 {
		t.Errorf("expected 1 completion, got %d", overview.Stats.CompletedQuestionnaires)
	}
	if overview.Stats.CompletedThisMonth != 1 {
		t.Errorf("expected 1 completion this month, got %d", overview.Stats.CompletedThisMonth)
	}
	if overview.Stats.PendingInvitations != 1 {
		t.Errorf("expected 1 pending invitation, got %d", overview.Stats.PendingInvitations)
	}
	if len(overview.RecentInvitations) != 1 {
		t.Errorf("expected 1 recent invitation, got %d", len(overview.RecentInvitations))
	}
	if len(overview.RecentCompletions) != 1 {
		t.Errorf("expected 1 recent completion, got %d", len(overview.RecentCompletions))
	}
}

func TestDashboardService_ManagerOverview(t *testing.T) {
	env := newTestEnv(t)
	dashboard := env.dashboardService()
	responses := env.responseService()
	manager := seedUser(t, env, "manager@example.com", "password123", models.RoleManager)
	questionnaire := seedQuestionnaire(t, env, "community-center", 1)
	seedQuestionnaire(t, env, "youth-club", 2)
	ctx := context.Background()

	if _, err := responses.SaveAnswer(ctx, manager.ID, "community-center", &SaveAnswerRequest{
		QuestionID:  questionnaire.Questions[0].ID,
		AnswerValue: strPtr("5"),
	}); err != nil {
		t.Fatalf("SaveAnswer failed: %v", err)
	}
	if _, err := responses.Complete(ctx, manager.ID, "community-center"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	overview, err := dashboard.ManagerOverview(ctx, manager.ID)
	if err != nil {
		t.Fatalf("ManagerOverview failed: %v", err)
	}

	if overview.User.ID != manager.ID {
		t.Errorf("unexpected user in overview: %s", overview.User.ID)
	}
	if len(overview.Questionnaires) != 2 {
		t.Errorf("expected 2 questionnaires, got %d", len(overview.Questionnaires))
	}
	if overview.TotalCompleted != 1 {
		t.Errorf("expected 1 completed, got %d", overview.TotalCompleted)
	}

	t.Run("unknown user", func(t *testing.T) {
		_, err := dashboard.ManagerOverview(ctx, "00000000-0000-0000-0000-000000000000")
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestDashboardService_CompletedQuestionnaires(t *testing.T) {
	env := newTestEnv(t)
	dashboard := env.dashboardService()
	responses := env.responseService()
	first := seedUser(t, env, "first@example.com", "password123", models.RoleManager)
	second := seedUser(t, env, "second@example.com", "password123", models.RoleManager)
	community := seedQuestionnaire(t, env, "community-center", 1)
	youth := seedQuestionnaire(t, env, "youth-club", 1)
	ctx := context.Background()

	complete := func(t *testing.T, userID, category, questionID string) {
		t.Helper()
		if _, err := responses.SaveAnswer(ctx, userID, category, &SaveAnswerRequest{
			QuestionID:  questionID,
			AnswerValue: strPtr("5"),
		}); err != nil {
			t.Fatalf("SaveAnswer failed: %v", err)
		}
		if _, err := responses.Complete(ctx, userID, category); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
	}

	complete(t, first.ID, "community-center", community.Questions[0].ID)
	complete(t, second.ID, "community-center", community.Questions[0].ID)
	complete(t, first.ID, "youth-club", youth.Questions[0].ID)

	report, err := dashboard.CompletedQuestionnaires(ctx)
	if err != nil {
		t.Fatalf("CompletedQuestionnaires failed: %v", err)
	}

	if report.TotalCompleted != 3 {
		t.Errorf("expected 3 completions, got %d", report.TotalCompleted)
	}
	if report.CompletedThisMonth != 3 {
		t.Errorf("expected 3 completions this month, got %d", report.CompletedThisMonth)
	}
	if len(report.Groups) != 2 {
		t.Fatalf("expected 2 category groups, got %d", len(report.Groups))
	}

	counts := make(map[string]int)
	for _, group := range report.Groups {
		counts[group.Category] = group.Count
	}
	if counts["community-center"] != 2 {
		t.Errorf("expected 2 community-center completions, got %d", counts["community-center"])
	}
	if counts["youth-club"] != 1 {
		t.Errorf("expected 1 youth-club completion, got %d", counts["youth-club"])
	}
}

func TestDashboardService_QuestionnaireResponses(t *testing.T) {
	env := newTestEnv(t)
	dashboard := env.dashboardService()
	responses := env.responseService()
	manager := seedUser(t, env, "manager@example.com", "password123", models.RoleManager)
	questionnaire := seedQuestionnaire(t, env, "community-center", 2)
	ctx := context.Background()

	if _, err := responses.SaveAnswer(ctx, manager.ID, "community-center", &SaveAnswerRequest{
		QuestionID:  questionnaire.Questions[0].ID,
		AnswerValue: strPtr("4"),
		AnswerText:  strPtr("some detail"),
	}); err != nil {
		t.Fatalf("SaveAnswer failed: %v", err)
	}

	detail, err := dashboard.QuestionnaireResponses(ctx, manager.ID, questionnaire.ID)
	if err != nil {
		t.Fatalf("QuestionnaireResponses failed: %v", err)
	}

	if detail.User.ID != manager.ID {
		t.Errorf("unexpected user: %s", detail.User.ID)
	}
	if len(detail.Responses) != 1 {
		t.Fatalf("expected 1 response row, got %d", len(detail.Responses))
	}
	row := detail.Responses[0]
	if row.QuestionNumber != 1 || row.QuestionText == "" {
		t.Errorf("expected joined question metadata, got %+v", row)
	}
	if row.AnswerValue == nil || *row.AnswerValue != "4" {
		t.Errorf("unexpected answer value: %+v", row.AnswerValue)
	}
	if detail.Progress.Answered != 1 || detail.Progress.Total != 2 || detail.Progress.Percentage != 50 {
		t.Errorf("unexpected progress: %+v", detail.Progress)
	}

	t.Run("unknown questionnaire", func(t *testing.T) {
		_, err := dashboard.QuestionnaireResponses(ctx, manager.ID, "00000000-0000-0000-0000-000000000000")
		if !errors.Is(err, ErrQuestionnaireNotFound) {
			t.Errorf("expected ErrQuestionnaireNotFound, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := dashboard.QuestionnaireResponses(ctx, "00000000-0000-0000-0000-000000000000", questionnaire.ID)
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}
