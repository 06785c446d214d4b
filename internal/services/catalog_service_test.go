package services

import (
	"context"
	"errors"
	"testing"

	"github.com/matnas-digital/questionnaire-service/internal/models"
)

func TestCatalogService_GetByCategory(t *testing.T) {
	env := newTestEnv(t)
	service := env.catalogService()
	seedQuestionnaire(t, env, "community-center", 5)
	ctx := context.Background()

	t.Run("returns active questionnaire with ordered questions", func(t *testing.T) {
		detail, err := service.GetByCategory(ctx, "community-center")
		if err != nil {
			t.Fatalf("GetByCategory failed: %v", err)
		}
		if detail.QuestionCount != 5 {
			t.Errorf("expected 5 questions, got %d", detail.QuestionCount)
		}
		// 5 questions at a minute and a half each, rounded up.
		if detail.EstimatedMinutes != 8 {
			t.Errorf("expected 8 estimated minutes, got %d", detail.EstimatedMinutes)
		}
		for i, q := range detail.Questions {
			if q.QuestionNumber != i+1 {
				t.Errorf("questions out of order at index %d: number %d", i, q.QuestionNumber)
			}
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := service.GetByCategory(ctx, "no-such-category")
		if !errors.Is(err, ErrQuestionnaireNotFound) {
			t.Errorf("expected ErrQuestionnaireNotFound, got %v", err)
		}
	})

	t.Run("inactive questionnaire is not served", func(t *testing.T) {
		q := seedQuestionnaire(t, env, "retired-form", 2)
		if err := env.db.Model(&models.Questionnaire{}).Where("id = ?", q.ID).
			Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate questionnaire: %v", err)
		}

		_, err := service.GetByCategory(ctx, "retired-form")
		if !errors.Is(err, ErrQuestionnaireNotFound) {
			t.Errorf("expected ErrQuestionnaireNotFound for inactive form, got %v", err)
		}
	})
}

func TestCatalogService_GetForUser(t *testing.T) {
	env := newTestEnv(t)
	service := env.catalogService()
	responses := env.responseService()
	manager := seedUser(t, env, "manager@example.com", "password123", models.RoleManager)
	q := seedQuestionnaire(t, env, "community-center", 3)
	ctx := context.Background()

	if _, err := responses.SaveAnswer(ctx, manager.ID, "community-center", &SaveAnswerRequest{
		QuestionID:  q.Questions[1].ID,
		AnswerValue: strPtr("4"),
	}); err != nil {
		t.Fatalf("SaveAnswer failed: %v", err)
	}

	view, err := service.GetForUser(ctx, manager.ID, "community-center")
	if err != nil {
		t.Fatalf("GetForUser failed: %v", err)
	}

	if len(view.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(view.Questions))
	}
	if view.Questions[0].ExistingAnswer != nil {
		t.Error("unanswered question should carry a nil answer")
	}
	answered := view.Questions[1].ExistingAnswer
	if answered == nil {
		t.Fatal("expected the saved answer to be merged in")
	}
	if answered.AnswerValue == nil || *answered.AnswerValue != "4" {
		t.Errorf("unexpected merged answer: %+v", answered)
	}
	if view.Progress.Answered != 1 || view.Progress.Total != 3 || view.Progress.Percentage != 33 {
		t.Errorf("unexpected progress: %+v", view.Progress)
	}

	t.Run("unknown category", func(t *testing.T) {
		_, err := service.GetForUser(ctx, manager.ID, "no-such-category")
		if !errors.Is(err, ErrQuestionnaireNotFound) {
			t.Errorf("expected ErrQuestionnaireNotFound, got %v", err)
		}
	})
}

func TestCatalogService_ListForUser(t *testing.T) {
	env := newTestEnv(t)
	service := env.catalogService()
	responses := env.responseService()
	manager := seedUser(t, env, "manager@example.com", "password123", models.RoleManager)
	first := seedQuestionnaire(t, env, "community-center", 2)
	seedQuestionnaire(t, env, "youth-club", 3)
	ctx := context.Background()

	t.Run("everything starts as not started", func(t *testing.T) {
		overviews, err := service.ListForUser(ctx, manager.ID)
		if err != nil {
			t.Fatalf("ListForUser failed: %v", err)
		}
		if len(overviews) != 2 {
			t.Fatalf("expected 2 questionnaires, got %d", len(overviews))
		}
		for _, o := range overviews {
			if o.Status != ProgressNotStarted {
				t.Errorf("expected not_started for %s, got %s", o.Category, o.Status)
			}
		}
	})

	t.Run("partial answers show in progress", func(t *testing.T) {
		if _, err := responses.SaveAnswer(ctx, manager.ID, "community-center", &SaveAnswerRequest{
			QuestionID:  first.Questions[0].ID,
			AnswerValue: strPtr("4"),
		}); err != nil {
			t.Fatalf("SaveAnswer failed: %v", err)
		}

		overviews, err := service.ListForUser(ctx, manager.ID)
		if err != nil {
			t.Fatalf("ListForUser failed: %v", err)
		}
		for _, o := range overviews {
			if o.Category == "community-center" {
				if o.Status != ProgressInProgress {
					t.Errorf("expected in_progress, got %s", o.Status)
				}
				if o.Progress != 50 {
					t.Errorf("expected 50%%, got %d", o.Progress)
				}
			}
		}
	})

	t.Run("completed questionnaire shows completed", func(t *testing.T) {
		if _, err := responses.SaveAnswer(ctx, manager.ID, "community-center", &SaveAnswerRequest{
			QuestionID:  first.Questions[1].ID,
			AnswerValue: strPtr("5"),
		}); err != nil {
			t.Fatalf("SaveAnswer failed: %v", err)
		}
		if _, err := responses.Complete(ctx, manager.ID, "community-center"); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}

		overviews, err := service.ListForUser(ctx, manager.ID)
		if err != nil {
			t.Fatalf("ListForUser failed: %v", err)
		}
		for _, o := range overviews {
			if o.Category == "community-center" {
				if o.Status != ProgressCompleted {
					t.Errorf("expected completed, got %s", o.Status)
				}
				if o.CompletedAt == nil {
					t.Error("expected completed_at to be set")
				}
			}
			if o.Category == "youth-club" && o.Status != ProgressNotStarted {
				t.Errorf("youth-club should be untouched, got %s", o.Status)
			}
		}
	})
}

func TestEstimatedMinutes(t *testing.T) {
	cases := []struct {
		count int64
		want  int
	}{
		{0, 0},
		{1, 2},
		{2, 3},
		{10, 15},
	}
	for _, tc := range cases {
		if got := estimatedMinutes(tc.count); got != tc.want {
			t.Errorf("estimatedMinutes(%d) = %d, want %d", tc.count, got, tc.want)
		}
	}
}
