package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matnas-digital/questionnaire-service/internal/events"
	"github.com/matnas-digital/questionnaire-service/internal/models"
)

func TestResponseService_SaveAnswer(t *testing.T) {
	env := newTestEnv(t)
	service := env.responseService()
	manager := seedUser(t, env, "manager@example.com", "password123", models.RoleManager)
	questionnaire := seedQuestionnaire(t, env, "community-center", 4)
	ctx := context.Background()

	t.Run("saves answer and returns it with progress", func(t *testing.T) {
		result, err := service.SaveAnswer(ctx, manager.ID, "community-center", &SaveAnswerRequest{
			QuestionID:  questionnaire.Questions[0].ID,
			AnswerValue: strPtr("4"),
		})
		if err != nil {
			t.Fatalf("SaveAnswer failed: %v", err)
		}
		if result.Response == nil || result.Response.ID == "" {
			t.Fatalf("expected the saved response to be returned, got %+v", result.Response)
		}
		if result.Response.AnswerValue == nil || *result.Response.AnswerValue != "4" {
			t.Errorf("unexpected returned answer value: %+v", result.Response.AnswerValue)
		}
		if result.Progress.Answered != 1 || result.Progress.Total != 4 {
			t.Errorf("expected 1/4 answered, got %d/%d", result.Progress.Answered, result.Progress.Total)
		}
		if result.Progress.Percentage != 25 {
			t.Errorf("expected 25%%, got %d", result.Progress.Percentage)
		}
	})

	t.Run("resaving the same question overwrites instead of duplicating", func(t *testing.T) {
		result, err := service.SaveAnswer(ctx, manager.ID, "community-center", &SaveAnswerRequest{
			QuestionID:  questionnaire.Questions[0].ID,
			AnswerValue: strPtr("2"),
			AnswerText:  strPtr("changed my mind"),
		})
		if err != nil {
			t.Fatalf("SaveAnswer failed: %v", err)
		}
		if result.Progress.Answered != 1 {
			t.Errorf("expected answered to remain 1, got %d", result.Progress.Answered)
		}

		answers, err := env.repo.Response().ListByUserAndQuestionnaire(ctx, nil, manager.ID, questionnaire.ID)
		if err != nil {
			t.Fatalf("failed to list answers: %v", err)
		}
		if len(answers) != 1 {
			t.Fatalf("expected a single stored answer, got %d", len(answers))
		}
		if answers[0].AnswerValue == nil || *answers[0].AnswerValue != "2" {
			t.Errorf("expected overwritten answer value, got %+v", answers[0].AnswerValue)
		}
		if answers[0].AnswerText == nil || *answers[0].AnswerText != "changed my mind" {
			t.Errorf("expected overwritten answer text, got %+v", answers[0].AnswerText)
		}
	})

	t.Run("both-null answer records a touched question and counts toward progress", func(t *testing.T) {
		result, err := service.SaveAnswer(ctx, manager.ID, "community-center", &SaveAnswerRequest{
			QuestionID: questionnaire.Questions[1].ID,
		})
		if err != nil {
			t.Fatalf("SaveAnswer with both fields null failed: %v", err)
		}
		if result.Response.AnswerValue != nil || result.Response.AnswerText != nil {
			t.Errorf("expected both answer fields stored as null, got %+v", result.Response)
		}
		if result.Progress.Answered != 2 {
			t.Errorf("touched question should count toward progress, got %d answered", result.Progress.Answered)
		}
		if result.Progress.Percentage != 50 {
			t.Errorf("expected 50%%, got %d", result.Progress.Percentage)
		}
	})

	t.Run("rejects question from another questionnaire", func(t *testing.T) {
		other := seedQuestionnaire(t, env, "youth-club", 2)
		_, err := service.SaveAnswer(ctx, manager.ID, "community-center", &SaveAnswerRequest{
			QuestionID:  other.Questions[0].ID,
			AnswerValue: strPtr("3"),
		})
		if !errors.Is(err, ErrQuestionNotFound) {
			t.Errorf("expected ErrQuestionNotFound, got %v", err)
		}
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := service.SaveAnswer(ctx, manager.ID, "no-such-category", &SaveAnswerRequest{
			QuestionID:  questionnaire.Questions[0].ID,
			AnswerValue: strPtr("1"),
		})
		if !errors.Is(err, ErrQuestionnaireNotFound) {
			t.Errorf("expected ErrQuestionnaireNotFound, got %v", err)
		}
	})
}

func TestResponseService_Complete(t *testing.T) {
	env := newTestEnv(t)
	service := env.responseService()
	manager := seedUser(t, env, "manager@example.com", "password123", models.RoleManager)
	questionnaire := seedQuestionnaire(t, env, "community-center", 3)
	ctx := context.Background()

	answer := func(t *testing.T, idx int) {
		t.Helper()
		if _, err := service.SaveAnswer(ctx, manager.ID, "community-center", &SaveAnswerRequest{
			QuestionID:  questionnaire.Questions[idx].ID,
			AnswerValue: strPtr("5"),
		}); err != nil {
			t.Fatalf("SaveAnswer failed: %v", err)
		}
	}

	t.Run("fails while questions remain unanswered", func(t *testing.T) {
		answer(t, 0)
		answer(t, 1)

		_, err := service.Complete(ctx, manager.ID, "community-center")
		var incomplete *IncompleteError
		if !errors.As(err, &incomplete) {
			t.Fatalf("expected IncompleteError, got %v", err)
		}
		if incomplete.Answered != 2 || incomplete.Total != 3 {
			t.Errorf("expected 2/3 in error, got %d/%d", incomplete.Answered, incomplete.Total)
		}
		if incomplete.Percentage != 67 {
			t.Errorf("expected rounded 67%%, got %d", incomplete.Percentage)
		}
	})

	t.Run("succeeds when every question is answered", func(t *testing.T) {
		answer(t, 2)

		result, err := service.Complete(ctx, manager.ID, "community-center")
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if result.Percentage != 100 {
			t.Errorf("expected 100%%, got %d", result.Percentage)
		}
		if result.Year != time.Now().Year() {
			t.Errorf("expected current year, got %d", result.Year)
		}

		stored, err := env.repo.Completion().Get(ctx, nil, manager.ID, questionnaire.ID, result.Year)
		if err != nil {
			t.Fatalf("failed to load completion: %v", err)
		}
		if !stored.IsCompleted || stored.CompletedAt == nil {
			t.Errorf("expected stored completion stamp, got %+v", stored)
		}

		var sawCompleted bool
		for _, ev := range env.publisher.GetPublishedEvents() {
			if ev.Type == events.EventQuestionnaireCompleted {
				sawCompleted = true
			}
		}
		if !sawCompleted {
			t.Error("expected questionnaire.completed event")
		}
	})

	t.Run("completing again is idempotent and refreshes the stamp", func(t *testing.T) {
		first, err := env.repo.Completion().Get(ctx, nil, manager.ID, questionnaire.ID, time.Now().Year())
		if err != nil {
			t.Fatalf("failed to load completion: %v", err)
		}

		time.Sleep(10 * time.Millisecond)

		result, err := service.Complete(ctx, manager.ID, "community-center")
		if err != nil {
			t.Fatalf("second Complete failed: %v", err)
		}

		second, err := env.repo.Completion().Get(ctx, nil, manager.ID, questionnaire.ID, result.Year)
		if err != nil {
			t.Fatalf("failed to reload completion: %v", err)
		}
		if !second.CompletedAt.After(*first.CompletedAt) {
			t.Errorf("expected refreshed completion stamp: first=%v second=%v", first.CompletedAt, second.CompletedAt)
		}
	})

	t.Run("editing an answer after completion keeps the completion stamp", func(t *testing.T) {
		result, err := service.SaveAnswer(ctx, manager.ID, "community-center", &SaveAnswerRequest{
			QuestionID:  questionnaire.Questions[0].ID,
			AnswerValue: strPtr("1"),
		})
		if err != nil {
			t.Fatalf("SaveAnswer failed: %v", err)
		}
		if result.Progress.Percentage != 100 {
			t.Errorf("expected 100%% after edit, got %d", result.Progress.Percentage)
		}

		stored, err := env.repo.Completion().Get(ctx, nil, manager.ID, questionnaire.ID, time.Now().Year())
		if err != nil {
			t.Fatalf("failed to load completion: %v", err)
		}
		if !stored.IsCompleted || stored.CompletedAt == nil {
			t.Error("completion stamp should survive answer edits")
		}
	})

	t.Run("empty questionnaire cannot be completed", func(t *testing.T) {
		seedQuestionnaire(t, env, "empty-form", 0)

		_, err := service.Complete(ctx, manager.ID, "empty-form")
		var incomplete *IncompleteError
		if !errors.As(err, &incomplete) {
			t.Fatalf("expected IncompleteError, got %v", err)
		}
		if incomplete.Total != 0 || incomplete.Percentage != 0 {
			t.Errorf("expected 0 total and 0%%, got total=%d pct=%d", incomplete.Total, incomplete.Percentage)
		}
	})
}

func TestResponseService_GetAnswers(t *testing.T) {
	env := newTestEnv(t)
	service := env.responseService()
	manager := seedUser(t, env, "manager@example.com", "password123", models.RoleManager)
	questionnaire := seedQuestionnaire(t, env, "community-center", 2)
	ctx := context.Background()

	if _, err := service.SaveAnswer(ctx, manager.ID, "community-center", &SaveAnswerRequest{
		QuestionID:  questionnaire.Questions[0].ID,
		AnswerValue: strPtr("3"),
	}); err != nil {
		t.Fatalf("SaveAnswer failed: %v", err)
	}

	resp, err := service.GetAnswers(ctx, manager.ID, "community-center")
	if err != nil {
		t.Fatalf("GetAnswers failed: %v", err)
	}
	if len(resp.Answers) != 1 {
		t.Errorf("expected 1 answer, got %d", len(resp.Answers))
	}
	if resp.Progress.Answered != 1 || resp.Progress.Total != 2 || resp.Progress.Percentage != 50 {
		t.Errorf("unexpected progress: %+v", resp.Progress)
	}

	t.Run("other users see no answers", func(t *testing.T) {
		other := seedUser(t, env, "other@example.com", "password123", models.RoleManager)
		resp, err := service.GetAnswers(ctx, other.ID, "community-center")
		if err != nil {
			t.Fatalf("GetAnswers failed: %v", err)
		}
		if len(resp.Answers) != 0 {
			t.Errorf("expected no answers for other user, got %d", len(resp.Answers))
		}
	})
}

func TestProgressPercentage(t *testing.T) {
	cases := []struct {
		answered, total int64
		want            int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{10, 10, 100},
	}
	for _, tc := range cases {
		if got := progressPercentage(tc.answered, tc.total); got != tc.want {
			t.Errorf("progressPercentage(%d, %d) = %d, want %d", tc.answered, tc.total, got, tc.want)
		}
	}
}
