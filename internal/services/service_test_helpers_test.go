package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/matnas-digital/questionnaire-service/internal/auth"
	"github.com/matnas-digital/questionnaire-service/internal/events"
	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
	"github.com/matnas-digital/questionnaire-service/internal/repositories/postgres"
	"github.com/matnas-digital/questionnaire-service/internal/validator"
	"github.com/matnas-digital/questionnaire-service/pkg"
)

type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
	publisher *events.MockEventPublisher
	events    NotificationEventService
}

// newTestEnv builds a full repository stack backed by an in-memory SQLite
// database. Each test gets its own named database so parallel tests do not
// share state.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := pkg.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	v := validator.New()
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	tokens := auth.NewTokenManager("test-signing-secret", time.Hour)
	publisher := events.NewMockEventPublisher(logger)
	eventService := NewNotificationEventService(repo, publisher, logger, v, "test.events")

	return &testEnv{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: v,
		tokens:    tokens,
		publisher: publisher,
		events:    eventService,
	}
}

func (env *testEnv) invitationService() InvitationService {
	return NewInvitationService(env.repo, env.db, env.logger, env.validator, env.tokens, env.events, InvitationConfig{
		DefaultTTL:          30 * 24 * time.Hour,
		RegistrationBaseURL: "http://localhost:3000",
	})
}

func (env *testEnv) authService() AuthService {
	return NewAuthService(env.repo, env.db, env.logger, env.validator, env.tokens)
}

func (env *testEnv) responseService() ResponseService {
	return NewResponseService(env.repo, env.db, env.logger, env.validator, env.events)
}

func (env *testEnv) catalogService() CatalogService {
	return NewCatalogService(env.repo, env.db, env.logger)
}

func (env *testEnv) dashboardService() DashboardService {
	return NewDashboardService(env.repo, env.db, env.logger, env.catalogService())
}

func seedUser(t *testing.T, env *testEnv, email, password string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:            email,
		PasswordHash:     hash,
		FullName:         "Test User",
		Role:             role,
		OrganizationName: "Test Org",
		IsVerified:       true,
	}
	if err := env.repo.User().Create(context.Background(), nil, user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedQuestionnaire(t *testing.T, env *testEnv, category string, questionCount int) *models.Questionnaire {
	t.Helper()

	questionnaire := &models.Questionnaire{
		Title:    "Seeded Questionnaire",
		Category: category,
		Year:     time.Now().Year(),
		IsActive: true,
	}
	if err := env.db.Create(questionnaire).Error; err != nil {
		t.Fatalf("failed to seed questionnaire: %v", err)
	}

	for i := 1; i <= questionCount; i++ {
		question := &models.Question{
			QuestionnaireID: questionnaire.ID,
			QuestionNumber:  i,
			QuestionText:    fmt.Sprintf("Question %d", i),
			QuestionType:    models.QuestionText,
			IsRequired:      true,
		}
		if err := env.db.Create(question).Error; err != nil {
			t.Fatalf("failed to seed question %d: %v", i, err)
		}
		questionnaire.Questions = append(questionnaire.Questions, *question)
	}

	return questionnaire
}

func strPtr(s string) *string {
	return &s
}
