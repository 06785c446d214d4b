package services

import (
	"context"
	"time"

	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
	"github.com/matnas-digital/questionnaire-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use validator request types
type CreateInvitationRequest = validator.CreateInvitationRequest
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type SaveAnswerRequest = validator.SaveAnswerRequest

// UserInfo is the public view of a user account.
type UserInfo struct {
	ID               string          `json:"id"`
	Email            string          `json:"email"`
	FullName         string          `json:"full_name"`
	Role             models.UserRole `json:"user_type"`
	OrganizationName string          `json:"organization_name,omitempty"`
}

// AuthResult is returned after a successful login or registration.
type AuthResult struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// InvitationResponse is the API view of an invitation, including the
// registration link built from the configured base URL.
type InvitationResponse struct {
	*models.Invitation
	RegistrationLink string `json:"registration_link,omitempty"`
}

type InvitationListResponse struct {
	Invitations []*InvitationResponse `json:"invitations"`
	Total       int64                 `json:"total"`
	Page        int                   `json:"page"`
	Size        int                   `json:"size"`
}

type ListInvitationsRequest struct {
	Status *models.InvitationStatus
	Email  string
	Page   int
	Size   int
}

// ProgressInfo reports answer progress after a save.
type ProgressInfo struct {
	Answered   int64 `json:"answered"`
	Total      int64 `json:"total"`
	Percentage int   `json:"percentage"`
}

// SaveAnswerResult pairs the stored response with the recomputed progress.
type SaveAnswerResult struct {
	Response *models.Response `json:"response"`
	Progress *ProgressInfo    `json:"progress"`
}

// CompletionResult is returned by Complete.
type CompletionResult struct {
	QuestionnaireID string    `json:"questionnaire_id"`
	Year            int       `json:"year"`
	Percentage      int       `json:"percentage"`
	CompletedAt     time.Time `json:"completed_at"`
}

// AnswersResponse returns a user's saved answers for one questionnaire.
type AnswersResponse struct {
	QuestionnaireID string             `json:"questionnaire_id"`
	Answers         []*models.Response `json:"answers"`
	Progress        *ProgressInfo      `json:"progress"`
}

// QuestionnaireDetail is a questionnaire with its ordered questions.
type QuestionnaireDetail struct {
	*models.Questionnaire
	QuestionCount    int `json:"question_count"`
	EstimatedMinutes int `json:"estimated_minutes"`
}

// QuestionWithAnswer pairs one question with the caller's saved answer,
// nil when the question has not been touched.
type QuestionWithAnswer struct {
	*models.Question
	ExistingAnswer *models.Response `json:"existing_answer"`
}

// QuestionnaireUserView is the filling view of a questionnaire: ordered
// questions merged with the caller's answers plus current progress.
type QuestionnaireUserView struct {
	ID               string                `json:"id"`
	Title            string                `json:"title"`
	Description      string                `json:"description,omitempty"`
	Category         string                `json:"category"`
	Year             int                   `json:"year"`
	EstimatedMinutes int                   `json:"estimated_minutes"`
	Questions        []*QuestionWithAnswer `json:"questions"`
	Progress         *ProgressInfo         `json:"progress"`
}

type QuestionnaireProgressStatus string

const (
	ProgressNotStarted QuestionnaireProgressStatus = "not_started"
	ProgressInProgress QuestionnaireProgressStatus = "in_progress"
	ProgressCompleted  QuestionnaireProgressStatus = "completed"
)

// QuestionnaireOverview is one catalog entry annotated with the requesting
// user's progress.
type QuestionnaireOverview struct {
	ID               string                      `json:"id"`
	Title            string                      `json:"title"`
	Description      string                      `json:"description,omitempty"`
	Category         string                      `json:"category"`
	Year             int                         `json:"year"`
	QuestionCount    int64                       `json:"question_count"`
	EstimatedMinutes int                         `json:"estimated_minutes"`
	Progress         int                         `json:"progress"`
	Status           QuestionnaireProgressStatus `json:"status"`
	CompletedAt      *time.Time                  `json:"completed_at,omitempty"`
}

// ManagerDashboard is the manager landing page payload.
type ManagerDashboard struct {
	User           *UserInfo                `json:"user"`
	Questionnaires []*QuestionnaireOverview `json:"questionnaires"`
	TotalCompleted int                      `json:"total_completed"`
}

// AdminDashboard is the admin landing page payload.
type AdminDashboard struct {
	Stats             *repositories.AdminStats  `json:"stats"`
	RecentInvitations []*models.Invitation      `json:"recent_invitations"`
	RecentCompletions []*repositories.CompletedRow `json:"recent_completions"`
}

// CompletedCategoryGroup groups completed questionnaires by category.
type CompletedCategoryGroup struct {
	Category    string                      `json:"category"`
	Title       string                      `json:"title"`
	Count       int                         `json:"count"`
	Completions []*repositories.CompletedRow `json:"completions"`
}

// CompletedQuestionnairesReport is the admin report of all completions.
type CompletedQuestionnairesReport struct {
	Groups             []*CompletedCategoryGroup `json:"groups"`
	TotalCompleted     int                       `json:"total_completed"`
	CompletedThisMonth int                       `json:"completed_this_month"`
}

// QuestionnaireResponsesDetail shows one user's full set of answers for an
// admin reviewing a completed questionnaire.
type QuestionnaireResponsesDetail struct {
	User          *UserInfo                  `json:"user"`
	Questionnaire *models.Questionnaire      `json:"questionnaire"`
	Responses     []*repositories.ResponseRow `json:"responses"`
	Progress      *ProgressInfo              `json:"progress"`
}

// ===== SERVICE INTERFACES =====

// AuthService verifies credentials and issues session tokens.
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
}

// InvitationService manages the invitation lifecycle from creation to
// redemption.
type InvitationService interface {
	Create(ctx context.Context, req *CreateInvitationRequest, invitedBy string) (*InvitationResponse, error)
	Redeem(ctx context.Context, req *RegisterRequest) (*AuthResult, error)
	GetByToken(ctx context.Context, token string) (*InvitationResponse, error)
	List(ctx context.Context, req *ListInvitationsRequest) (*InvitationListResponse, error)
	Revoke(ctx context.Context, id string) error
}

// ResponseService saves answers and finalizes questionnaires.
type ResponseService interface {
	SaveAnswer(ctx context.Context, userID, category string, req *SaveAnswerRequest) (*SaveAnswerResult, error)
	Complete(ctx context.Context, userID, category string) (*CompletionResult, error)
	GetAnswers(ctx context.Context, userID, category string) (*AnswersResponse, error)
}

// CatalogService reads the questionnaire catalog.
type CatalogService interface {
	GetByCategory(ctx context.Context, category string) (*QuestionnaireDetail, error)
	GetForUser(ctx context.Context, userID, category string) (*QuestionnaireUserView, error)
	ListForUser(ctx context.Context, userID string) ([]*QuestionnaireOverview, error)
}

// DashboardService builds reporting views for both roles.
type DashboardService interface {
	AdminOverview(ctx context.Context) (*AdminDashboard, error)
	ManagerOverview(ctx context.Context, userID string) (*ManagerDashboard, error)
	CompletedQuestionnaires(ctx context.Context) (*CompletedQuestionnairesReport, error)
	QuestionnaireResponses(ctx context.Context, userID, questionnaireID string) (*QuestionnaireResponsesDetail, error)
}

// NotificationEventService publishes domain events for downstream
// consumers (mail senders, analytics).
type NotificationEventService interface {
	InvitationCreated(ctx context.Context, invitation *models.Invitation) error
	InvitationRedeemed(ctx context.Context, invitation *models.Invitation, user *models.User) error
	InvitationRevoked(ctx context.Context, invitation *models.Invitation) error
	QuestionnaireCompleted(ctx context.Context, user *models.User, completion *models.QuestionnaireCompletion) error
}

// ServiceManager wires all services together.
type ServiceManager interface {
	Auth() AuthService
	Invitation() InvitationService
	Response() ResponseService
	Catalog() CatalogService
	Dashboard() DashboardService
	NotificationEvent() NotificationEventService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
