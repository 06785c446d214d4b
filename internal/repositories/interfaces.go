package repositories

import (
	"time"

	"github.com/matnas-digital/questionnaire-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type InvitationFilters struct {
	Status *models.InvitationStatus `json:"status"`
	Email  string                   `json:"email"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type AdminStats struct {
	TotalManagers           int64 `json:"total_managers"`
	TotalQuestionnaires     int64 `json:"total_questionnaires"`
	CompletedQuestionnaires int64 `json:"completed_questionnaires"`
	CompletedThisMonth      int64 `json:"completed_this_month"`
	PendingInvitations      int64 `json:"pending_invitations"`
}

// CompletedRow is one completed questionnaire joined with the respondent
// and the questionnaire it belongs to.
type CompletedRow struct {
	CompletionID     string    `json:"completion_id"`
	UserID           string    `json:"user_id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	OrganizationName string    `json:"organization_name"`
	QuestionnaireID  string    `json:"questionnaire_id"`
	Title            string    `json:"title"`
	Category         string    `json:"category"`
	Year             int       `json:"year"`
	CompletedAt      time.Time `json:"completed_at"`
}

// ResponseRow is one answered question joined with its question metadata,
// ordered by question number.
type ResponseRow struct {
	QuestionID     string              `json:"question_id"`
	QuestionNumber int                 `json:"question_number"`
	QuestionText   string              `json:"question_text"`
	QuestionType   models.QuestionType `json:"question_type"`
	SectionTitle   string              `json:"section_title"`
	AnswerValue    *string             `json:"answer_value"`
	AnswerText     *string             `json:"answer_text"`
	AnsweredAt     time.Time           `json:"answered_at"`
}
