package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Response is a single saved answer. One row per (user, questionnaire,
// question); repeated saves overwrite in place via upsert.
type Response struct {
	ID              string  `json:"id" gorm:"primaryKey;size:36"`
	UserID          string  `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_responses_user_question"`
	QuestionnaireID string  `json:"questionnaire_id" gorm:"not null;size:36;uniqueIndex:idx_responses_user_question;index"`
	QuestionID      string  `json:"question_id" gorm:"not null;size:36;uniqueIndex:idx_responses_user_question"`
	AnswerValue     *string `json:"answer_value,omitempty" gorm:"size:500"`
	AnswerText      *string `json:"answer_text,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Response) TableName() string {
	return "responses"
}

func (r *Response) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// QuestionnaireCompletion tracks a user's progress through a questionnaire
// for a given year. Progress is a rounded percentage of answered questions;
// IsCompleted and CompletedAt are stamped when the questionnaire is
// explicitly completed at 100 percent and survive later answer edits.
type QuestionnaireCompletion struct {
	ID                 string     `json:"id" gorm:"primaryKey;size:36"`
	UserID             string     `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_completions_user_year"`
	QuestionnaireID    string     `json:"questionnaire_id" gorm:"not null;size:36;uniqueIndex:idx_completions_user_year;index"`
	Year               int        `json:"year" gorm:"not null;uniqueIndex:idx_completions_user_year"`
	ProgressPercentage int        `json:"progress_percentage" gorm:"not null;default:0"`
	IsCompleted        bool       `json:"is_completed" gorm:"not null;default:false;index"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`

	User          *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Questionnaire *Questionnaire `json:"questionnaire,omitempty" gorm:"foreignKey:QuestionnaireID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (QuestionnaireCompletion) TableName() string {
	return "questionnaire_completions"
}

func (c *QuestionnaireCompletion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
