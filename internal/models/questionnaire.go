package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionRadio         QuestionType = "radio"
	QuestionText          QuestionType = "text"
	QuestionRadioWithText QuestionType = "radio_with_text"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionRadio, QuestionText, QuestionRadioWithText:
		return true
	}
	return false
}

// Questionnaire is a published form identified by its category slug.
// Only one active questionnaire per category is served to respondents.
type Questionnaire struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Title       string `json:"title" gorm:"not null;size:255"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"not null;size:100;index"`
	Year        int    `json:"year" gorm:"not null;index"`
	IsActive    bool   `json:"is_active" gorm:"not null;default:true;index"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuestionnaireID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Questionnaire) TableName() string {
	return "questionnaires"
}

func (q *Questionnaire) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// Question is a single item within a questionnaire. Options holds the radio
// choices as a JSON array and is empty for free-text questions.
type Question struct {
	ID              string         `json:"id" gorm:"primaryKey;size:36"`
	QuestionnaireID string         `json:"questionnaire_id" gorm:"not null;size:36;index"`
	QuestionNumber  int            `json:"question_number" gorm:"not null"`
	QuestionText    string         `json:"question_text" gorm:"not null;type:text"`
	QuestionType    QuestionType   `json:"question_type" gorm:"not null;size:20"`
	SectionTitle    string         `json:"section_title,omitempty" gorm:"size:255"`
	IsRequired      bool           `json:"is_required" gorm:"not null;default:true"`
	Options         datatypes.JSON `json:"options,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
