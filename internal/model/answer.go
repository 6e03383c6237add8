package model

import (
	"time"

	"gorm.io/gorm"
)

// Answer is one candidate answer for one question within an attempt.
// Either AnswerText or SelectedOptionID is populated, never both.
// At most one row exists per (attempt, question); re-saving an answer for the
// same question updates the existing row by its id.
type Answer struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	AttemptID        uint    `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answers_attempt_question"`
	QuestionID       uint    `json:"question_id" gorm:"not null;uniqueIndex:idx_answers_attempt_question"`
	AnswerText       string  `json:"answer_text" gorm:"type:text"`
	SelectedOptionID *uint   `json:"selected_option_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
