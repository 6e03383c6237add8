package model

import (
	"time"

	"gorm.io/gorm"
)

// Role is an assessable position candidates apply for. Each attempt and
// result belongs to exactly one role.
type Role struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	Name          string `json:"name" gorm:"not null;uniqueIndex"`
	Description   string `json:"description,omitempty"`
	QuestionCount int    `json:"question_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
