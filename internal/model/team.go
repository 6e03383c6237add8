package model

import (
	"time"

	"gorm.io/gorm"
)

// Team is a canonical organizational team record. The analysis maps the
// model's free-text team-fit recommendation onto the first matching row.
type Team struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `json:"name" gorm:"not null;uniqueIndex"`
	Description string `json:"description,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
