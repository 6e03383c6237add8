package model

import (
	"time"

	"gorm.io/gorm"
)

// CandidateProfile maps an externally authenticated candidate to the internal
// identity rows reference. AuthID is the subject from the auth provider.
type CandidateProfile struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	AuthID   string  `json:"auth_id" gorm:"not null;uniqueIndex"`
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
