package model

import (
	"time"

	"gorm.io/gorm"
)

// HRStatus is the reviewer outcome gating downstream candidate progression.
// It is mutated by the HR review workflow, not by this service.
type HRStatus string

const (
	HRStatusPending  HRStatus = "pending"
	HRStatusApproved HRStatus = "approved"
	HRStatusRejected HRStatus = "rejected"
)

// SkillScore is one normalized skill rating inside a result.
// Score is clamped to [0,100] and rounded to 2 decimals before storage.
type SkillScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// AssessmentResult is the finalized AI-derived evaluation of a completed
// attempt. The unique index on AttemptID guarantees at most one result per
// attempt; a second analysis run for the same attempt is rejected by the
// constraint rather than silently duplicated.
type AssessmentResult struct {
	ID        uint `gorm:"primarykey" json:"id"`
	AttemptID uint `json:"attempt_id" gorm:"not null;uniqueIndex"`
	ProfileID uint `json:"profile_id" gorm:"not null;index"`
	RoleID    uint `json:"role_id" gorm:"not null"`
	Role      Role `json:"role,omitempty" gorm:"foreignKey:RoleID"`

	SkillScores            []SkillScore `json:"skill_scores" gorm:"type:jsonb;serializer:json"`
	Strengths              []string     `json:"strengths" gorm:"type:jsonb;serializer:json"`
	DevelopmentAreas       []string     `json:"development_areas" gorm:"type:jsonb;serializer:json"`
	DevelopmentSuggestions []string     `json:"development_suggestions" gorm:"type:jsonb;serializer:json"`
	RecommendedRoles       []string     `json:"recommended_roles" gorm:"type:jsonb;serializer:json"`

	Summary *string `json:"summary,omitempty" gorm:"type:text"`

	TeamID    *uint    `json:"team_id,omitempty"`
	Team      *Team    `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	TeamNames []string `json:"team_names" gorm:"type:jsonb;serializer:json"`

	// HRReviewStatus is the explicit review outcome; Approved is the legacy
	// proxy column older rows carry instead.
	HRReviewStatus *string `json:"hr_review_status,omitempty" gorm:"type:varchar(20)"`
	Approved       *bool   `json:"approved,omitempty"`

	// RawAnalysis keeps the legacy summary blob older writers produced; the
	// state resolver merges its lists with the structured columns.
	RawAnalysis map[string]any `json:"raw_analysis,omitempty" gorm:"type:jsonb;serializer:json"`

	ModelName *string `json:"model_name,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HRStatusResolved derives the tri-state review outcome: the explicit review
// column wins, the legacy boolean proxy is next, pending is the default.
func (r *AssessmentResult) HRStatusResolved() HRStatus {
	if r.HRReviewStatus != nil {
		switch HRStatus(*r.HRReviewStatus) {
		case HRStatusApproved:
			return HRStatusApproved
		case HRStatusRejected:
			return HRStatusRejected
		case HRStatusPending:
			return HRStatusPending
		}
	}
	if r.Approved != nil {
		if *r.Approved {
			return HRStatusApproved
		}
		return HRStatusRejected
	}
	return HRStatusPending
}
