package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// AttemptStatus is the primary lifecycle state of an assessment attempt.
type AttemptStatus string

const (
	AttemptNotStarted AttemptStatus = "not_started"
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptAwaitingAI AttemptStatus = "awaiting_ai"
	AttemptCompleted  AttemptStatus = "completed"
)

// AIStatus tracks the analysis pipeline separately from the attempt status.
// "failed" lives here only; the attempt itself stays awaiting_ai so the
// analysis can be retried by the caller.
type AIStatus string

const (
	AIStatusIdle       AIStatus = "idle"
	AIStatusProcessing AIStatus = "processing"
	AIStatusCompleted  AIStatus = "completed"
	AIStatusFailed     AIStatus = "failed"
)

// AttemptEvent drives attempt status transitions.
type AttemptEvent string

const (
	EventStart    AttemptEvent = "start"
	EventSubmit   AttemptEvent = "submit"
	EventComplete AttemptEvent = "complete"
)

// attemptTransitions is the allowed transition table. Anything not listed is
// rejected instead of blindly overwriting the status column.
var attemptTransitions = map[AttemptStatus]map[AttemptEvent]AttemptStatus{
	AttemptNotStarted: {
		EventStart: AttemptInProgress,
	},
	AttemptInProgress: {
		EventStart:  AttemptInProgress,
		EventSubmit: AttemptAwaitingAI,
	},
	AttemptAwaitingAI: {
		EventComplete: AttemptCompleted,
	},
}

// ViolationEvent is one entry of the anti-cheating event log (tab switches,
// focus loss, etc.) recorded by the client during an attempt.
type ViolationEvent struct {
	Type       string         `json:"type"`
	QuestionID *uint          `json:"question_id,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// AssessmentAttempt is one candidate's run through one role assessment.
type AssessmentAttempt struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	ProfileID uint             `json:"profile_id" gorm:"not null;index:idx_attempts_profile_role"`
	Profile   CandidateProfile `json:"profile,omitempty" gorm:"foreignKey:ProfileID"`
	RoleID    uint             `json:"role_id" gorm:"not null;index:idx_attempts_profile_role"`
	Role      Role             `json:"role,omitempty" gorm:"foreignKey:RoleID"`

	Status AttemptStatus `json:"status" gorm:"type:varchar(20);not null;default:'in_progress'"`

	TotalQuestions int `json:"total_questions" gorm:"not null"`
	AnsweredCount  int `json:"answered_count" gorm:"not null;default:0"`

	StartedAt      time.Time  `json:"started_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	DurationSeconds       *int     `json:"duration_seconds,omitempty"`
	AvgSecondsPerQuestion *float64 `json:"avg_seconds_per_question,omitempty"`

	ViolationCount  int              `json:"violation_count" gorm:"not null;default:0"`
	ViolationEvents []ViolationEvent `json:"violation_events,omitempty" gorm:"type:jsonb;serializer:json"`

	AIStatus  AIStatus `json:"ai_status" gorm:"type:varchar(20);not null;default:'idle'"`
	AIError   *string  `json:"ai_error,omitempty" gorm:"type:varchar(500)"`
	ModelName *string  `json:"model_name,omitempty"`

	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Transition applies an event to the attempt's primary status, rejecting
// moves the table does not allow.
func (a *AssessmentAttempt) Transition(event AttemptEvent) error {
	next, ok := attemptTransitions[a.Status][event]
	if !ok {
		return fmt.Errorf("%w: %s cannot accept event %q", ErrInvalidTransition, a.Status, event)
	}
	a.Status = next
	return nil
}

// ProgressPercent derives the answered ratio for display; the answered count
// is the source of truth, the percent is never stored.
func (a *AssessmentAttempt) ProgressPercent() float64 {
	if a.TotalQuestions <= 0 {
		return 0
	}
	p := float64(a.AnsweredCount) / float64(a.TotalQuestions) * 100
	if p > 100 {
		p = 100
	}
	return p
}
