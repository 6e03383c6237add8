package dto

import "time"

type RoleResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	QuestionCount int    `json:"question_count"`
}

type TeamResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type AttemptResponse struct {
	ID                    uint       `json:"id"`
	ProfileID             uint       `json:"profile_id"`
	RoleID                uint       `json:"role_id"`
	Status                string     `json:"status"`
	TotalQuestions        int        `json:"total_questions"`
	AnsweredCount         int        `json:"answered_count"`
	ProgressPercent       float64    `json:"progress_percent"`
	StartedAt             time.Time  `json:"started_at"`
	LastActivityAt        time.Time  `json:"last_activity_at"`
	SubmittedAt           *time.Time `json:"submitted_at,omitempty"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
	DurationSeconds       *int       `json:"duration_seconds,omitempty"`
	AvgSecondsPerQuestion *float64   `json:"avg_seconds_per_question,omitempty"`
	ViolationCount        int        `json:"violation_count"`
	AIStatus              string     `json:"ai_status"`
	AIError               *string    `json:"ai_error,omitempty"`
	ModelName             *string    `json:"model_name,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

type SkillScoreResponse struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type ResultResponse struct {
	ID                     uint                 `json:"id"`
	AttemptID              uint                 `json:"attempt_id"`
	SkillScores            []SkillScoreResponse `json:"skill_scores"`
	Strengths              []string             `json:"strengths"`
	DevelopmentAreas       []string             `json:"development_areas"`
	DevelopmentSuggestions []string             `json:"development_suggestions"`
	RecommendedRoles       []string             `json:"recommended_roles"`
	Summary                *string              `json:"summary,omitempty"`
	TeamID                 *uint                `json:"team_id,omitempty"`
	TeamName               *string              `json:"team_name,omitempty"`
	TeamNames              []string             `json:"team_names"`
	HRStatus               string               `json:"hr_status"`
	CreatedAt              time.Time            `json:"created_at"`
}

type RecordAnswerResponse struct {
	AnswerID        uint    `json:"answer_id"`
	AnsweredCount   int     `json:"answered_count"`
	ProgressPercent float64 `json:"progress_percent"`
}

type AnalyzeResponse struct {
	Attempt AttemptResponse `json:"attempt"`
	Result  ResultResponse  `json:"result"`
}

// Routes the state resolver can steer a client to.
const (
	RouteResult        = "result"
	RouteAssessment    = "assessment"
	RouteRoleSelection = "role-selection"
)

type AssessmentStateResponse struct {
	Route   string           `json:"route"`
	Role    *RoleResponse    `json:"role,omitempty"`
	Result  *ResultResponse  `json:"result,omitempty"`
	Attempt *AttemptResponse `json:"attempt,omitempty"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
