package dto

import "time"

type StartAttemptRequest struct {
	CandidateID    string `json:"candidate_id" binding:"required"`
	RoleID         uint   `json:"role_id" binding:"required"`
	TotalQuestions int    `json:"total_questions" binding:"required,min=1"`
}

type RecordAnswerRequest struct {
	QuestionID       uint    `json:"question_id" binding:"required"`
	AnswerText       string  `json:"answer_text"`
	SelectedOptionID *uint   `json:"selected_option_id"`
	ExistingAnswerID *uint   `json:"existing_answer_id"`
}

// ViolationEventPayload mirrors the client-side anti-cheating event log.
type ViolationEventPayload struct {
	Type       string         `json:"type" binding:"required"`
	QuestionID *uint          `json:"question_id"`
	Timestamp  time.Time      `json:"timestamp"`
	Metadata   map[string]any `json:"metadata"`
}

type SubmitAttemptRequest struct {
	DurationSeconds *int                    `json:"duration_seconds"`
	ViolationCount  *int                    `json:"violation_count"`
	ViolationEvents []ViolationEventPayload `json:"violation_events"`
}

// AnswerPayload is one raw answer the client sends for analysis. Blank
// answers are filtered by the orchestrator, not rejected here.
type AnswerPayload struct {
	QuestionID *uint  `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

type AnalyzeRequest struct {
	CandidateID     string                  `json:"candidate_id" binding:"required"`
	RoleID          uint                    `json:"role_id" binding:"required"`
	Language        string                  `json:"language" binding:"omitempty,oneof=vi en"`
	Answers         []AnswerPayload         `json:"answers"`
	DurationSeconds *int                    `json:"duration_seconds"`
	ViolationCount  *int                    `json:"violation_count"`
	ViolationEvents []ViolationEventPayload `json:"violation_events"`
}
