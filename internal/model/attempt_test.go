package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    AttemptStatus
		event   AttemptEvent
		want    AttemptStatus
		wantErr bool
	}{
		{name: "start from not_started", from: AttemptNotStarted, event: EventStart, want: AttemptInProgress},
		{name: "start is idempotent while in progress", from: AttemptInProgress, event: EventStart, want: AttemptInProgress},
		{name: "submit from in_progress", from: AttemptInProgress, event: EventSubmit, want: AttemptAwaitingAI},
		{name: "complete from awaiting_ai", from: AttemptAwaitingAI, event: EventComplete, want: AttemptCompleted},
		{name: "submit before start", from: AttemptNotStarted, event: EventSubmit, wantErr: true},
		{name: "complete before submit", from: AttemptInProgress, event: EventComplete, wantErr: true},
		{name: "double submit", from: AttemptAwaitingAI, event: EventSubmit, wantErr: true},
		{name: "completed is terminal for start", from: AttemptCompleted, event: EventStart, wantErr: true},
		{name: "completed is terminal for submit", from: AttemptCompleted, event: EventSubmit, wantErr: true},
		{name: "completed is terminal for complete", from: AttemptCompleted, event: EventComplete, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt := &AssessmentAttempt{Status: tt.from}
			err := attempt.Transition(tt.event)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, attempt.Status, "status must not change on a rejected event")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, attempt.Status)
		})
	}
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0.0, (&AssessmentAttempt{TotalQuestions: 0, AnsweredCount: 3}).ProgressPercent())
	assert.Equal(t, 50.0, (&AssessmentAttempt{TotalQuestions: 10, AnsweredCount: 5}).ProgressPercent())
	assert.Equal(t, 100.0, (&AssessmentAttempt{TotalQuestions: 4, AnsweredCount: 6}).ProgressPercent(), "over-answering caps at 100")
}
