package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dtnguyen2107/talentpulse/internal/dto"
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalysisFixture(gemini *fakeGemini) (AnalysisService, *fakeAttemptRepo, *fakeResultRepo, *fakeTeamRepo) {
	attemptRepo := newFakeAttemptRepo()
	resultRepo := &fakeResultRepo{}
	profileRepo := &fakeProfileRepo{profiles: map[string]*model.CandidateProfile{
		"auth-123": {ID: 10, AuthID: "auth-123"},
	}}
	teamRepo := &fakeTeamRepo{teams: []model.Team{
		{ID: 1, Name: "Platform"},
		{ID: 2, Name: "Payments"},
	}}
	cfg := testConfig()
	svc := NewAnalysisService(attemptRepo, resultRepo, profileRepo, teamRepo, gemini, NewPromptBuilder(cfg))
	return svc, attemptRepo, resultRepo, teamRepo
}

func submittedAttempt(repo *fakeAttemptRepo) *model.AssessmentAttempt {
	now := time.Now()
	submitted := now.Add(-time.Minute)
	return repo.add(&model.AssessmentAttempt{
		ProfileID:      10,
		RoleID:         3,
		Role:           model.Role{ID: 3, Name: "Backend Engineer"},
		Status:         model.AttemptAwaitingAI,
		AIStatus:       model.AIStatusProcessing,
		TotalQuestions: 2,
		StartedAt:      now.Add(-11 * time.Minute),
		SubmittedAt:    &submitted,
		LastActivityAt: submitted,
	})
}

func analyzeRequest() dto.AnalyzeRequest {
	qid1, qid2 := uint(1), uint(2)
	return dto.AnalyzeRequest{
		CandidateID: "auth-123",
		RoleID:      3,
		Language:    "en",
		Answers: []dto.AnswerPayload{
			{QuestionID: &qid1, AnswerText: "I would shard by tenant."},
			{QuestionID: &qid2, AnswerText: "Use context cancellation."},
		},
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	gemini := &fakeGemini{resp: textResponse(validAnalysisJSON)}
	svc, attemptRepo, resultRepo, _ := newAnalysisFixture(gemini)
	attempt := submittedAttempt(attemptRepo)

	resp, err := svc.Analyze(context.Background(), attempt.ID, analyzeRequest())
	require.NoError(t, err)

	assert.Equal(t, string(model.AttemptCompleted), resp.Attempt.Status)
	assert.Equal(t, string(model.AIStatusCompleted), resp.Attempt.AIStatus)
	assert.NotNil(t, resp.Attempt.CompletedAt)
	assert.Nil(t, resp.Attempt.AIError)

	assert.Len(t, resp.Result.SkillScores, 2)
	assert.Equal(t, attempt.ID, resp.Result.AttemptID)
	require.NotNil(t, resp.Result.Summary)
	assert.Equal(t, "Solid backend fundamentals.", *resp.Result.Summary)
	assert.Equal(t, string(model.HRStatusPending), resp.Result.HRStatus)

	// team_fit "Platform" maps to the canonical team
	require.NotNil(t, resp.Result.TeamID)
	assert.Equal(t, uint(1), *resp.Result.TeamID)

	require.Len(t, resultRepo.results, 1)
	require.NotNil(t, resultRepo.completedWith)
	assert.Equal(t, model.AttemptCompleted, resultRepo.completedWith.Status)
	assert.Len(t, gemini.prompts, 1, "exactly one model call")
}

func TestAnalyzeEmptyAnswersSkipsModel(t *testing.T) {
	gemini := &fakeGemini{resp: textResponse(validAnalysisJSON)}
	svc, attemptRepo, resultRepo, teamRepo := newAnalysisFixture(gemini)
	attempt := submittedAttempt(attemptRepo)

	req := analyzeRequest()
	req.Answers = []dto.AnswerPayload{{AnswerText: "   "}, {AnswerText: ""}}

	resp, err := svc.Analyze(context.Background(), attempt.ID, req)
	require.NoError(t, err)

	assert.Empty(t, gemini.prompts, "blank answers must not reach the model")
	assert.Zero(t, teamRepo.calls, "team lookup is skipped with the model call")
	assert.Equal(t, string(model.AttemptCompleted), resp.Attempt.Status)
	assert.Empty(t, resp.Result.SkillScores)
	assert.Nil(t, resp.Result.Summary)
	assert.Len(t, resultRepo.results, 1, "an empty result is still persisted")
}

func TestAnalyzeUnknownAttempt(t *testing.T) {
	svc, _, _, _ := newAnalysisFixture(&fakeGemini{})
	_, err := svc.Analyze(context.Background(), 404, analyzeRequest())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAnalyzeUnknownCandidate(t *testing.T) {
	svc, attemptRepo, _, _ := newAnalysisFixture(&fakeGemini{})
	attempt := submittedAttempt(attemptRepo)

	req := analyzeRequest()
	req.CandidateID = "nobody"
	_, err := svc.Analyze(context.Background(), attempt.ID, req)
	assert.ErrorIs(t, err, model.ErrProfileNotFound)
}

func TestAnalyzeRejectsUnsubmittedAttempt(t *testing.T) {
	gemini := &fakeGemini{resp: textResponse(validAnalysisJSON)}
	svc, attemptRepo, _, _ := newAnalysisFixture(gemini)
	attempt := attemptRepo.add(&model.AssessmentAttempt{
		ProfileID: 10, RoleID: 3, Status: model.AttemptInProgress, TotalQuestions: 2,
	})

	_, err := svc.Analyze(context.Background(), attempt.ID, analyzeRequest())
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.Empty(t, gemini.prompts)
}

func TestAnalyzeRejectsDuplicateResult(t *testing.T) {
	gemini := &fakeGemini{resp: textResponse(validAnalysisJSON)}
	svc, attemptRepo, resultRepo, _ := newAnalysisFixture(gemini)
	attempt := submittedAttempt(attemptRepo)
	resultRepo.results = append(resultRepo.results, &model.AssessmentResult{ID: 9, AttemptID: attempt.ID, ProfileID: 10})

	_, err := svc.Analyze(context.Background(), attempt.ID, analyzeRequest())
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.Empty(t, gemini.prompts)
}

func TestAnalyzeModelFailureMarksAttempt(t *testing.T) {
	gemini := &fakeGemini{resp: textResponse("absolutely not json")}
	svc, attemptRepo, resultRepo, _ := newAnalysisFixture(gemini)
	attempt := submittedAttempt(attemptRepo)

	_, err := svc.Analyze(context.Background(), attempt.ID, analyzeRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrModelMalformed, "the original error is re-raised")

	stored := attemptRepo.attempts[attempt.ID]
	assert.Equal(t, model.AIStatusFailed, stored.AIStatus)
	assert.Equal(t, model.AttemptAwaitingAI, stored.Status, "primary status survives an analysis failure")
	require.NotNil(t, stored.AIError)
	assert.Contains(t, *stored.AIError, string(model.ParseInvalidJSON))
	assert.Empty(t, resultRepo.results)
}

func TestAnalyzeFailureMessageIsBounded(t *testing.T) {
	gemini := &fakeGemini{err: longGenerationError()}
	svc, attemptRepo, _, _ := newAnalysisFixture(gemini)
	attempt := submittedAttempt(attemptRepo)

	_, err := svc.Analyze(context.Background(), attempt.ID, analyzeRequest())
	require.Error(t, err)

	stored := attemptRepo.attempts[attempt.ID]
	require.NotNil(t, stored.AIError)
	assert.LessOrEqual(t, len([]rune(*stored.AIError)), 500)
	assert.True(t, strings.HasSuffix(*stored.AIError, "..."))
}

func TestAnalyzeRetryAfterFailure(t *testing.T) {
	gemini := &fakeGemini{resp: textResponse("broken")}
	svc, attemptRepo, resultRepo, _ := newAnalysisFixture(gemini)
	attempt := submittedAttempt(attemptRepo)

	_, err := svc.Analyze(context.Background(), attempt.ID, analyzeRequest())
	require.Error(t, err)
	assert.Equal(t, model.AIStatusFailed, attemptRepo.attempts[attempt.ID].AIStatus)

	// the attempt is still awaiting_ai, so a second call re-arms and succeeds
	gemini.resp = textResponse(validAnalysisJSON)
	resp, err := svc.Analyze(context.Background(), attempt.ID, analyzeRequest())
	require.NoError(t, err)
	assert.Equal(t, string(model.AttemptCompleted), resp.Attempt.Status)
	assert.Nil(t, resp.Attempt.AIError)
	assert.Len(t, resultRepo.results, 1)
}

func TestAnalyzeNoTeamMatch(t *testing.T) {
	payload := `{"skill_scores": [{"name": "Go", "score": 60}], "team_fit": ["Moonshots"], "summary": "ok"}`
	gemini := &fakeGemini{resp: textResponse(payload)}
	svc, attemptRepo, _, _ := newAnalysisFixture(gemini)
	attempt := submittedAttempt(attemptRepo)

	resp, err := svc.Analyze(context.Background(), attempt.ID, analyzeRequest())
	require.NoError(t, err)
	assert.Nil(t, resp.Result.TeamID, "unmatched recommendations carry no team id")
	assert.Equal(t, []string{"Moonshots"}, resp.Result.TeamNames, "raw names are kept for display")
}
