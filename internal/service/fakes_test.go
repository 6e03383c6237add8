package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtnguyen2107/talentpulse/config"
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"github.com/google/generative-ai-go/genai"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Gemini.Model = "gemini-1.5-flash"
	cfg.Gemini.MaxPromptChars = 12000
	return cfg
}

func longGenerationError() error {
	return fmt.Errorf("%w: status 500: %s", model.ErrModelUnavailable, strings.Repeat("upstream stack frame; ", 60))
}

// In-memory repository fakes. Each embeds call counters where a test needs to
// assert on query behavior, and returns gorm.ErrRecordNotFound the way the
// real repositories do.

type fakeProfileRepo struct {
	profiles map[string]*model.CandidateProfile
	calls    int
}

func (f *fakeProfileRepo) FindByAuthID(authID string) (*model.CandidateProfile, error) {
	f.calls++
	if p, ok := f.profiles[authID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRoleRepo struct {
	roles map[uint]*model.Role
}

func (f *fakeRoleRepo) FindByID(id uint) (*model.Role, error) {
	if r, ok := f.roles[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRoleRepo) FindAll() ([]model.Role, error) {
	out := make([]model.Role, 0, len(f.roles))
	for _, r := range f.roles {
		out = append(out, *r)
	}
	return out, nil
}

type fakeTeamRepo struct {
	teams []model.Team
	calls int
}

func (f *fakeTeamRepo) FindAll() ([]model.Team, error) {
	f.calls++
	return f.teams, nil
}

type fakeAttemptRepo struct {
	attempts map[uint]*model.AssessmentAttempt
	nextID   uint

	updated       []uint
	processing    []uint
	failed        map[uint]string
	latestOpen    *model.AssessmentAttempt
	openCalls     int
	processingErr error
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{
		attempts: map[uint]*model.AssessmentAttempt{},
		nextID:   1,
		failed:   map[uint]string{},
	}
}

func (f *fakeAttemptRepo) add(attempt *model.AssessmentAttempt) *model.AssessmentAttempt {
	if attempt.ID == 0 {
		attempt.ID = f.nextID
		f.nextID++
	} else if attempt.ID >= f.nextID {
		f.nextID = attempt.ID + 1
	}
	f.attempts[attempt.ID] = attempt
	return attempt
}

func (f *fakeAttemptRepo) Create(attempt *model.AssessmentAttempt) error {
	f.add(attempt)
	return nil
}

func (f *fakeAttemptRepo) Update(attempt *model.AssessmentAttempt) error {
	f.attempts[attempt.ID] = attempt
	f.updated = append(f.updated, attempt.ID)
	return nil
}

func (f *fakeAttemptRepo) FindByID(id uint) (*model.AssessmentAttempt, error) {
	if a, ok := f.attempts[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttemptRepo) FindByIDWithRole(id uint) (*model.AssessmentAttempt, error) {
	return f.FindByID(id)
}

func (f *fakeAttemptRepo) FindActiveByProfileAndRole(profileID, roleID uint) (*model.AssessmentAttempt, error) {
	var newest *model.AssessmentAttempt
	for _, a := range f.attempts {
		if a.ProfileID != profileID || a.RoleID != roleID || a.Status == model.AttemptCompleted {
			continue
		}
		if newest == nil || a.ID > newest.ID {
			newest = a
		}
	}
	if newest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return newest, nil
}

func (f *fakeAttemptRepo) FindLatestOpenByProfile(profileID uint) (*model.AssessmentAttempt, error) {
	f.openCalls++
	if f.latestOpen != nil && f.latestOpen.ProfileID == profileID {
		return f.latestOpen, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttemptRepo) MarkAIProcessing(attemptID uint) error {
	if f.processingErr != nil {
		return f.processingErr
	}
	a, ok := f.attempts[attemptID]
	if !ok || a.Status != model.AttemptAwaitingAI {
		return fmt.Errorf("%w: attempt %d is not awaiting analysis", model.ErrConflict, attemptID)
	}
	a.AIStatus = model.AIStatusProcessing
	a.AIError = nil
	f.processing = append(f.processing, attemptID)
	return nil
}

func (f *fakeAttemptRepo) MarkAIFailed(attemptID uint, errMsg string) error {
	if a, ok := f.attempts[attemptID]; ok {
		a.AIStatus = model.AIStatusFailed
		msg := errMsg
		a.AIError = &msg
	}
	f.failed[attemptID] = errMsg
	return nil
}

type fakeAnswerRepo struct {
	answers map[uint]*model.Answer
	nextID  uint
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{answers: map[uint]*model.Answer{}, nextID: 1}
}

func (f *fakeAnswerRepo) Upsert(answer *model.Answer) error {
	if answer.ID == 0 {
		answer.ID = f.nextID
		f.nextID++
	}
	cp := *answer
	f.answers[answer.ID] = &cp
	return nil
}

func (f *fakeAnswerRepo) FindByAttemptAndQuestion(attemptID, questionID uint) (*model.Answer, error) {
	for _, a := range f.answers {
		if a.AttemptID == attemptID && a.QuestionID == questionID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAnswerRepo) FindAllByAttempt(attemptID uint) ([]model.Answer, error) {
	var out []model.Answer
	for _, a := range f.answers {
		if a.AttemptID == attemptID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAnswerRepo) CountByAttempt(attemptID uint) (int64, error) {
	var count int64
	for _, a := range f.answers {
		if a.AttemptID == attemptID {
			count++
		}
	}
	return count, nil
}

type fakeResultRepo struct {
	results       []*model.AssessmentResult
	latest        *model.AssessmentResult
	latestCalls   int
	createErr     error
	completedWith *model.AssessmentAttempt
}

func (f *fakeResultRepo) CreateWithAttemptCompletion(result *model.AssessmentResult, attempt *model.AssessmentAttempt) error {
	if f.createErr != nil {
		return f.createErr
	}
	result.ID = uint(len(f.results) + 1)
	f.results = append(f.results, result)
	f.completedWith = attempt
	return nil
}

func (f *fakeResultRepo) FindLatestCompletedByProfile(profileID uint) (*model.AssessmentResult, error) {
	f.latestCalls++
	if f.latest != nil && f.latest.ProfileID == profileID {
		return f.latest, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResultRepo) ExistsForAttempt(attemptID uint) (bool, error) {
	for _, r := range f.results {
		if r.AttemptID == attemptID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResultRepo) ExistsForProfile(profileID uint) (bool, error) {
	if f.latest != nil && f.latest.ProfileID == profileID {
		return true, nil
	}
	for _, r := range f.results {
		if r.ProfileID == profileID {
			return true, nil
		}
	}
	return false, nil
}

// fakeGemini returns a canned response or error and records every prompt.
type fakeGemini struct {
	resp    *genai.GenerateContentResponse
	err     error
	prompts []string
}

func (f *fakeGemini) GenerateAnalysis(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeGemini) ModelName() string {
	return "gemini-1.5-flash"
}

// textResponse builds the minimal genai response shape the parser accepts.
func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(text)}}},
		},
	}
}
