package service

import (
	"strings"
	"testing"

	"github.com/dtnguyen2107/talentpulse/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPromptBuilder(maxChars int) PromptBuilder {
	cfg := &config.Config{}
	cfg.Gemini.MaxPromptChars = maxChars
	return NewPromptBuilder(cfg)
}

func TestBuildAnalysisPromptBasics(t *testing.T) {
	b := newTestPromptBuilder(12000)
	name := "Linh Tran"
	qid := uint(7)

	prompt, stats := b.BuildAnalysisPrompt(PromptInput{
		RoleName:      "Backend Engineer",
		CandidateName: &name,
		Language:      "en",
		Answers: []AnswerInput{
			{QuestionID: &qid, AnswerText: "I would use a worker pool."},
			{AnswerText: "Indexes on the filter columns."},
		},
		TeamNames: []string{"Platform", "Payments"},
	})

	assert.False(t, stats.Truncated)
	assert.Contains(t, prompt, "Linh Tran")
	assert.Contains(t, prompt, `"Backend Engineer"`)
	assert.Contains(t, prompt, "Platform, Payments")
	assert.Contains(t, prompt, "in English")
	// answers are serialized with 1-based order
	assert.Contains(t, prompt, `"order":1`)
	assert.Contains(t, prompt, `"order":2`)
	assert.Contains(t, prompt, `"question_id":7`)
	// exactly one answers block, no question text leaks in
	assert.Equal(t, 1, strings.Count(prompt, "Candidate answers (JSON):"))
}

func TestBuildAnalysisPromptLanguageDirective(t *testing.T) {
	b := newTestPromptBuilder(12000)

	viPrompt, _ := b.BuildAnalysisPrompt(PromptInput{RoleName: "QA", Language: "vi", Answers: []AnswerInput{{AnswerText: "x"}}})
	assert.Contains(t, viPrompt, "in Vietnamese")

	defaultPrompt, _ := b.BuildAnalysisPrompt(PromptInput{RoleName: "QA", Answers: []AnswerInput{{AnswerText: "x"}}})
	assert.Contains(t, defaultPrompt, "in English")
}

func TestBuildAnalysisPromptAnonymousCandidate(t *testing.T) {
	b := newTestPromptBuilder(12000)
	prompt, _ := b.BuildAnalysisPrompt(PromptInput{RoleName: "QA", Answers: []AnswerInput{{AnswerText: "x"}}})
	assert.Contains(t, prompt, "the candidate")
}

func TestBuildAnalysisPromptTruncation(t *testing.T) {
	b := newTestPromptBuilder(2000)

	long := strings.Repeat("answer text ", 300) // ~3600 chars each
	_, stats := b.BuildAnalysisPrompt(PromptInput{
		RoleName: "Backend Engineer",
		Answers: []AnswerInput{
			{AnswerText: long},
			{AnswerText: long},
		},
	})

	require.True(t, stats.Truncated)
	assert.Greater(t, stats.OriginalLength, 2000)
	assert.LessOrEqual(t, stats.FinalLength, 2000)
	// initial budget is max(400, maxChars/answerCount) = 1000, shrinking in
	// steps of 200 until the prompt fits
	assert.Less(t, stats.PerAnswerBudget, 1000)
	assert.GreaterOrEqual(t, stats.PerAnswerBudget, 0)
	assert.Zero(t, stats.PerAnswerBudget%200)
}

func TestBuildAnalysisPromptTruncationStopsAtZeroBudget(t *testing.T) {
	// the preamble alone exceeds the cap, so the loop must bottom out rather
	// than spin
	b := newTestPromptBuilder(100)
	prompt, stats := b.BuildAnalysisPrompt(PromptInput{
		RoleName: "Backend Engineer",
		Answers:  []AnswerInput{{AnswerText: strings.Repeat("a", 5000)}},
	})

	require.True(t, stats.Truncated)
	assert.Equal(t, 0, stats.PerAnswerBudget)
	assert.NotEmpty(t, prompt)
}
