package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dtnguyen2107/talentpulse/config"
	"github.com/rs/zerolog/log"
)

// AnswerInput is one raw answer handed to the prompt builder. Question text
// and answer options are deliberately excluded to keep the prompt compact.
type AnswerInput struct {
	QuestionID *uint
	AnswerText string
}

// PromptInput carries everything the analysis prompt needs.
type PromptInput struct {
	RoleName      string
	CandidateName *string
	Language      string // "vi" or "en"
	Answers       []AnswerInput
	TeamNames     []string
}

// PromptStats reports what truncation did, for observability.
type PromptStats struct {
	Truncated       bool
	OriginalLength  int
	FinalLength     int
	PerAnswerBudget int
}

type PromptBuilder interface {
	BuildAnalysisPrompt(input PromptInput) (string, PromptStats)
}

type promptBuilder struct {
	maxChars int
}

func NewPromptBuilder(cfg *config.Config) PromptBuilder {
	return &promptBuilder{maxChars: cfg.Gemini.MaxPromptChars}
}

// answerContext is the compact per-answer shape serialized into the prompt.
type answerContext struct {
	Order      int    `json:"order"`
	AnswerText string `json:"answer_text"`
	QuestionID *uint  `json:"question_id,omitempty"`
}

const truncationStep = 200
const minAnswerBudget = 400
const noTruncation = -1

// BuildAnalysisPrompt assembles the single bounded prompt for the analysis
// call. When the assembled prompt exceeds the configured maximum length, every
// answer is truncated to a shared per-answer budget which shrinks in fixed
// steps until the prompt fits or the budget is exhausted.
func (b *promptBuilder) BuildAnalysisPrompt(input PromptInput) (string, PromptStats) {
	stats := PromptStats{}

	prompt := b.assemble(input, noTruncation)
	stats.OriginalLength = len([]rune(prompt))

	if stats.OriginalLength > b.maxChars && len(input.Answers) > 0 {
		stats.Truncated = true
		budget := b.maxChars / len(input.Answers)
		if budget < minAnswerBudget {
			budget = minAnswerBudget
		}
		prompt = b.assemble(input, budget)
		for len([]rune(prompt)) > b.maxChars && budget > 0 {
			budget -= truncationStep
			if budget < 0 {
				budget = 0
			}
			prompt = b.assemble(input, budget)
		}
		stats.PerAnswerBudget = budget
	}

	stats.FinalLength = len([]rune(prompt))
	if stats.Truncated {
		log.Warn().
			Int("original_length", stats.OriginalLength).
			Int("final_length", stats.FinalLength).
			Int("per_answer_budget", stats.PerAnswerBudget).
			Int("max_chars", b.maxChars).
			Msg("Analysis prompt exceeded budget and was truncated")
	}
	return prompt, stats
}

// assemble builds the prompt text; a negative answerBudget disables
// truncation, 0 reduces every answer to a bare ellipsis.
func (b *promptBuilder) assemble(input PromptInput, answerBudget int) string {
	contexts := make([]answerContext, 0, len(input.Answers))
	for i, ans := range input.Answers {
		text := ans.AnswerText
		if answerBudget >= 0 {
			text = truncateWithEllipsis(text, answerBudget)
		}
		contexts = append(contexts, answerContext{
			Order:      i + 1,
			AnswerText: text,
			QuestionID: ans.QuestionID,
		})
	}
	contextJSON, err := json.Marshal(contexts)
	if err != nil {
		// []answerContext cannot fail to marshal; keep the prompt usable anyway.
		contextJSON = []byte("[]")
	}

	candidate := "the candidate"
	if input.CandidateName != nil && strings.TrimSpace(*input.CandidateName) != "" {
		candidate = strings.TrimSpace(*input.CandidateName)
	}

	var sb strings.Builder
	sb.WriteString("You are a senior technical hiring analyst.\n")
	sb.WriteString(fmt.Sprintf("Evaluate %s, who applied for the role %q, based on their assessment answers below.\n\n", candidate, input.RoleName))
	sb.WriteString("Respond with STRICT JSON only - no markdown, no code fences, no commentary.\n")
	sb.WriteString("The JSON object must contain exactly these keys:\n")
	sb.WriteString(`{"skill_scores": [{"name": string, "score": number 0-100}], "strengths": [string], "development_areas": [string], "recommended_roles": [string], "team_fit": [string], "summary": string}`)
	sb.WriteString("\n\n")
	sb.WriteString(b.languageDirective(input.Language))
	sb.WriteString("\n")
	if len(input.TeamNames) > 0 {
		sb.WriteString(fmt.Sprintf("Pick team_fit entries from the available teams, best match first: %s.\n", strings.Join(input.TeamNames, ", ")))
	}
	sb.WriteString("\nCandidate answers (JSON):\n")
	sb.Write(contextJSON)
	sb.WriteString("\n")
	return sb.String()
}

func (b *promptBuilder) languageDirective(language string) string {
	if language == "vi" {
		return "Write every textual value inside the JSON payload in Vietnamese."
	}
	return "Write every textual value inside the JSON payload in English."
}
