package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dtnguyen2107/talentpulse/internal/model"
	"github.com/google/generative-ai-go/genai"
)

// CandidateAnalysis is the normalized shape extracted from a model response.
type CandidateAnalysis struct {
	SkillScores            []model.SkillScore
	Strengths              []string
	DevelopmentAreas       []string
	DevelopmentSuggestions []string
	RecommendedRoles       []string
	TeamFit                []string
	Summary                string
}

// EmptyAnalysis is what an attempt with no usable answers resolves to.
func EmptyAnalysis() *CandidateAnalysis {
	return &CandidateAnalysis{
		SkillScores:            []model.SkillScore{},
		Strengths:              []string{},
		DevelopmentAreas:       []string{},
		DevelopmentSuggestions: []string{},
		RecommendedRoles:       []string{},
		TeamFit:                []string{},
		Summary:                "",
	}
}

const rawPayloadSnippetLimit = 2000

// ParseAnalysisResponse extracts the analysis JSON from an arbitrary Gemini
// response. The provider controls the response shape, so everything here is
// defensive: wrapped/fenced/partial JSON is tolerated, individually invalid
// fields are dropped, and only total inability to extract an answer raises a
// ParseError.
func ParseAnalysisResponse(resp *genai.GenerateContentResponse) (*CandidateAnalysis, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		details := map[string]any{}
		if resp != nil && resp.PromptFeedback != nil {
			details["block_reason"] = resp.PromptFeedback.BlockReason.String()
			details["safety_ratings"] = resp.PromptFeedback.SafetyRatings
		}
		return nil, model.NewParseError(model.ParseNoCandidates, "response contains no candidates", details)
	}

	candidate := resp.Candidates[0]
	text, fnArgs := collectParts(candidate)
	if text == "" && fnArgs == nil {
		details := map[string]any{
			"finish_reason": candidate.FinishReason.String(),
		}
		if resp.PromptFeedback != nil {
			details["block_reason"] = resp.PromptFeedback.BlockReason.String()
		}
		if len(candidate.SafetyRatings) > 0 {
			details["safety_ratings"] = candidate.SafetyRatings
		}
		return nil, model.NewParseError(model.ParseNoContentParts, "first candidate has no text or function-call parts", details)
	}

	var payload any
	if fnArgs != nil {
		payload = fnArgs
	} else {
		parsed, err := extractJSONPayload(text)
		if err != nil {
			return nil, err
		}
		payload = parsed
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, model.NewParseError(model.ParseMissingObject, "parsed payload is not a JSON object", map[string]any{
			"raw_payload": snippet(text),
		})
	}

	analysis := EmptyAnalysis()
	analysis.SkillScores = coerceSkillScores(obj["skill_scores"])
	analysis.Strengths = dedupeStrings(coerceStringList(obj["strengths"]))
	areas := coerceStringList(obj["development_areas"])
	if len(areas) == 0 {
		// older prompt revisions asked for "opportunities"
		areas = coerceStringList(obj["opportunities"])
	}
	analysis.DevelopmentAreas = dedupeStrings(areas)
	analysis.DevelopmentSuggestions = dedupeStrings(coerceStringList(obj["development_suggestions"]))
	analysis.RecommendedRoles = dedupeStrings(coerceStringList(obj["recommended_roles"]))
	analysis.TeamFit = dedupeStrings(coerceStringList(obj["team_fit"]))
	if summary, ok := obj["summary"].(string); ok {
		analysis.Summary = strings.TrimSpace(summary)
	}
	return analysis, nil
}

// collectParts concatenates text parts and captures function-call arguments
// when the provider answered through a tool call instead of plain text.
func collectParts(candidate *genai.Candidate) (string, map[string]any) {
	if candidate == nil || candidate.Content == nil {
		return "", nil
	}
	var sb strings.Builder
	var fnArgs map[string]any
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			sb.WriteString(string(p))
		case genai.FunctionCall:
			if len(p.Args) > 0 {
				fnArgs = p.Args
			}
		}
	}
	return strings.TrimSpace(sb.String()), fnArgs
}

// extractJSONPayload tries the full trimmed text first, then the substring
// between the first '{' and the last '}'. Code fences are stripped before
// either attempt.
func extractJSONPayload(text string) (any, error) {
	cleaned := stripCodeFences(text)

	var payload any
	if err := json.Unmarshal([]byte(cleaned), &payload); err == nil {
		return payload, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &payload); err == nil {
			return payload, nil
		}
	}

	return nil, model.NewParseError(model.ParseInvalidJSON, "no parseable JSON object found in response text", map[string]any{
		"raw_payload": snippet(text),
	})
}

func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

func snippet(text string) string {
	if len(text) > rawPayloadSnippetLimit {
		return text[:rawPayloadSnippetLimit]
	}
	return text
}

// coerceSkillScores validates each entry independently; entries with a blank
// name or an unparseable score are dropped, never the whole list.
func coerceSkillScores(value any) []model.SkillScore {
	items, ok := value.([]any)
	if !ok {
		return []model.SkillScore{}
	}
	scores := make([]model.SkillScore, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, ok := entry["name"].(string)
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		score, ok := parseScoreValue(entry["score"])
		if !ok {
			continue
		}
		scores = append(scores, model.SkillScore{Name: name, Score: score})
	}
	return normalizeSkillScores(scores)
}

// parseScoreValue accepts JSON numbers and numeric strings.
func parseScoreValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func coerceStringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
