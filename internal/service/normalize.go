package service

import (
	"math"
	"strings"

	"github.com/dtnguyen2107/talentpulse/internal/model"
)

// dedupeStrings trims entries, drops empties and removes case-insensitive
// duplicates while preserving first-occurrence order.
func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// clampScore bounds a skill score to [0,100] and rounds to 2 decimals.
// Applying it twice yields the same value.
func clampScore(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return math.Round(score*100) / 100
}

// normalizeSkillScores trims names, drops nameless entries, clamps scores and
// dedupes names case-insensitively with the first occurrence winning.
func normalizeSkillScores(scores []model.SkillScore) []model.SkillScore {
	seen := make(map[string]bool, len(scores))
	out := make([]model.SkillScore, 0, len(scores))
	for _, s := range scores {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.SkillScore{Name: name, Score: clampScore(s.Score)})
	}
	return out
}

// truncateWithEllipsis cuts s to at most max runes, trimming trailing
// whitespace before appending the ellipsis.
func truncateWithEllipsis(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := strings.TrimRight(string(runes[:max]), " \t\r\n")
	return cut + "..."
}
