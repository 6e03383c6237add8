package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dtnguyen2107/talentpulse/internal/dto"
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"github.com/dtnguyen2107/talentpulse/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const maxAIErrorLength = 500

// AnalysisService turns a submitted attempt's answers into a persisted
// AssessmentResult via one Gemini call.
type AnalysisService interface {
	Analyze(ctx context.Context, attemptID uint, req dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
}

type analysisService struct {
	attemptRepo repository.AttemptRepository
	resultRepo  repository.ResultRepository
	profileRepo repository.ProfileRepository
	teamRepo    repository.TeamRepository
	gemini      GeminiService
	prompts     PromptBuilder
}

func NewAnalysisService(
	attemptRepo repository.AttemptRepository,
	resultRepo repository.ResultRepository,
	profileRepo repository.ProfileRepository,
	teamRepo repository.TeamRepository,
	gemini GeminiService,
	prompts PromptBuilder,
) AnalysisService {
	return &analysisService{
		attemptRepo: attemptRepo,
		resultRepo:  resultRepo,
		profileRepo: profileRepo,
		teamRepo:    teamRepo,
		gemini:      gemini,
		prompts:     prompts,
	}
}

// Analyze runs the full pipeline: filter answers, build the bounded prompt,
// one model call, parse, resolve team fit, then persist the result and
// complete the attempt atomically. Any pipeline failure is recorded once on
// the attempt (ai_status=failed, bounded message) and re-raised; retrying is
// the caller's decision.
func (s *analysisService) Analyze(ctx context.Context, attemptID uint, req dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	attempt, err := s.attemptRepo.FindByIDWithRole(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: attempt %d", model.ErrNotFound, attemptID)
		}
		return nil, fmt.Errorf("%w: loading attempt: %v", model.ErrPersistence, err)
	}

	profile, err := s.profileRepo.FindByAuthID(req.CandidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: candidate %q", model.ErrProfileNotFound, req.CandidateID)
		}
		return nil, fmt.Errorf("%w: resolving candidate profile: %v", model.ErrPersistence, err)
	}

	exists, err := s.resultRepo.ExistsForAttempt(attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: checking existing result: %v", model.ErrPersistence, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: attempt %d already has a result", model.ErrConflict, attempt.ID)
	}

	if err := s.attemptRepo.MarkAIProcessing(attempt.ID); err != nil {
		return nil, err
	}
	attempt.AIStatus = model.AIStatusProcessing
	attempt.AIError = nil

	result, runErr := s.runPipeline(ctx, attempt, profile, req)
	if runErr != nil {
		s.recordFailure(attempt.ID, runErr)
		return nil, runErr
	}

	resp := &dto.AnalyzeResponse{
		Attempt: attemptToDTO(attempt),
		Result:  resultToDTO(result),
	}
	return resp, nil
}

// runPipeline performs the analysis steps; the caller owns the single
// failure side effect. On success the attempt has been flipped to completed
// together with the result insert.
func (s *analysisService) runPipeline(ctx context.Context, attempt *model.AssessmentAttempt, profile *model.CandidateProfile, req dto.AnalyzeRequest) (*model.AssessmentResult, error) {
	answers := filterBlankAnswers(req.Answers)

	var analysis *CandidateAnalysis
	var teams []model.Team
	if len(answers) == 0 {
		// nothing usable to analyze: a valid, empty result, not an error
		log.Info().Uint("attemptID", attempt.ID).Msg("Analyze: no non-empty answers, skipping model call")
		analysis = EmptyAnalysis()
	} else {
		var err error
		teams, err = s.teamRepo.FindAll()
		if err != nil {
			return nil, fmt.Errorf("%w: loading teams: %v", model.ErrPersistence, err)
		}
		teamNames := make([]string, 0, len(teams))
		for _, t := range teams {
			teamNames = append(teamNames, t.Name)
		}

		prompt, stats := s.prompts.BuildAnalysisPrompt(PromptInput{
			RoleName:      attempt.Role.Name,
			CandidateName: profile.FullName,
			Language:      req.Language,
			Answers:       answers,
			TeamNames:     teamNames,
		})
		log.Debug().
			Uint("attemptID", attempt.ID).
			Int("prompt_length", stats.FinalLength).
			Bool("truncated", stats.Truncated).
			Msg("Analyze: prompt assembled")

		resp, err := s.gemini.GenerateAnalysis(ctx, prompt)
		if err != nil {
			return nil, err
		}
		analysis, err = ParseAnalysisResponse(resp)
		if err != nil {
			return nil, err
		}
	}

	teamID, teamNames := resolveTeamFit(analysis.TeamFit, teams)
	modelName := s.gemini.ModelName()

	result := &model.AssessmentResult{
		AttemptID:              attempt.ID,
		ProfileID:              profile.ID,
		RoleID:                 attempt.RoleID,
		SkillScores:            analysis.SkillScores,
		Strengths:              analysis.Strengths,
		DevelopmentAreas:       analysis.DevelopmentAreas,
		DevelopmentSuggestions: analysis.DevelopmentSuggestions,
		RecommendedRoles:       analysis.RecommendedRoles,
		TeamID:                 teamID,
		TeamNames:              teamNames,
		ModelName:              &modelName,
	}
	if summary := strings.TrimSpace(analysis.Summary); summary != "" {
		result.Summary = &summary
	}

	now := time.Now()
	attempt.CompletedAt = &now
	attempt.LastActivityAt = now
	attempt.ModelName = &modelName
	applyAnalyzeMeta(attempt, req)
	if err := attempt.Transition(model.EventComplete); err != nil {
		return nil, err
	}
	attempt.AIStatus = model.AIStatusCompleted
	attempt.AIError = nil

	// result insert and attempt completion commit or roll back together
	if err := s.resultRepo.CreateWithAttemptCompletion(result, attempt); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: persisting analysis result: %v", model.ErrPersistence, err)
	}
	result.Role = attempt.Role
	log.Info().
		Uint("attemptID", attempt.ID).
		Uint("resultID", result.ID).
		Int("skillCount", len(result.SkillScores)).
		Msg("Analyze: attempt completed with result")
	return result, nil
}

// recordFailure is the orchestrator's single failure side effect.
func (s *analysisService) recordFailure(attemptID uint, cause error) {
	msg := truncateWithEllipsis(cause.Error(), maxAIErrorLength-3)
	if err := s.attemptRepo.MarkAIFailed(attemptID, msg); err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Analyze: failed to record analysis failure on attempt")
	}
	log.Error().Err(cause).Uint("attemptID", attemptID).Msg("Analyze: analysis pipeline failed")
}

func filterBlankAnswers(payloads []dto.AnswerPayload) []AnswerInput {
	answers := make([]AnswerInput, 0, len(payloads))
	for _, p := range payloads {
		if strings.TrimSpace(p.AnswerText) == "" {
			continue
		}
		answers = append(answers, AnswerInput{QuestionID: p.QuestionID, AnswerText: p.AnswerText})
	}
	return answers
}

// resolveTeamFit maps the model's free-text recommendations onto canonical
// team records: the first recommendation matching an existing team wins, the
// raw names are kept for display.
func resolveTeamFit(recommendations []string, teams []model.Team) (*uint, []string) {
	names := dedupeStrings(recommendations)
	for _, rec := range names {
		for _, team := range teams {
			if strings.EqualFold(strings.TrimSpace(rec), team.Name) {
				id := team.ID
				return &id, names
			}
		}
	}
	return nil, names
}

func applyAnalyzeMeta(attempt *model.AssessmentAttempt, req dto.AnalyzeRequest) {
	if req.DurationSeconds != nil {
		attempt.DurationSeconds = req.DurationSeconds
	}
	if attempt.DurationSeconds == nil && attempt.SubmittedAt != nil {
		derived := int(attempt.SubmittedAt.Sub(attempt.StartedAt).Seconds())
		if derived >= 0 {
			attempt.DurationSeconds = &derived
		}
	}
	if attempt.DurationSeconds != nil && attempt.TotalQuestions > 0 {
		avg := math.Round(float64(*attempt.DurationSeconds)/float64(attempt.TotalQuestions)*100) / 100
		attempt.AvgSecondsPerQuestion = &avg
	}
	if req.ViolationCount != nil {
		attempt.ViolationCount = *req.ViolationCount
	}
	for _, ev := range req.ViolationEvents {
		attempt.ViolationEvents = append(attempt.ViolationEvents, model.ViolationEvent{
			Type:       ev.Type,
			QuestionID: ev.QuestionID,
			Timestamp:  ev.Timestamp,
			Metadata:   ev.Metadata,
		})
	}
	if req.ViolationCount == nil && len(req.ViolationEvents) > 0 {
		attempt.ViolationCount = len(attempt.ViolationEvents)
	}
}
