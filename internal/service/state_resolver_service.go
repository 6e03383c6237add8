package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dtnguyen2107/talentpulse/internal/dto"
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"github.com/dtnguyen2107/talentpulse/internal/repository"
	"gorm.io/gorm"
)

// StateResolverService answers "where should this candidate land": their
// latest result, an assessment still in flight, or role selection. A result
// always wins over an open attempt, even a newer one.
type StateResolverService interface {
	ResolveState(candidateID string) (*dto.AssessmentStateResponse, error)
}

type stateResolverService struct {
	profileRepo repository.ProfileRepository
	resultRepo  repository.ResultRepository
	attemptRepo repository.AttemptRepository
}

func NewStateResolverService(
	profileRepo repository.ProfileRepository,
	resultRepo repository.ResultRepository,
	attemptRepo repository.AttemptRepository,
) StateResolverService {
	return &stateResolverService{
		profileRepo: profileRepo,
		resultRepo:  resultRepo,
		attemptRepo: attemptRepo,
	}
}

func (s *stateResolverService) ResolveState(candidateID string) (*dto.AssessmentStateResponse, error) {
	if strings.TrimSpace(candidateID) == "" {
		return &dto.AssessmentStateResponse{Route: dto.RouteRoleSelection}, nil
	}

	profile, err := s.profileRepo.FindByAuthID(candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// unknown candidates start from scratch
			return &dto.AssessmentStateResponse{Route: dto.RouteRoleSelection}, nil
		}
		return nil, fmt.Errorf("%w: resolving candidate profile: %v", model.ErrPersistence, err)
	}

	result, err := s.resultRepo.FindLatestCompletedByProfile(profile.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: loading latest result: %v", model.ErrPersistence, err)
	}
	if result != nil {
		resp := mergedResultDTO(result)
		return &dto.AssessmentStateResponse{
			Route:  dto.RouteResult,
			Role:   roleToDTO(&result.Role),
			Result: &resp,
		}, nil
	}

	attempt, err := s.attemptRepo.FindLatestOpenByProfile(profile.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: loading open attempt: %v", model.ErrPersistence, err)
	}
	if attempt != nil {
		attemptDTO := attemptToDTO(attempt)
		return &dto.AssessmentStateResponse{
			Route:   dto.RouteAssessment,
			Role:    roleToDTO(&attempt.Role),
			Attempt: &attemptDTO,
		}, nil
	}

	return &dto.AssessmentStateResponse{Route: dto.RouteRoleSelection}, nil
}

// mergedResultDTO folds the legacy raw_analysis blob into the structured
// columns. Older writers stored everything in the blob only; newer rows have
// proper columns and may omit the blob entirely. Structured values win, blob
// values fill gaps, merged lists are deduped.
func mergedResultDTO(result *model.AssessmentResult) dto.ResultResponse {
	resp := resultToDTO(result)
	if len(result.RawAnalysis) == 0 {
		return resp
	}

	if len(resp.SkillScores) == 0 {
		for _, s := range coerceSkillScores(result.RawAnalysis["skill_scores"]) {
			resp.SkillScores = append(resp.SkillScores, dto.SkillScoreResponse{Name: s.Name, Score: s.Score})
		}
	}
	resp.Strengths = mergeLists(resp.Strengths, result.RawAnalysis["strengths"])
	areas := mergeLists(resp.DevelopmentAreas, result.RawAnalysis["development_areas"])
	if len(areas) == 0 {
		areas = mergeLists(nil, result.RawAnalysis["opportunities"])
	}
	resp.DevelopmentAreas = areas
	resp.DevelopmentSuggestions = mergeLists(resp.DevelopmentSuggestions, result.RawAnalysis["development_suggestions"])
	resp.RecommendedRoles = mergeLists(resp.RecommendedRoles, result.RawAnalysis["recommended_roles"])
	resp.TeamNames = mergeLists(resp.TeamNames, result.RawAnalysis["team_fit"])

	if resp.Summary == nil {
		if summary, ok := result.RawAnalysis["summary"].(string); ok {
			if trimmed := strings.TrimSpace(summary); trimmed != "" {
				resp.Summary = &trimmed
			}
		}
	}
	return resp
}

// mergeLists appends blob entries after the structured ones and dedupes the
// combination, so structured values keep their position.
func mergeLists(structured []string, blobValue any) []string {
	merged := append(append([]string{}, structured...), coerceStringList(blobValue)...)
	return dedupeStrings(merged)
}
