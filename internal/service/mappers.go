package service

import (
	"github.com/dtnguyen2107/talentpulse/internal/dto"
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

func roleToDTO(role *model.Role) *dto.RoleResponse {
	if role == nil || role.ID == 0 {
		return nil
	}
	var resp dto.RoleResponse
	if err := copier.Copy(&resp, role); err != nil {
		log.Error().Err(err).Msg("Failed to copy Role model to DTO")
	}
	return &resp
}

func teamToDTO(team *model.Team) *dto.TeamResponse {
	if team == nil || team.ID == 0 {
		return nil
	}
	var resp dto.TeamResponse
	if err := copier.Copy(&resp, team); err != nil {
		log.Error().Err(err).Msg("Failed to copy Team model to DTO")
	}
	return &resp
}

func attemptToDTO(attempt *model.AssessmentAttempt) dto.AttemptResponse {
	var resp dto.AttemptResponse
	if err := copier.Copy(&resp, attempt); err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("Failed to copy AssessmentAttempt model to DTO")
	}
	// enum-typed columns and derived fields are outside copier's reach
	resp.Status = string(attempt.Status)
	resp.AIStatus = string(attempt.AIStatus)
	resp.ProgressPercent = attempt.ProgressPercent()
	return resp
}

func resultToDTO(result *model.AssessmentResult) dto.ResultResponse {
	var resp dto.ResultResponse
	if err := copier.Copy(&resp, result); err != nil {
		log.Error().Err(err).Uint("resultID", result.ID).Msg("Failed to copy AssessmentResult model to DTO")
	}
	resp.HRStatus = string(result.HRStatusResolved())
	if result.Team != nil && result.Team.ID != 0 {
		resp.TeamName = &result.Team.Name
	}
	if resp.SkillScores == nil {
		resp.SkillScores = []dto.SkillScoreResponse{}
	}
	for _, field := range []*[]string{&resp.Strengths, &resp.DevelopmentAreas, &resp.DevelopmentSuggestions, &resp.RecommendedRoles, &resp.TeamNames} {
		if *field == nil {
			*field = []string{}
		}
	}
	return resp
}
