package service

import (
	"fmt"

	"github.com/dtnguyen2107/talentpulse/internal/dto"
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"github.com/dtnguyen2107/talentpulse/internal/repository"
)

// CatalogService serves the static pick lists the client renders before an
// attempt starts.
type CatalogService interface {
	ListRoles() ([]dto.RoleResponse, error)
	ListTeams() ([]dto.TeamResponse, error)
}

type catalogService struct {
	roleRepo repository.RoleRepository
	teamRepo repository.TeamRepository
}

func NewCatalogService(roleRepo repository.RoleRepository, teamRepo repository.TeamRepository) CatalogService {
	return &catalogService{roleRepo: roleRepo, teamRepo: teamRepo}
}

func (s *catalogService) ListRoles() ([]dto.RoleResponse, error) {
	roles, err := s.roleRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("%w: listing roles: %v", model.ErrPersistence, err)
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		if resp := roleToDTO(&roles[i]); resp != nil {
			out = append(out, *resp)
		}
	}
	return out, nil
}

func (s *catalogService) ListTeams() ([]dto.TeamResponse, error) {
	teams, err := s.teamRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("%w: listing teams: %v", model.ErrPersistence, err)
	}
	out := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		if resp := teamToDTO(&teams[i]); resp != nil {
			out = append(out, *resp)
		}
	}
	return out, nil
}
