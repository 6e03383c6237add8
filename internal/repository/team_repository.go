package repository

import (
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"gorm.io/gorm"
)

type TeamRepository interface {
	FindAll() ([]model.Team, error)
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) FindAll() ([]model.Team, error) {
	var teams []model.Team
	err := r.db.Order("id ASC").Find(&teams).Error
	return teams, err
}
