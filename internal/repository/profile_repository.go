package repository

import (
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	FindByAuthID(authID string) (*model.CandidateProfile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByAuthID(authID string) (*model.CandidateProfile, error) {
	var profile model.CandidateProfile
	if err := r.db.Where("auth_id = ?", authID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
