package repository

import (
	"fmt"
	"time"

	"github.com/dtnguyen2107/talentpulse/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.AssessmentAttempt) error
	Update(attempt *model.AssessmentAttempt) error
	FindByID(id uint) (*model.AssessmentAttempt, error)
	FindByIDWithRole(id uint) (*model.AssessmentAttempt, error)
	// FindActiveByProfileAndRole returns the newest non-completed attempt for
	// the (profile, role) pair, if any.
	FindActiveByProfileAndRole(profileID, roleID uint) (*model.AssessmentAttempt, error)
	// FindLatestOpenByProfile returns the newest attempt that is neither
	// submitted nor completed, across all roles of the profile.
	FindLatestOpenByProfile(profileID uint) (*model.AssessmentAttempt, error)
	// MarkAIProcessing flips the pipeline status back to processing and clears
	// the previous error before an analysis run (including caller retries
	// after a failed run). Only an attempt awaiting analysis qualifies.
	MarkAIProcessing(attemptID uint) error
	// MarkAIFailed records the analysis failure side effect without touching
	// the attempt's primary status.
	MarkAIFailed(attemptID uint, errMsg string) error
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.AssessmentAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) Update(attempt *model.AssessmentAttempt) error {
	return r.db.Save(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.AssessmentAttempt, error) {
	var attempt model.AssessmentAttempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithRole(id uint) (*model.AssessmentAttempt, error) {
	var attempt model.AssessmentAttempt
	if err := r.db.Preload("Role").First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindActiveByProfileAndRole(profileID, roleID uint) (*model.AssessmentAttempt, error) {
	var attempt model.AssessmentAttempt
	err := r.db.
		Where("profile_id = ? AND role_id = ? AND status <> ?", profileID, roleID, model.AttemptCompleted).
		Order("created_at DESC").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindLatestOpenByProfile(profileID uint) (*model.AssessmentAttempt, error) {
	var attempt model.AssessmentAttempt
	err := r.db.
		Preload("Role").
		Where("profile_id = ? AND submitted_at IS NULL AND status <> ?", profileID, model.AttemptCompleted).
		Order("created_at DESC").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) MarkAIProcessing(attemptID uint) error {
	res := r.db.Model(&model.AssessmentAttempt{}).
		Where("id = ? AND status = ?", attemptID, model.AttemptAwaitingAI).
		Updates(map[string]any{
			"ai_status":        model.AIStatusProcessing,
			"ai_error":         nil,
			"last_activity_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: attempt %d is not awaiting analysis", model.ErrConflict, attemptID)
	}
	return nil
}

func (r *attemptRepository) MarkAIFailed(attemptID uint, errMsg string) error {
	return r.db.Model(&model.AssessmentAttempt{}).
		Where("id = ?", attemptID).
		Updates(map[string]any{
			"ai_status":        model.AIStatusFailed,
			"ai_error":         errMsg,
			"last_activity_at": time.Now(),
		}).Error
}
