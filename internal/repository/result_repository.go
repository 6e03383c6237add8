package repository

import (
	"fmt"

	"github.com/dtnguyen2107/talentpulse/internal/model"
	"gorm.io/gorm"
)

type ResultRepository interface {
	// CreateWithAttemptCompletion inserts the result and flips the attempt to
	// completed in one transaction. The attempt update only succeeds from
	// ai_status=processing, so two concurrent analysis runs cannot both
	// commit; the loser sees model.ErrConflict.
	CreateWithAttemptCompletion(result *model.AssessmentResult, attempt *model.AssessmentAttempt) error
	FindLatestCompletedByProfile(profileID uint) (*model.AssessmentResult, error)
	ExistsForAttempt(attemptID uint) (bool, error)
	ExistsForProfile(profileID uint) (bool, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) CreateWithAttemptCompletion(result *model.AssessmentResult, attempt *model.AssessmentAttempt) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return fmt.Errorf("failed to insert assessment result: %w", err)
		}
		// Select forces zero-valued columns through and keeps the jsonb
		// serializer on violation_events in play.
		res := tx.Model(&model.AssessmentAttempt{}).
			Where("id = ? AND ai_status = ?", attempt.ID, model.AIStatusProcessing).
			Select("status", "ai_status", "ai_error", "completed_at", "duration_seconds",
				"avg_seconds_per_question", "violation_count", "violation_events",
				"model_name", "last_activity_at").
			Updates(attempt)
		if res.Error != nil {
			return fmt.Errorf("failed to complete attempt %d: %w", attempt.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: attempt %d is not awaiting analysis", model.ErrConflict, attempt.ID)
		}
		return nil
	})
}

func (r *resultRepository) FindLatestCompletedByProfile(profileID uint) (*model.AssessmentResult, error) {
	var result model.AssessmentResult
	err := r.db.
		Preload("Role").
		Preload("Team").
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) ExistsForAttempt(attemptID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.AssessmentResult{}).Where("attempt_id = ?", attemptID).Count(&count).Error
	return count > 0, err
}

func (r *resultRepository) ExistsForProfile(profileID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.AssessmentResult{}).Where("profile_id = ?", profileID).Count(&count).Error
	return count > 0, err
}
