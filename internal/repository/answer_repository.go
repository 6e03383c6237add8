package repository

import (
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	// Upsert creates the answer when it carries no id and updates the
	// existing row otherwise. Callers supply the prior row's id once known so
	// one (attempt, question) pair never produces duplicates.
	Upsert(answer *model.Answer) error
	FindByAttemptAndQuestion(attemptID, questionID uint) (*model.Answer, error)
	FindAllByAttempt(attemptID uint) ([]model.Answer, error)
	CountByAttempt(attemptID uint) (int64, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Upsert(answer *model.Answer) error {
	if answer.ID == 0 {
		return r.db.Create(answer).Error
	}
	return r.db.Save(answer).Error
}

func (r *answerRepository) FindByAttemptAndQuestion(attemptID, questionID uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.Where("attempt_id = ? AND question_id = ?", attemptID, questionID).First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindAllByAttempt(attemptID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Where("attempt_id = ?", attemptID).Order("question_id ASC").Find(&answers).Error
	return answers, err
}

func (r *answerRepository) CountByAttempt(attemptID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).Where("attempt_id = ?", attemptID).Count(&count).Error
	return count, err
}
