package repository

import (
	"github.com/haduong/smartmcq/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	// Upsert creates the answer row for (attempt, question) or updates the
	// existing one in place. The unique index on the pair makes the
	// get-or-create atomic, so a retried or double-clicked save never
	// duplicates rows.
	Upsert(answer *model.StudentAnswer) error
	FindByAttempt(attemptID uint) ([]model.StudentAnswer, error)
	CountByAttempt(attemptID uint) (int64, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Upsert(answer *model.StudentAnswer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"selected_choice", "is_correct", "time_spent_sec", "updated_at",
		}),
	}).Create(answer).Error
}

func (r *answerRepository) FindByAttempt(attemptID uint) ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	err := r.db.
		Where("attempt_id = ?", attemptID).
		Order("question_id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) CountByAttempt(attemptID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.StudentAnswer{}).
		Where("attempt_id = ?", attemptID).
		Count(&count).Error
	return count, err
}
