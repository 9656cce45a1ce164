package repository

import (
	"time"

	"github.com/haduong/smartmcq/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.StudentAttempt) error
	Update(attempt *model.StudentAttempt) error
	FindByID(id uint) (*model.StudentAttempt, error)
	FindByIDWithSession(id uint) (*model.StudentAttempt, error)
	FindByStudentAndSession(studentID, sessionID uint) (*model.StudentAttempt, error)
	FindAllBySession(sessionID uint) ([]model.StudentAttempt, error)
	CountJoined(sessionID uint) (int64, error)
	CountSubmitted(sessionID uint) (int64, error)
	// FinalizeSubmission flips the submitted flag and records the final stats
	// in one guarded update. It returns the number of rows changed: zero means
	// another request already finalized this attempt, and the caller must
	// treat the submission as already done. This is the linearization point
	// for concurrent manual and auto submits.
	FinalizeSubmission(id uint, submittedAt time.Time, totalTimeSpentSec int) (int64, error)
	ReleaseResult(id uint, releasedBy uint, releasedAt time.Time) (int64, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.StudentAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) Update(attempt *model.StudentAttempt) error {
	return r.db.Save(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.StudentAttempt, error) {
	var attempt model.StudentAttempt
	err := r.db.First(&attempt, id).Error
	return &attempt, err
}

func (r *attemptRepository) FindByIDWithSession(id uint) (*model.StudentAttempt, error) {
	var attempt model.StudentAttempt
	err := r.db.
		Preload("Session").
		Preload("Session.Test").
		Preload("Session.Test.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("Session.Test.Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.label ASC")
		}).
		First(&attempt, id).Error
	return &attempt, err
}

func (r *attemptRepository) FindByStudentAndSession(studentID, sessionID uint) (*model.StudentAttempt, error) {
	var attempt model.StudentAttempt
	err := r.db.
		Where("student_id = ? AND session_id = ?", studentID, sessionID).
		First(&attempt).Error
	return &attempt, err
}

func (r *attemptRepository) FindAllBySession(sessionID uint) ([]model.StudentAttempt, error) {
	var attempts []model.StudentAttempt
	err := r.db.
		Preload("Answers").
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) CountJoined(sessionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.StudentAttempt{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

func (r *attemptRepository) CountSubmitted(sessionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.StudentAttempt{}).
		Where("session_id = ? AND submitted = ?", sessionID, true).
		Count(&count).Error
	return count, err
}

func (r *attemptRepository) FinalizeSubmission(id uint, submittedAt time.Time, totalTimeSpentSec int) (int64, error) {
	res := r.db.Model(&model.StudentAttempt{}).
		Where("id = ? AND submitted = ?", id, false).
		Updates(map[string]interface{}{
			"submitted":            true,
			"submitted_at":         submittedAt,
			"total_time_spent_sec": totalTimeSpentSec,
		})
	return res.RowsAffected, res.Error
}

func (r *attemptRepository) ReleaseResult(id uint, releasedBy uint, releasedAt time.Time) (int64, error) {
	// Guarded the same way as FinalizeSubmission: only the first release wins.
	res := r.db.Model(&model.StudentAttempt{}).
		Where("id = ? AND submitted = ? AND result_released_at IS NULL", id, true).
		Updates(map[string]interface{}{
			"result_released_at": releasedAt,
			"released_by_id":     releasedBy,
		})
	return res.RowsAffected, res.Error
}
