package repository

import (
	"github.com/haduong/smartmcq/internal/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *model.TestSession) error
	Update(session *model.TestSession) error
	FindByID(id uint) (*model.TestSession, error)
	FindByIDWithTest(id uint) (*model.TestSession, error)
	FindActiveByCode(code string) (*model.TestSession, error)
	ActiveCodeExists(code string) (bool, error)
	FindAllByCreator(creatorID uint) ([]model.TestSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.TestSession) error {
	return r.db.Create(session).Error
}

func (r *sessionRepository) Update(session *model.TestSession) error {
	return r.db.Save(session).Error
}

func (r *sessionRepository) FindByID(id uint) (*model.TestSession, error) {
	var session model.TestSession
	err := r.db.First(&session, id).Error
	return &session, err
}

func (r *sessionRepository) FindByIDWithTest(id uint) (*model.TestSession, error) {
	var session model.TestSession
	err := r.db.
		Preload("Test").
		Preload("Test.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("Test.Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.label ASC")
		}).
		First(&session, id).Error
	return &session, err
}

func (r *sessionRepository) FindActiveByCode(code string) (*model.TestSession, error) {
	var session model.TestSession
	err := r.db.
		Preload("Test").
		Preload("Test.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Where("access_code = ? AND is_active = ?", code, true).
		First(&session).Error
	return &session, err
}

func (r *sessionRepository) ActiveCodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&model.TestSession{}).
		Where("access_code = ? AND is_active = ?", code, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *sessionRepository) FindAllByCreator(creatorID uint) ([]model.TestSession, error) {
	var sessions []model.TestSession
	err := r.db.
		Preload("Test").
		Where("created_by_id = ?", creatorID).
		Order("start_time DESC").
		Find(&sessions).Error
	return sessions, err
}
