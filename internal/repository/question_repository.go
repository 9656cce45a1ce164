package repository

import (
	"github.com/haduong/smartmcq/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByIDWithChoices(id uint) (*model.Question, error)
	FindAllByCreator(creatorID uint) ([]model.Question, error)
	Update(question *model.Question) error
	Delete(id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByIDWithChoices(id uint) (*model.Question, error) {
	var question model.Question
	err := r.db.
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.label ASC")
		}).
		Where("is_active = ?", true).
		First(&question, id).Error
	return &question, err
}

func (r *questionRepository) FindAllByCreator(creatorID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.label ASC")
		}).
		Where("created_by_id = ? AND is_active = ?", creatorID, true).
		Order("created_at DESC").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

func (r *questionRepository) Delete(id uint) error {
	// Soft delete via the active flag so existing answers keep their question.
	return r.db.Model(&model.Question{}).Where("id = ?", id).Update("is_active", false).Error
}
