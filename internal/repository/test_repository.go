package repository

import (
	"github.com/haduong/smartmcq/internal/model"
	"gorm.io/gorm"
)

type TestRepository interface {
	Create(test *model.Test) error
	FindByID(id uint) (*model.Test, error)
	FindByIDWithQuestions(id uint) (*model.Test, error)
	FindAllByCreator(creatorID uint) ([]model.Test, error)
	Update(test *model.Test) error
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(test *model.Test) error {
	// GORM creates the associated questions and choices when they are populated.
	return r.db.Create(test).Error
}

func (r *testRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.Where("is_active = ?", true).First(&test, id).Error
	return &test, err
}

func (r *testRepository) FindByIDWithQuestions(id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.label ASC")
		}).
		Where("is_active = ?", true).
		First(&test, id).Error
	return &test, err
}

func (r *testRepository) FindAllByCreator(creatorID uint) ([]model.Test, error) {
	var tests []model.Test
	err := r.db.
		Where("created_by_id = ? AND is_active = ?", creatorID, true).
		Order("created_at DESC").
		Find(&tests).Error
	return tests, err
}

func (r *testRepository) Update(test *model.Test) error {
	return r.db.Save(test).Error
}
