package model

import (
	"time"

	"gorm.io/gorm"
)

// Choice labels. Every question carries exactly four choices, A through D,
// with exactly one of them marked correct.
const (
	ChoiceA = "A"
	ChoiceB = "B"
	ChoiceC = "C"
	ChoiceD = "D"

	ChoicesPerQuestion = 4
)

var ValidChoiceLabels = []string{ChoiceA, ChoiceB, ChoiceC, ChoiceD}

func IsValidChoiceLabel(label string) bool {
	for _, l := range ValidChoiceLabels {
		if label == l {
			return true
		}
	}
	return false
}

type Question struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `json:"title" gorm:"size:500;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Category    string         `json:"category,omitempty" gorm:"size:100"`
	Difficulty  string         `json:"difficulty" gorm:"size:10;default:'medium'"` // "easy", "medium", "hard"
	Choices     []Choice       `json:"choices,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedByID uint           `json:"created_by_id" gorm:"index"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CorrectChoice returns the choice marked correct, or nil if the choices are
// not loaded or no choice is marked.
func (q *Question) CorrectChoice() *Choice {
	for i := range q.Choices {
		if q.Choices[i].IsCorrect {
			return &q.Choices[i]
		}
	}
	return nil
}

type Choice struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `json:"question_id" gorm:"not null;uniqueIndex:idx_question_choice_label"`
	Label      string `json:"label" gorm:"size:1;not null;uniqueIndex:idx_question_choice_label"`
	Text       string `json:"text" gorm:"type:text;not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
}
