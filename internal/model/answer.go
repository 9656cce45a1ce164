package model

import (
	"time"
)

// StudentAnswer is the single answer row for an (attempt, question) pair.
// Saving again for the same question updates the row in place. IsCorrect is
// recomputed from the question's correct choice on every save; it is never
// taken from the client.
type StudentAnswer struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	AttemptID      uint      `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	QuestionID     uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	Question       Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	SelectedChoice string    `json:"selected_choice" gorm:"size:1;not null"`
	IsCorrect      bool      `json:"is_correct" gorm:"not null;default:false"`
	TimeSpentSec   int       `json:"time_spent_seconds" gorm:"default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
