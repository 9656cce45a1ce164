package model

import (
	"time"

	"gorm.io/gorm"
)

// StudentAttempt ties one student to one session, at most once. It tracks the
// student's position in the test, their submission state and, after release,
// who released the result and when. Once Submitted flips true the record is
// immutable except for the release fields.
type StudentAttempt struct {
	ID                uint            `gorm:"primarykey" json:"id"`
	SessionID         uint            `json:"session_id" gorm:"not null;uniqueIndex:idx_attempt_student_session"`
	Session           TestSession     `json:"session,omitempty" gorm:"foreignKey:SessionID"`
	StudentID         uint            `json:"student_id" gorm:"not null;uniqueIndex:idx_attempt_student_session"`
	CurrentQuestion   int             `json:"current_question" gorm:"not null;default:0"` // 0-based index into the test's ordered questions
	StartedAt         time.Time       `json:"started_at" gorm:"not null"`
	Submitted         bool            `json:"submitted" gorm:"not null;default:false"`
	SubmittedAt       *time.Time      `json:"submitted_at,omitempty"`
	TotalTimeSpentSec int             `json:"total_time_spent_seconds" gorm:"default:0"`
	ResultReleasedAt  *time.Time      `json:"result_released_at,omitempty"`
	ReleasedByID      *uint           `json:"released_by_id,omitempty"`
	Answers           []StudentAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Released reports whether a teacher has released this attempt's result.
func (a *StudentAttempt) Released() bool {
	return a.ResultReleasedAt != nil
}
