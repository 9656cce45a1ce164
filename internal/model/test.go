package model

import (
	"time"

	"gorm.io/gorm"
)

// ReleaseMode controls when a submitted attempt's results become visible to
// the student who owns it.
type ReleaseMode string

const (
	ReleaseImmediate        ReleaseMode = "immediate"
	ReleaseManual           ReleaseMode = "manual"
	ReleaseScheduled        ReleaseMode = "scheduled"
	ReleaseAfterAllComplete ReleaseMode = "after_all_complete"
)

func (m ReleaseMode) Valid() bool {
	switch m {
	case ReleaseImmediate, ReleaseManual, ReleaseScheduled, ReleaseAfterAllComplete:
		return true
	}
	return false
}

const DefaultTimeLimitMinutes = 60

type Test struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	Title              string         `json:"title" gorm:"size:200;not null"`
	Description        string         `json:"description,omitempty" gorm:"type:text"`
	Category           string         `json:"category,omitempty" gorm:"size:100"`
	TimeLimitMinutes   int            `json:"time_limit_minutes" gorm:"not null;default:60"`
	ReleaseMode        ReleaseMode    `json:"release_mode" gorm:"size:20;not null;default:'immediate'"`
	ScheduledReleaseAt *time.Time     `json:"scheduled_release_at,omitempty"`
	IsPractice         bool           `json:"is_practice" gorm:"default:false"`
	Questions          []Question     `json:"questions,omitempty" gorm:"many2many:test_questions;"`
	CreatedByID        uint           `json:"created_by_id" gorm:"index"`
	IsActive           bool           `json:"is_active" gorm:"default:true"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// Duration is the test's time limit as a duration.
func (t *Test) Duration() time.Duration {
	return time.Duration(t.TimeLimitMinutes) * time.Minute
}
