package model

import (
	"time"

	"gorm.io/gorm"
)

// SessionStatus is always derived from the clock, never stored.
type SessionStatus string

const (
	SessionUpcoming  SessionStatus = "upcoming"
	SessionActive    SessionStatus = "active"
	SessionExpired   SessionStatus = "expired"
	SessionCancelled SessionStatus = "cancelled"
)

const AccessCodeLength = 6

// TestSession is one scheduled, access-code-gated offering of a test.
type TestSession struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	TestID      uint           `json:"test_id" gorm:"not null;index"`
	Test        Test           `json:"test,omitempty" gorm:"foreignKey:TestID"`
	Name        string         `json:"name,omitempty" gorm:"size:200"`
	AccessCode  string         `json:"access_code" gorm:"size:6;not null;index"`
	StartTime   time.Time      `json:"start_time" gorm:"not null"`
	CreatedByID uint           `json:"created_by_id" gorm:"index"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// EndTime is the scoring boundary: start plus the test's time limit. The
// session must be loaded with its Test. Time-spent accounting and the
// auto-submit lower bound always use this instant, never the buffered one.
func (s *TestSession) EndTime() time.Time {
	return s.StartTime.Add(s.Test.Duration())
}

// Status derives the session state at a given instant. The buffer widens the
// active window past EndTime so in-flight answer saves and submits near the
// deadline are not rejected; it never extends scoring.
//
// Cancelled is terminal and overrides everything else.
func (s *TestSession) Status(now time.Time, buffer time.Duration) SessionStatus {
	if !s.IsActive {
		return SessionCancelled
	}
	end := s.EndTime().Add(buffer)
	switch {
	case now.After(end):
		return SessionExpired
	case now.Before(s.StartTime):
		return SessionUpcoming
	default:
		return SessionActive
	}
}

// RemainingSeconds is the whole seconds left until the scoring boundary,
// never negative.
func (s *TestSession) RemainingSeconds(now time.Time) int {
	remaining := s.EndTime().Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds())
}
