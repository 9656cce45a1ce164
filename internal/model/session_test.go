package model

import (
	"testing"
	"time"
)

func newSession(start time.Time, limitMinutes int, active bool) TestSession {
	return TestSession{
		Test:      Test{TimeLimitMinutes: limitMinutes},
		StartTime: start,
		IsActive:  active,
	}
}

func TestSessionStatus(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	buffer := 60 * time.Second
	session := newSession(start, 30, true)
	end := start.Add(30 * time.Minute)

	tests := []struct {
		name string
		now  time.Time
		want SessionStatus
	}{
		{"well before start", start.Add(-time.Hour), SessionUpcoming},
		{"one second before start", start.Add(-time.Second), SessionUpcoming},
		{"exactly at start", start, SessionActive},
		{"mid window", start.Add(15 * time.Minute), SessionActive},
		{"exactly at end", end, SessionActive},
		{"inside the buffer", end.Add(30 * time.Second), SessionActive},
		{"exactly at buffered end", end.Add(buffer), SessionActive},
		{"past the buffered end", end.Add(buffer + time.Second), SessionExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := session.Status(tt.now, buffer); got != tt.want {
				t.Errorf("Status(%v) = %q, want %q", tt.now, got, tt.want)
			}
		})
	}
}

func TestSessionStatusCancelledOverridesClock(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	session := newSession(start, 30, false)

	for _, now := range []time.Time{
		start.Add(-time.Hour),
		start.Add(15 * time.Minute),
		start.Add(24 * time.Hour),
	} {
		if got := session.Status(now, time.Minute); got != SessionCancelled {
			t.Errorf("Status(%v) = %q, want %q", now, got, SessionCancelled)
		}
	}
}

func TestSessionEndTimeIgnoresBuffer(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	session := newSession(start, 45, true)

	want := start.Add(45 * time.Minute)
	if got := session.EndTime(); !got.Equal(want) {
		t.Errorf("EndTime() = %v, want %v", got, want)
	}
}

func TestSessionRemainingSeconds(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	session := newSession(start, 30, true)
	end := start.Add(30 * time.Minute)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"at start", start, 1800},
		{"mid window", start.Add(10 * time.Minute), 1200},
		{"at end", end, 0},
		{"past end never negative", end.Add(5 * time.Minute), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := session.RemainingSeconds(tt.now); got != tt.want {
				t.Errorf("RemainingSeconds(%v) = %d, want %d", tt.now, got, tt.want)
			}
		})
	}
}

func TestQuestionCorrectChoice(t *testing.T) {
	q := Question{Choices: []Choice{
		{Label: ChoiceA, IsCorrect: false},
		{Label: ChoiceB, IsCorrect: true},
		{Label: ChoiceC, IsCorrect: false},
		{Label: ChoiceD, IsCorrect: false},
	}}
	correct := q.CorrectChoice()
	if correct == nil || correct.Label != ChoiceB {
		t.Fatalf("CorrectChoice() = %v, want label B", correct)
	}

	empty := Question{}
	if empty.CorrectChoice() != nil {
		t.Error("CorrectChoice() on a question without loaded choices should be nil")
	}
}

func TestReleaseModeValid(t *testing.T) {
	for _, mode := range []ReleaseMode{ReleaseImmediate, ReleaseManual, ReleaseScheduled, ReleaseAfterAllComplete} {
		if !mode.Valid() {
			t.Errorf("ReleaseMode %q should be valid", mode)
		}
	}
	if ReleaseMode("whenever").Valid() {
		t.Error("unknown release mode should be invalid")
	}
}
