package service

import "time"

// Clock supplies the canonical instant for every time-authority decision.
// All comparisons against session boundaries go through it; client-reported
// timestamps are never used for those decisions.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func NewSystemClock() Clock {
	return systemClock{}
}
