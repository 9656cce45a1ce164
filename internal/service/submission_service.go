package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/haduong/smartmcq/config"
	"github.com/haduong/smartmcq/internal/dto"
	"github.com/haduong/smartmcq/internal/model"
	"github.com/haduong/smartmcq/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	TriggerManual = "manual"
	TriggerAuto   = "auto"

	TimingOnTime      = "on_time"
	TimingWithinGrace = "within_grace"
	TimingLate        = "late"
)

// SubmissionService finalizes attempts. Submission is the single irreversible
// transition of an attempt; the guarded flag update in the repository ensures
// exactly one of any concurrent manual/auto pair wins.
type SubmissionService interface {
	Submit(attemptID uint, req dto.SubmitRequest) (*dto.SubmitResultResponse, error)
}

type submissionService struct {
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository
	clock       Clock
	settings    config.SessionSettings
}

func NewSubmissionService(
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	clock Clock,
	cfg *config.Config,
) SubmissionService {
	return &submissionService{
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		clock:       clock,
		settings:    cfg.Session,
	}
}

// Submit finalizes the attempt and computes its score.
//
// Manual submits require the session to still be active (the buffered window,
// so a submit that lands seconds past the deadline is accepted). Auto submits
// require the scoring boundary to have passed on the server clock; the client
// only ever requests, never decides. Either way, the submitted-at instant and
// the time-spent total come from the server clock, capped at the unbuffered
// boundary.
func (s *submissionService) Submit(attemptID uint, req dto.SubmitRequest) (*dto.SubmitResultResponse, error) {
	trigger := req.Trigger
	if trigger == "" {
		trigger = TriggerManual
	}

	attempt, err := s.attemptRepo.FindByIDWithSession(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Submit: failed to load attempt")
		return nil, fmt.Errorf("error loading attempt: %w", err)
	}
	if attempt.StudentID != req.StudentID {
		return nil, ErrAccessDenied
	}
	if attempt.Submitted {
		return nil, ErrAlreadySubmitted
	}

	now := s.clock.Now()
	session := &attempt.Session
	end := session.EndTime()
	timing := TimingOnTime

	switch trigger {
	case TriggerManual:
		switch session.Status(now, s.settings.JoinBuffer()) {
		case model.SessionUpcoming:
			return nil, ErrSessionNotStarted
		case model.SessionExpired:
			return nil, ErrSessionExpired
		case model.SessionCancelled:
			return nil, ErrSessionCancelled
		}
	case TriggerAuto:
		if !session.IsActive {
			return nil, ErrSessionCancelled
		}
		if now.Before(end) {
			// Hard block: a fast client clock must never finalize early.
			remaining := int(math.Ceil(end.Sub(now).Seconds()))
			return nil, &NotExpiredYetError{RemainingSeconds: remaining}
		}
		if now.After(end.Add(s.settings.AutoSubmitGrace())) {
			timing = TimingLate
			log.Warn().Uint("attemptID", attempt.ID).Time("endTime", end).Time("now", now).
				Msg("Submit: auto-submit arrived past the grace window")
		} else {
			timing = TimingWithinGrace
		}
	default:
		return nil, fmt.Errorf("unknown submit trigger %q", trigger)
	}

	// Time spent is measured against the unbuffered boundary: neither the
	// join buffer nor auto-submit lateness inflates it.
	effective := now
	if effective.After(end) {
		effective = end
	}
	totalTime := int(effective.Sub(attempt.StartedAt).Seconds())
	if totalTime < 0 {
		totalTime = 0
	}

	rows, err := s.attemptRepo.FinalizeSubmission(attempt.ID, now, totalTime)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("Submit: failed to finalize attempt")
		return nil, fmt.Errorf("error finalizing submission: %w", err)
	}
	if rows == 0 {
		// A concurrent request flipped the flag first.
		return nil, ErrAlreadySubmitted
	}

	answers, err := s.answerRepo.FindByAttempt(attempt.ID)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("Submit: failed to load answers for scoring")
		return nil, fmt.Errorf("error loading answers: %w", err)
	}
	summary := Summarize(answers, len(session.Test.Questions))

	log.Info().Uint("attemptID", attempt.ID).Str("trigger", trigger).Str("timing", timing).
		Int("scorePercentage", summary.ScorePercentage).Int("correctCount", summary.CorrectCount).
		Int("totalQuestions", summary.TotalQuestions).Int("timeSpentSeconds", totalTime).
		Msg("Attempt submitted")

	return &dto.SubmitResultResponse{
		AttemptID:        attempt.ID,
		ScorePercentage:  summary.ScorePercentage,
		CorrectCount:     summary.CorrectCount,
		TotalQuestions:   summary.TotalQuestions,
		TimeSpentSeconds: totalTime,
		Passed:           summary.Passed,
		Trigger:          trigger,
		Timing:           timing,
		SubmittedAt:      &now,
	}, nil
}
