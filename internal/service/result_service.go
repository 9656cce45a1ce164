package service

import (
	"errors"
	"fmt"

	"github.com/haduong/smartmcq/config"
	"github.com/haduong/smartmcq/internal/dto"
	"github.com/haduong/smartmcq/internal/model"
	"github.com/haduong/smartmcq/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ResultService gates result visibility by the test's release mode and lets
// teachers release results, singly or in bulk.
type ResultService interface {
	CanViewResults(attemptID, studentID uint) (*dto.CanViewResultsResponse, error)
	GetAttemptResult(attemptID, studentID uint) (*dto.AttemptResultResponse, error)
	ReleaseResult(attemptID, teacherID uint) error
	BulkRelease(req dto.BulkReleaseRequest) (*dto.BulkReleaseResponse, error)
	SessionResults(sessionID, teacherID uint) (*dto.SessionResultsResponse, error)
}

type resultService struct {
	sessionRepo repository.SessionRepository
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository
	clock       Clock
	settings    config.SessionSettings
}

func NewResultService(
	sessionRepo repository.SessionRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	clock Clock,
	cfg *config.Config,
) ResultService {
	return &resultService{
		sessionRepo: sessionRepo,
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		clock:       clock,
		settings:    cfg.Session,
	}
}

// CanViewResults applies the release policy for the attempt's owner.
func (s *resultService) CanViewResults(attemptID, studentID uint) (*dto.CanViewResultsResponse, error) {
	attempt, err := s.loadAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, ErrAccessDenied
	}
	canView, err := s.canView(attempt)
	if err != nil {
		return nil, err
	}
	return &dto.CanViewResultsResponse{AttemptID: attempt.ID, CanView: canView}, nil
}

// canView implements the policy. Nothing is visible before submission, and
// nothing before the test's scheduled end: a fast finisher must not leak
// answers while the session is still running for everyone else.
func (s *resultService) canView(attempt *model.StudentAttempt) (bool, error) {
	if !attempt.Submitted {
		return false, nil
	}
	now := s.clock.Now()
	if now.Before(attempt.Session.EndTime()) {
		return false, nil
	}

	test := &attempt.Session.Test
	switch test.ReleaseMode {
	case model.ReleaseImmediate:
		return true, nil
	case model.ReleaseManual:
		return attempt.Released(), nil
	case model.ReleaseScheduled:
		if test.ScheduledReleaseAt != nil && !now.Before(*test.ScheduledReleaseAt) {
			return true, nil
		}
		// A teacher may still release ahead of schedule.
		return attempt.Released(), nil
	case model.ReleaseAfterAllComplete:
		joined, err := s.attemptRepo.CountJoined(attempt.SessionID)
		if err != nil {
			return false, fmt.Errorf("error counting joined attempts: %w", err)
		}
		submitted, err := s.attemptRepo.CountSubmitted(attempt.SessionID)
		if err != nil {
			return false, fmt.Errorf("error counting submitted attempts: %w", err)
		}
		return submitted >= joined, nil
	default:
		return false, ErrInvalidReleaseMode
	}
}

// GetAttemptResult returns the full scored review for the attempt's owner,
// gated by the release policy.
func (s *resultService) GetAttemptResult(attemptID, studentID uint) (*dto.AttemptResultResponse, error) {
	attempt, err := s.loadAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, ErrAccessDenied
	}
	if !attempt.Submitted {
		return nil, ErrNotSubmitted
	}
	canView, err := s.canView(attempt)
	if err != nil {
		return nil, err
	}
	if !canView {
		return nil, ErrResultsNotVisible
	}

	answers, err := s.answerRepo.FindByAttempt(attempt.ID)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("GetAttemptResult: failed to load answers")
		return nil, fmt.Errorf("error loading answers: %w", err)
	}

	questions := attempt.Session.Test.Questions
	summary := Summarize(answers, len(questions))

	answerByQuestion := make(map[uint]model.StudentAnswer, len(answers))
	for _, a := range answers {
		answerByQuestion[a.QuestionID] = a
	}

	reviews := make([]dto.AnswerReviewDTO, 0, len(questions))
	for _, q := range questions {
		review := dto.AnswerReviewDTO{QuestionID: q.ID, QuestionTitle: q.Title}
		if correct := q.CorrectChoice(); correct != nil {
			review.CorrectChoice = correct.Label
		}
		if a, ok := answerByQuestion[q.ID]; ok {
			review.SelectedChoice = a.SelectedChoice
			review.IsCorrect = a.IsCorrect
			review.TimeSpentSeconds = a.TimeSpentSec
		}
		reviews = append(reviews, review)
	}

	return &dto.AttemptResultResponse{
		AttemptID:        attempt.ID,
		TestTitle:        attempt.Session.Test.Title,
		ScorePercentage:  summary.ScorePercentage,
		CorrectCount:     summary.CorrectCount,
		TotalQuestions:   summary.TotalQuestions,
		TimeSpentSeconds: attempt.TotalTimeSpentSec,
		Passed:           summary.Passed,
		SubmittedAt:      attempt.SubmittedAt,
		ReleasedAt:       attempt.ResultReleasedAt,
		Answers:          reviews,
	}, nil
}

// ReleaseResult marks a submitted attempt's result visible, recording who
// released it and when. Only the session's creator may release.
func (s *resultService) ReleaseResult(attemptID, teacherID uint) error {
	attempt, err := s.loadAttempt(attemptID)
	if err != nil {
		return err
	}
	if attempt.Session.CreatedByID != teacherID {
		return ErrAccessDenied
	}
	if !attempt.Submitted {
		return ErrNotSubmitted
	}
	if attempt.Released() {
		return ErrAlreadyReleased
	}

	rows, err := s.attemptRepo.ReleaseResult(attempt.ID, teacherID, s.clock.Now())
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("ReleaseResult: failed to release")
		return fmt.Errorf("error releasing result: %w", err)
	}
	if rows == 0 {
		return ErrAlreadyReleased
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("teacherID", teacherID).Msg("Result released")
	return nil
}

// BulkRelease releases every eligible attempt in the set independently.
// Unsubmitted, already-released and foreign attempts are skipped; a skip
// never aborts the batch.
func (s *resultService) BulkRelease(req dto.BulkReleaseRequest) (*dto.BulkReleaseResponse, error) {
	resp := &dto.BulkReleaseResponse{
		ReleasedIDs: make([]uint, 0, len(req.AttemptIDs)),
		SkippedIDs:  make([]uint, 0),
	}
	for _, id := range req.AttemptIDs {
		if err := s.ReleaseResult(id, req.TeacherID); err != nil {
			log.Warn().Err(err).Uint("attemptID", id).Uint("teacherID", req.TeacherID).Msg("BulkRelease: attempt skipped")
			resp.SkippedIDs = append(resp.SkippedIDs, id)
			continue
		}
		resp.ReleasedIDs = append(resp.ReleasedIDs, id)
	}
	return resp, nil
}

// SessionResults is the teacher's view of a session: every attempt with
// progress and score.
func (s *resultService) SessionResults(sessionID, teacherID uint) (*dto.SessionResultsResponse, error) {
	session, err := s.sessionRepo.FindByIDWithTest(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Uint("sessionID", sessionID).Msg("SessionResults: failed to load session")
		return nil, fmt.Errorf("error loading session: %w", err)
	}
	if session.CreatedByID != teacherID {
		return nil, ErrAccessDenied
	}

	attempts, err := s.attemptRepo.FindAllBySession(session.ID)
	if err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("SessionResults: failed to load attempts")
		return nil, fmt.Errorf("error loading attempts: %w", err)
	}

	total := len(session.Test.Questions)
	summaries := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	var submittedCount int64
	for _, attempt := range attempts {
		if attempt.Submitted {
			submittedCount++
		}
		summary := Summarize(attempt.Answers, total)
		summaries = append(summaries, dto.AttemptSummaryDTO{
			AttemptID:          attempt.ID,
			StudentID:          attempt.StudentID,
			Submitted:          attempt.Submitted,
			SubmittedAt:        attempt.SubmittedAt,
			ScorePercentage:    summary.ScorePercentage,
			CorrectCount:       summary.CorrectCount,
			AnsweredCount:      summary.AnsweredCount,
			TotalQuestions:     total,
			ProgressPercentage: ProgressPercentage(summary.AnsweredCount, total),
			Released:           attempt.Released(),
		})
	}

	return &dto.SessionResultsResponse{
		SessionID:      session.ID,
		TestTitle:      session.Test.Title,
		Status:         string(session.Status(s.clock.Now(), s.settings.JoinBuffer())),
		JoinedCount:    int64(len(attempts)),
		SubmittedCount: submittedCount,
		Attempts:       summaries,
	}, nil
}

func (s *resultService) loadAttempt(attemptID uint) (*model.StudentAttempt, error) {
	attempt, err := s.attemptRepo.FindByIDWithSession(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to load attempt")
		return nil, fmt.Errorf("error loading attempt: %w", err)
	}
	return attempt, nil
}
