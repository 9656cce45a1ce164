package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/haduong/smartmcq/config"
	"github.com/haduong/smartmcq/internal/dto"
	"github.com/haduong/smartmcq/internal/model"
	"github.com/haduong/smartmcq/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	DirectionNext     = "next"
	DirectionPrevious = "previous"

	// Per-question time reports outside [0, maxTimeSpentSeconds] are clamped
	// to zero rather than rejected, matching the clamp-don't-reject policy
	// for client-measured durations.
	maxTimeSpentSeconds = 3600
)

// AttemptService owns a student's progress through a session's test: joining,
// moving between questions and saving answers. Submission lives in
// SubmissionService.
type AttemptService interface {
	JoinSession(req dto.JoinSessionRequest) (*dto.AttemptResponse, error)
	GetCurrentQuestion(attemptID, studentID uint) (*dto.CurrentQuestionResponse, error)
	Navigate(attemptID uint, req dto.NavigateRequest) (*dto.AttemptResponse, error)
	SaveAnswer(attemptID uint, req dto.SaveAnswerRequest) (*dto.SaveAnswerResponse, error)
}

type attemptService struct {
	sessionRepo repository.SessionRepository
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository
	accessCodes AccessCodeService
	clock       Clock
	settings    config.SessionSettings
}

func NewAttemptService(
	sessionRepo repository.SessionRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	accessCodes AccessCodeService,
	clock Clock,
	cfg *config.Config,
) AttemptService {
	return &attemptService{
		sessionRepo: sessionRepo,
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		accessCodes: accessCodes,
		clock:       clock,
		settings:    cfg.Session,
	}
}

// JoinSession redeems an access code against an active session and creates
// the attempt. Each student may hold exactly one attempt per session.
func (s *attemptService) JoinSession(req dto.JoinSessionRequest) (*dto.AttemptResponse, error) {
	code := s.accessCodes.Normalize(req.AccessCode)
	if !s.accessCodes.ValidFormat(code) {
		return nil, ErrInvalidAccessCode
	}

	session, err := s.sessionRepo.FindActiveByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Str("code", code).Msg("JoinSession: failed to look up session by access code")
		return nil, fmt.Errorf("error looking up session: %w", err)
	}

	now := s.clock.Now()
	switch session.Status(now, s.settings.JoinBuffer()) {
	case model.SessionUpcoming:
		return nil, ErrSessionNotStarted
	case model.SessionExpired:
		return nil, ErrSessionExpired
	case model.SessionCancelled:
		return nil, ErrNotFound
	}

	if _, err := s.attemptRepo.FindByStudentAndSession(req.StudentID, session.ID); err == nil {
		return nil, ErrAlreadyJoined
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Uint("studentID", req.StudentID).Uint("sessionID", session.ID).Msg("JoinSession: failed to check existing attempt")
		return nil, fmt.Errorf("error checking existing attempt: %w", err)
	}

	attempt := model.StudentAttempt{
		SessionID:       session.ID,
		StudentID:       req.StudentID,
		CurrentQuestion: 0,
		StartedAt:       now,
	}
	if err := s.attemptRepo.Create(&attempt); err != nil {
		// The unique (student, session) index closes the race between two
		// concurrent joins; the loser surfaces as already joined.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyJoined
		}
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("JoinSession: failed to create attempt")
		return nil, fmt.Errorf("error creating attempt: %w", err)
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("studentID", req.StudentID).
		Uint("sessionID", session.ID).Str("code", code).Msg("Student joined session")

	return attemptToResponse(&attempt), nil
}

// GetCurrentQuestion returns the question at the attempt's current index,
// stripped of correctness flags, plus progress and remaining time.
func (s *attemptService) GetCurrentQuestion(attemptID, studentID uint) (*dto.CurrentQuestionResponse, error) {
	attempt, err := s.loadOwnedAttempt(attemptID, studentID)
	if err != nil {
		return nil, err
	}

	questions := attempt.Session.Test.Questions
	total := len(questions)

	answered, err := s.answerRepo.CountByAttempt(attempt.ID)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("GetCurrentQuestion: failed to count answers")
		return nil, fmt.Errorf("error counting answers: %w", err)
	}

	resp := dto.CurrentQuestionResponse{
		TotalQuestions:     total,
		AnsweredCount:      int(answered),
		ProgressPercentage: ProgressPercentage(int(answered), total),
		RemainingSeconds:   attempt.Session.RemainingSeconds(s.clock.Now()),
	}
	if total == 0 || attempt.CurrentQuestion >= total {
		return &resp, nil
	}

	question := questions[attempt.CurrentQuestion]
	view := dto.QuestionViewDTO{}
	copier.Copy(&view, &question)
	view.Choices = make([]dto.ChoiceViewDTO, 0, len(question.Choices))
	for _, c := range question.Choices {
		view.Choices = append(view.Choices, dto.ChoiceViewDTO{Label: c.Label, Text: c.Text})
	}
	resp.Question = &view
	resp.QuestionNumber = attempt.CurrentQuestion + 1
	return &resp, nil
}

// Navigate moves the current-question pointer. Out-of-range moves are no-ops;
// navigation after submission is an error, not a silent skip.
func (s *attemptService) Navigate(attemptID uint, req dto.NavigateRequest) (*dto.AttemptResponse, error) {
	attempt, err := s.loadOwnedAttempt(attemptID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if attempt.Submitted {
		return nil, ErrAlreadySubmitted
	}

	total := len(attempt.Session.Test.Questions)
	switch req.Direction {
	case DirectionNext:
		if attempt.CurrentQuestion < total-1 {
			attempt.CurrentQuestion++
		}
	case DirectionPrevious:
		if attempt.CurrentQuestion > 0 {
			attempt.CurrentQuestion--
		}
	default:
		return nil, ErrInvalidDirection
	}

	if err := s.attemptRepo.Update(attempt); err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("Navigate: failed to persist question index")
		return nil, fmt.Errorf("error updating attempt: %w", err)
	}
	return attemptToResponse(attempt), nil
}

// SaveAnswer upserts the answer for (attempt, question). Saving stays allowed
// through the expired window so in-flight answers are not lost while an
// auto-submit is racing in, but a submitted attempt rejects all writes.
func (s *attemptService) SaveAnswer(attemptID uint, req dto.SaveAnswerRequest) (*dto.SaveAnswerResponse, error) {
	attempt, err := s.loadOwnedAttempt(attemptID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if attempt.Submitted {
		return nil, ErrAlreadySubmitted
	}

	switch attempt.Session.Status(s.clock.Now(), s.settings.JoinBuffer()) {
	case model.SessionUpcoming:
		return nil, ErrSessionNotStarted
	case model.SessionCancelled:
		return nil, ErrSessionCancelled
	}

	choice := strings.ToUpper(strings.TrimSpace(req.SelectedChoice))
	if !model.IsValidChoiceLabel(choice) {
		return nil, ErrInvalidChoice
	}

	var question *model.Question
	for i := range attempt.Session.Test.Questions {
		if attempt.Session.Test.Questions[i].ID == req.QuestionID {
			question = &attempt.Session.Test.Questions[i]
			break
		}
	}
	if question == nil {
		return nil, ErrNotFound
	}

	timeSpent := req.TimeSpentSeconds
	if timeSpent < 0 || timeSpent > maxTimeSpentSeconds {
		log.Warn().Int("timeSpentSeconds", req.TimeSpentSeconds).Uint("attemptID", attempt.ID).
			Uint("questionID", question.ID).Msg("SaveAnswer: out-of-range time report clamped to zero")
		timeSpent = 0
	}

	// Correctness always comes from the stored correct choice, whatever the
	// client asserts.
	correct := question.CorrectChoice()
	isCorrect := correct != nil && correct.Label == choice

	answer := model.StudentAnswer{
		AttemptID:      attempt.ID,
		QuestionID:     question.ID,
		SelectedChoice: choice,
		IsCorrect:      isCorrect,
		TimeSpentSec:   timeSpent,
	}
	if err := s.answerRepo.Upsert(&answer); err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Uint("questionID", question.ID).Msg("SaveAnswer: upsert failed")
		return nil, fmt.Errorf("error saving answer: %w", err)
	}

	answered, err := s.answerRepo.CountByAttempt(attempt.ID)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("SaveAnswer: failed to count answers")
		return nil, fmt.Errorf("error counting answers: %w", err)
	}

	total := len(attempt.Session.Test.Questions)
	return &dto.SaveAnswerResponse{
		QuestionID:         question.ID,
		IsCorrect:          isCorrect,
		AnsweredCount:      int(answered),
		TotalQuestions:     total,
		ProgressPercentage: ProgressPercentage(int(answered), total),
	}, nil
}

// loadOwnedAttempt fetches the attempt with its session, test and questions,
// and verifies the caller owns it.
func (s *attemptService) loadOwnedAttempt(attemptID, studentID uint) (*model.StudentAttempt, error) {
	attempt, err := s.attemptRepo.FindByIDWithSession(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to load attempt")
		return nil, fmt.Errorf("error loading attempt: %w", err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrAccessDenied
	}
	return attempt, nil
}

func attemptToResponse(attempt *model.StudentAttempt) *dto.AttemptResponse {
	return &dto.AttemptResponse{
		ID:                    attempt.ID,
		SessionID:             attempt.SessionID,
		StudentID:             attempt.StudentID,
		CurrentQuestion:       attempt.CurrentQuestion,
		StartedAt:             attempt.StartedAt,
		Submitted:             attempt.Submitted,
		SubmittedAt:           attempt.SubmittedAt,
		TotalTimeSpentSeconds: attempt.TotalTimeSpentSec,
	}
}
