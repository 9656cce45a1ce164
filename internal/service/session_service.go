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

// SessionService is the teacher-facing management of scheduled sessions.
type SessionService interface {
	CreateSession(req dto.SessionCreateDTO) (*dto.SessionResponse, error)
	GetSession(sessionID, teacherID uint) (*dto.SessionResponse, error)
	ListSessions(teacherID uint) ([]dto.SessionResponse, error)
	CancelSession(sessionID, teacherID uint) error
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	testRepo    repository.TestRepository
	accessCodes AccessCodeService
	clock       Clock
	settings    config.SessionSettings
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	testRepo repository.TestRepository,
	accessCodes AccessCodeService,
	clock Clock,
	cfg *config.Config,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		testRepo:    testRepo,
		accessCodes: accessCodes,
		clock:       clock,
		settings:    cfg.Session,
	}
}

// CreateSession schedules a future offering of one of the teacher's own
// tests and assigns it a fresh access code.
func (s *sessionService) CreateSession(req dto.SessionCreateDTO) (*dto.SessionResponse, error) {
	test, err := s.testRepo.FindByID(req.TestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Uint("testID", req.TestID).Msg("CreateSession: failed to load test")
		return nil, fmt.Errorf("error loading test: %w", err)
	}
	if test.CreatedByID != req.TeacherID {
		return nil, ErrNotFound
	}

	startTime := req.StartTime.UTC()
	if !startTime.After(s.clock.Now()) {
		return nil, ErrStartTimeInPast
	}

	code, err := s.accessCodes.Generate()
	if err != nil {
		return nil, err
	}

	session := model.TestSession{
		TestID:      test.ID,
		Name:        req.Name,
		AccessCode:  code,
		StartTime:   startTime,
		CreatedByID: req.TeacherID,
		IsActive:    true,
	}
	if err := s.sessionRepo.Create(&session); err != nil {
		log.Error().Err(err).Uint("testID", test.ID).Msg("CreateSession: failed to create session")
		return nil, fmt.Errorf("error creating session: %w", err)
	}
	session.Test = *test

	log.Info().Uint("sessionID", session.ID).Uint("testID", test.ID).Str("code", code).
		Time("startTime", startTime).Msg("Session created")

	return s.sessionToResponse(&session), nil
}

func (s *sessionService) GetSession(sessionID, teacherID uint) (*dto.SessionResponse, error) {
	session, err := s.loadOwnedSession(sessionID, teacherID)
	if err != nil {
		return nil, err
	}
	return s.sessionToResponse(session), nil
}

func (s *sessionService) ListSessions(teacherID uint) ([]dto.SessionResponse, error) {
	sessions, err := s.sessionRepo.FindAllByCreator(teacherID)
	if err != nil {
		log.Error().Err(err).Uint("teacherID", teacherID).Msg("ListSessions: failed to load sessions")
		return nil, fmt.Errorf("error loading sessions: %w", err)
	}
	resp := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		resp = append(resp, *s.sessionToResponse(&sessions[i]))
	}
	return resp, nil
}

// CancelSession deactivates the session. Its access code immediately becomes
// available for reuse, and its status reads cancelled from here on.
func (s *sessionService) CancelSession(sessionID, teacherID uint) error {
	session, err := s.loadOwnedSession(sessionID, teacherID)
	if err != nil {
		return err
	}
	if !session.IsActive {
		return nil // already cancelled
	}
	session.IsActive = false
	if err := s.sessionRepo.Update(session); err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("CancelSession: failed to update session")
		return fmt.Errorf("error cancelling session: %w", err)
	}
	log.Info().Uint("sessionID", session.ID).Msg("Session cancelled")
	return nil
}

func (s *sessionService) loadOwnedSession(sessionID, teacherID uint) (*model.TestSession, error) {
	session, err := s.sessionRepo.FindByIDWithTest(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Uint("sessionID", sessionID).Msg("Failed to load session")
		return nil, fmt.Errorf("error loading session: %w", err)
	}
	if session.CreatedByID != teacherID {
		return nil, ErrNotFound
	}
	return session, nil
}

func (s *sessionService) sessionToResponse(session *model.TestSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:         session.ID,
		TestID:     session.TestID,
		TestTitle:  session.Test.Title,
		Name:       session.Name,
		AccessCode: session.AccessCode,
		StartTime:  session.StartTime,
		EndTime:    session.EndTime(),
		Status:     string(session.Status(s.clock.Now(), s.settings.JoinBuffer())),
		CreatedAt:  session.CreatedAt,
	}
}
