package service

import (
	"errors"
	"fmt"

	"github.com/haduong/smartmcq/internal/dto"
	"github.com/haduong/smartmcq/internal/model"
	"github.com/haduong/smartmcq/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// TestService covers the teacher's authoring surface: creating tests with
// their questions and choices, managing the standalone question bank, and
// listing what they own. Bulk import and richer editing live outside the core.
type TestService interface {
	CreateTest(req dto.TestCreateDTO) (*dto.TestResponse, error)
	GetTest(testID, teacherID uint) (*dto.TestResponse, error)
	ListTests(teacherID uint) ([]dto.TestResponse, error)
	CreateQuestion(req dto.QuestionBankCreateDTO) (*dto.QuestionResponse, error)
	ListQuestions(teacherID uint) ([]dto.QuestionResponse, error)
	DeleteQuestion(questionID, teacherID uint) error
}

type testService struct {
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
}

func NewTestService(testRepo repository.TestRepository, questionRepo repository.QuestionRepository) TestService {
	return &testService{testRepo: testRepo, questionRepo: questionRepo}
}

// CreateTest validates that every question carries the full A-D label set
// with exactly one correct choice, then creates the test with its questions
// in one go.
func (s *testService) CreateTest(req dto.TestCreateDTO) (*dto.TestResponse, error) {
	releaseMode := model.ReleaseMode(req.ReleaseMode)
	if req.ReleaseMode == "" {
		releaseMode = model.ReleaseImmediate
	}
	if !releaseMode.Valid() {
		return nil, ErrInvalidReleaseMode
	}
	if releaseMode == model.ReleaseScheduled && req.ScheduledReleaseAt == nil {
		return nil, fmt.Errorf("scheduled release mode requires a scheduled_release_at timestamp")
	}

	timeLimit := req.TimeLimitMinutes
	if timeLimit == 0 {
		timeLimit = model.DefaultTimeLimitMinutes
	}

	var questions []model.Question
	for i, qDto := range req.Questions {
		if err := validateChoices(qDto.Choices); err != nil {
			return nil, fmt.Errorf("question %d (%q): %w", i+1, qDto.Title, err)
		}
		var question model.Question
		copier.Copy(&question, &qDto)
		if question.Difficulty == "" {
			question.Difficulty = "medium"
		}
		question.CreatedByID = req.TeacherID
		question.IsActive = true
		questions = append(questions, question)
	}

	test := model.Test{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		TimeLimitMinutes:   timeLimit,
		ReleaseMode:        releaseMode,
		ScheduledReleaseAt: req.ScheduledReleaseAt,
		IsPractice:         req.IsPractice,
		Questions:          questions,
		CreatedByID:        req.TeacherID,
		IsActive:           true,
	}
	if err := s.testRepo.Create(&test); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("CreateTest: failed to create test")
		return nil, fmt.Errorf("error creating test: %w", err)
	}

	log.Info().Uint("testID", test.ID).Int("questions", len(questions)).Msg("Test created")
	return testToResponse(&test), nil
}

func (s *testService) GetTest(testID, teacherID uint) (*dto.TestResponse, error) {
	test, err := s.testRepo.FindByIDWithQuestions(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Uint("testID", testID).Msg("GetTest: failed to load test")
		return nil, fmt.Errorf("error loading test: %w", err)
	}
	if test.CreatedByID != teacherID {
		return nil, ErrNotFound
	}
	return testToResponse(test), nil
}

func (s *testService) ListTests(teacherID uint) ([]dto.TestResponse, error) {
	tests, err := s.testRepo.FindAllByCreator(teacherID)
	if err != nil {
		log.Error().Err(err).Uint("teacherID", teacherID).Msg("ListTests: failed to load tests")
		return nil, fmt.Errorf("error loading tests: %w", err)
	}
	resp := make([]dto.TestResponse, 0, len(tests))
	for i := range tests {
		resp = append(resp, *testToResponse(&tests[i]))
	}
	return resp, nil
}

// CreateQuestion adds a standalone question to the teacher's bank, subject to
// the same choice validation as questions created inside a test.
func (s *testService) CreateQuestion(req dto.QuestionBankCreateDTO) (*dto.QuestionResponse, error) {
	if err := validateChoices(req.Choices); err != nil {
		return nil, err
	}
	var question model.Question
	copier.Copy(&question, &req.QuestionCreateDTO)
	if question.Difficulty == "" {
		question.Difficulty = "medium"
	}
	question.CreatedByID = req.TeacherID
	question.IsActive = true

	if err := s.questionRepo.Create(&question); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("CreateQuestion: failed to create question")
		return nil, fmt.Errorf("error creating question: %w", err)
	}
	log.Info().Uint("questionID", question.ID).Msg("Question created")
	return questionToResponse(&question), nil
}

func (s *testService) ListQuestions(teacherID uint) ([]dto.QuestionResponse, error) {
	questions, err := s.questionRepo.FindAllByCreator(teacherID)
	if err != nil {
		log.Error().Err(err).Uint("teacherID", teacherID).Msg("ListQuestions: failed to load questions")
		return nil, fmt.Errorf("error loading questions: %w", err)
	}
	resp := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		resp = append(resp, *questionToResponse(&questions[i]))
	}
	return resp, nil
}

// DeleteQuestion retires a question from the bank. Tests that already embed
// it keep it; only the standalone listing forgets it.
func (s *testService) DeleteQuestion(questionID, teacherID uint) error {
	question, err := s.questionRepo.FindByIDWithChoices(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Uint("questionID", questionID).Msg("DeleteQuestion: failed to load question")
		return fmt.Errorf("error loading question: %w", err)
	}
	if question.CreatedByID != teacherID {
		return ErrNotFound
	}
	if err := s.questionRepo.Delete(question.ID); err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("DeleteQuestion: failed to delete question")
		return fmt.Errorf("error deleting question: %w", err)
	}
	log.Info().Uint("questionID", question.ID).Msg("Question deleted")
	return nil
}

// validateChoices enforces the fixed shape of an MCQ question: the label set
// is exactly {A,B,C,D} and exactly one choice is correct.
func validateChoices(choices []dto.ChoiceCreateDTO) error {
	if len(choices) != model.ChoicesPerQuestion {
		return fmt.Errorf("expected %d choices, got %d", model.ChoicesPerQuestion, len(choices))
	}
	seen := make(map[string]bool, len(choices))
	correctCount := 0
	for _, c := range choices {
		if !model.IsValidChoiceLabel(c.Label) {
			return fmt.Errorf("invalid choice label %q", c.Label)
		}
		if seen[c.Label] {
			return fmt.Errorf("duplicate choice label %q", c.Label)
		}
		seen[c.Label] = true
		if c.IsCorrect {
			correctCount++
		}
	}
	if correctCount != 1 {
		return fmt.Errorf("exactly one choice must be correct, got %d", correctCount)
	}
	return nil
}

func questionToResponse(question *model.Question) *dto.QuestionResponse {
	var resp dto.QuestionResponse
	copier.Copy(&resp, question)
	return &resp
}

func testToResponse(test *model.Test) *dto.TestResponse {
	var resp dto.TestResponse
	copier.Copy(&resp, test)
	resp.ReleaseMode = string(test.ReleaseMode)
	return &resp
}
