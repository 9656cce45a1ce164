package service

import (
	"sort"
	"time"

	"github.com/haduong/smartmcq/config"
	"github.com/haduong/smartmcq/internal/model"
	"gorm.io/gorm"
)

// In-memory repository fakes for service tests. They mimic the little
// behavior the services rely on: record-not-found errors, uniqueness of
// (student, session) attempts and the guarded finalize/release updates.

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func testConfig() *config.Config {
	return &config.Config{
		Session: config.SessionSettings{
			JoinBufferSeconds:      60,
			AutoSubmitGraceSeconds: 30,
		},
	}
}

type fakeSessionRepo struct {
	sessions map[uint]*model.TestSession
	nextID   uint
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uint]*model.TestSession), nextID: 1}
}

func (r *fakeSessionRepo) add(session *model.TestSession) *model.TestSession {
	if session.ID == 0 {
		session.ID = r.nextID
		r.nextID++
	}
	r.sessions[session.ID] = session
	return session
}

func (r *fakeSessionRepo) Create(session *model.TestSession) error {
	r.add(session)
	return nil
}

func (r *fakeSessionRepo) Update(session *model.TestSession) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) FindByID(id uint) (*model.TestSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) FindByIDWithTest(id uint) (*model.TestSession, error) {
	return r.FindByID(id)
}

func (r *fakeSessionRepo) FindActiveByCode(code string) (*model.TestSession, error) {
	for _, s := range r.sessions {
		if s.AccessCode == code && s.IsActive {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) ActiveCodeExists(code string) (bool, error) {
	_, err := r.FindActiveByCode(code)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeSessionRepo) FindAllByCreator(creatorID uint) ([]model.TestSession, error) {
	var out []model.TestSession
	for _, s := range r.sessions {
		if s.CreatedByID == creatorID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeAttemptRepo struct {
	attempts map[uint]*model.StudentAttempt
	nextID   uint
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{attempts: make(map[uint]*model.StudentAttempt), nextID: 1}
}

func (r *fakeAttemptRepo) add(attempt *model.StudentAttempt) *model.StudentAttempt {
	if attempt.ID == 0 {
		attempt.ID = r.nextID
		r.nextID++
	}
	r.attempts[attempt.ID] = attempt
	return attempt
}

func (r *fakeAttemptRepo) Create(attempt *model.StudentAttempt) error {
	for _, a := range r.attempts {
		if a.StudentID == attempt.StudentID && a.SessionID == attempt.SessionID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.add(attempt)
	return nil
}

func (r *fakeAttemptRepo) Update(attempt *model.StudentAttempt) error {
	r.attempts[attempt.ID] = attempt
	return nil
}

func (r *fakeAttemptRepo) FindByID(id uint) (*model.StudentAttempt, error) {
	a, ok := r.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeAttemptRepo) FindByIDWithSession(id uint) (*model.StudentAttempt, error) {
	return r.FindByID(id)
}

func (r *fakeAttemptRepo) FindByStudentAndSession(studentID, sessionID uint) (*model.StudentAttempt, error) {
	for _, a := range r.attempts {
		if a.StudentID == studentID && a.SessionID == sessionID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAttemptRepo) FindAllBySession(sessionID uint) ([]model.StudentAttempt, error) {
	var out []model.StudentAttempt
	for _, a := range r.attempts {
		if a.SessionID == sessionID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAttemptRepo) CountJoined(sessionID uint) (int64, error) {
	var count int64
	for _, a := range r.attempts {
		if a.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAttemptRepo) CountSubmitted(sessionID uint) (int64, error) {
	var count int64
	for _, a := range r.attempts {
		if a.SessionID == sessionID && a.Submitted {
			count++
		}
	}
	return count, nil
}

func (r *fakeAttemptRepo) FinalizeSubmission(id uint, submittedAt time.Time, totalTimeSpentSec int) (int64, error) {
	a, ok := r.attempts[id]
	if !ok || a.Submitted {
		return 0, nil
	}
	a.Submitted = true
	at := submittedAt
	a.SubmittedAt = &at
	a.TotalTimeSpentSec = totalTimeSpentSec
	return 1, nil
}

func (r *fakeAttemptRepo) ReleaseResult(id uint, releasedBy uint, releasedAt time.Time) (int64, error) {
	a, ok := r.attempts[id]
	if !ok || !a.Submitted || a.ResultReleasedAt != nil {
		return 0, nil
	}
	at := releasedAt
	by := releasedBy
	a.ResultReleasedAt = &at
	a.ReleasedByID = &by
	return 1, nil
}

type answerKey struct {
	attemptID  uint
	questionID uint
}

type fakeAnswerRepo struct {
	answers map[answerKey]*model.StudentAnswer
	nextID  uint
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{answers: make(map[answerKey]*model.StudentAnswer), nextID: 1}
}

func (r *fakeAnswerRepo) Upsert(answer *model.StudentAnswer) error {
	key := answerKey{answer.AttemptID, answer.QuestionID}
	if existing, ok := r.answers[key]; ok {
		existing.SelectedChoice = answer.SelectedChoice
		existing.IsCorrect = answer.IsCorrect
		existing.TimeSpentSec = answer.TimeSpentSec
		answer.ID = existing.ID
		return nil
	}
	answer.ID = r.nextID
	r.nextID++
	stored := *answer
	r.answers[key] = &stored
	return nil
}

func (r *fakeAnswerRepo) FindByAttempt(attemptID uint) ([]model.StudentAnswer, error) {
	var out []model.StudentAnswer
	for key, a := range r.answers {
		if key.attemptID == attemptID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (r *fakeAnswerRepo) CountByAttempt(attemptID uint) (int64, error) {
	var count int64
	for key := range r.answers {
		if key.attemptID == attemptID {
			count++
		}
	}
	return count, nil
}

type fakeTestRepo struct {
	tests  map[uint]*model.Test
	nextID uint
}

func newFakeTestRepo() *fakeTestRepo {
	return &fakeTestRepo{tests: make(map[uint]*model.Test), nextID: 1}
}

func (r *fakeTestRepo) add(test *model.Test) *model.Test {
	if test.ID == 0 {
		test.ID = r.nextID
		r.nextID++
	}
	r.tests[test.ID] = test
	return test
}

func (r *fakeTestRepo) Create(test *model.Test) error {
	r.add(test)
	return nil
}

func (r *fakeTestRepo) FindByID(id uint) (*model.Test, error) {
	t, ok := r.tests[id]
	if !ok || !t.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeTestRepo) FindByIDWithQuestions(id uint) (*model.Test, error) {
	return r.FindByID(id)
}

func (r *fakeTestRepo) FindAllByCreator(creatorID uint) ([]model.Test, error) {
	var out []model.Test
	for _, t := range r.tests {
		if t.CreatedByID == creatorID && t.IsActive {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTestRepo) Update(test *model.Test) error {
	r.tests[test.ID] = test
	return nil
}

type fakeQuestionRepo struct {
	questions map[uint]*model.Question
	nextID    uint
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[uint]*model.Question), nextID: 1}
}

func (r *fakeQuestionRepo) Create(question *model.Question) error {
	if question.ID == 0 {
		question.ID = r.nextID
		r.nextID++
	}
	r.questions[question.ID] = question
	return nil
}

func (r *fakeQuestionRepo) FindByIDWithChoices(id uint) (*model.Question, error) {
	q, ok := r.questions[id]
	if !ok || !q.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

func (r *fakeQuestionRepo) FindAllByCreator(creatorID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range r.questions {
		if q.CreatedByID == creatorID && q.IsActive {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) Update(question *model.Question) error {
	r.questions[question.ID] = question
	return nil
}

func (r *fakeQuestionRepo) Delete(id uint) error {
	if q, ok := r.questions[id]; ok {
		q.IsActive = false
	}
	return nil
}

// fourChoiceQuestion builds a question whose correct choice carries the given
// label.
func fourChoiceQuestion(id uint, correctLabel string) model.Question {
	q := model.Question{ID: id, Title: "q", IsActive: true}
	for _, label := range model.ValidChoiceLabels {
		q.Choices = append(q.Choices, model.Choice{
			QuestionID: id,
			Label:      label,
			Text:       "choice " + label,
			IsCorrect:  label == correctLabel,
		})
	}
	return q
}

// activeSession builds a session whose window contains now, with the given
// questions preloaded the way FindByIDWithSession would return them.
func activeSession(now time.Time, limitMinutes int, questions ...model.Question) *model.TestSession {
	return &model.TestSession{
		Test: model.Test{
			ID:               1,
			Title:            "Sample Test",
			TimeLimitMinutes: limitMinutes,
			ReleaseMode:      model.ReleaseImmediate,
			Questions:        questions,
			IsActive:         true,
		},
		TestID:      1,
		AccessCode:  "ABC123",
		StartTime:   now.Add(-5 * time.Minute),
		CreatedByID: 1,
		IsActive:    true,
	}
}
