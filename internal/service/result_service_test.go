package service

import (
	"errors"
	"testing"
	"time"

	"github.com/haduong/smartmcq/internal/dto"
	"github.com/haduong/smartmcq/internal/model"
)

type resultFixture struct {
	sessionRepo *fakeSessionRepo
	attemptRepo *fakeAttemptRepo
	answerRepo  *fakeAnswerRepo
	clock       *fixedClock
	svc         ResultService
}

func newResultFixture(now time.Time) *resultFixture {
	f := &resultFixture{
		sessionRepo: newFakeSessionRepo(),
		attemptRepo: newFakeAttemptRepo(),
		answerRepo:  newFakeAnswerRepo(),
		clock:       &fixedClock{now: now},
	}
	f.svc = NewResultService(f.sessionRepo, f.attemptRepo, f.answerRepo, f.clock, testConfig())
	return f
}

// endedSession builds a session whose 30-minute window closed endedAgo before
// now, under the given release mode.
func endedSession(now time.Time, endedAgo time.Duration, mode model.ReleaseMode) *model.TestSession {
	session := activeSession(now, 30,
		fourChoiceQuestion(1, model.ChoiceA),
		fourChoiceQuestion(2, model.ChoiceB),
	)
	session.Test.ReleaseMode = mode
	session.StartTime = now.Add(-30*time.Minute - endedAgo)
	return session
}

func (f *resultFixture) submittedAttempt(session *model.TestSession, studentID uint) *model.StudentAttempt {
	f.sessionRepo.add(session)
	submittedAt := session.EndTime()
	return f.attemptRepo.add(&model.StudentAttempt{
		SessionID:         session.ID,
		Session:           *session,
		StudentID:         studentID,
		StartedAt:         session.StartTime,
		Submitted:         true,
		SubmittedAt:       &submittedAt,
		TotalTimeSpentSec: 1800,
	})
}

func TestCanViewResultsImmediate(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newResultFixture(now)
	attempt := f.submittedAttempt(endedSession(now, 5*time.Minute, model.ReleaseImmediate), 7)

	resp, err := f.svc.CanViewResults(attempt.ID, 7)
	if err != nil {
		t.Fatalf("CanViewResults() error: %v", err)
	}
	if !resp.CanView {
		t.Error("immediate mode after test end should be viewable")
	}
}

func TestCanViewResultsBlockedBeforeTestEnd(t *testing.T) {
	// Even in immediate mode, a fast finisher sees nothing until the window
	// closes for everyone.
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newResultFixture(now)
	session := activeSession(now, 30, fourChoiceQuestion(1, model.ChoiceA))
	f.sessionRepo.add(session)
	submittedAt := now
	attempt := f.attemptRepo.add(&model.StudentAttempt{
		SessionID: session.ID, Session: *session, StudentID: 7,
		StartedAt: session.StartTime, Submitted: true, SubmittedAt: &submittedAt,
	})

	resp, err := f.svc.CanViewResults(attempt.ID, 7)
	if err != nil {
		t.Fatalf("CanViewResults() error: %v", err)
	}
	if resp.CanView {
		t.Error("results must stay hidden while the session is still running")
	}
}

func TestCanViewResultsUnsubmitted(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newResultFixture(now)
	session := endedSession(now, 5*time.Minute, model.ReleaseImmediate)
	f.sessionRepo.add(session)
	attempt := f.attemptRepo.add(&model.StudentAttempt{
		SessionID: session.ID, Session: *session, StudentID: 7, StartedAt: session.StartTime,
	})

	resp, err := f.svc.CanViewResults(attempt.ID, 7)
	if err != nil {
		t.Fatalf("CanViewResults() error: %v", err)
	}
	if resp.CanView {
		t.Error("an unsubmitted attempt has no viewable result")
	}
}

func TestCanViewResultsManual(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newResultFixture(now)
	attempt := f.submittedAttempt(endedSession(now, 5*time.Minute, model.ReleaseManual), 7)

	resp, _ := f.svc.CanViewResults(attempt.ID, 7)
	if resp.CanView {
		t.Error("manual mode should hide results until the teacher releases")
	}

	if err := f.svc.ReleaseResult(attempt.ID, 1); err != nil {
		t.Fatalf("ReleaseResult() error: %v", err)
	}
	resp, _ = f.svc.CanViewResults(attempt.ID, 7)
	if !resp.CanView {
		t.Error("manual mode should show results once released")
	}
}

func TestCanViewResultsScheduled(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("before the scheduled instant", func(t *testing.T) {
		f := newResultFixture(now)
		session := endedSession(now, 5*time.Minute, model.ReleaseScheduled)
		at := now.Add(time.Hour)
		session.Test.ScheduledReleaseAt = &at
		attempt := f.submittedAttempt(session, 7)

		resp, _ := f.svc.CanViewResults(attempt.ID, 7)
		if resp.CanView {
			t.Error("results should stay hidden before the scheduled release")
		}

		// The teacher may still release ahead of schedule.
		if err := f.svc.ReleaseResult(attempt.ID, 1); err != nil {
			t.Fatalf("ReleaseResult() error: %v", err)
		}
		resp, _ = f.svc.CanViewResults(attempt.ID, 7)
		if !resp.CanView {
			t.Error("an early manual release should make results visible")
		}
	})

	t.Run("after the scheduled instant", func(t *testing.T) {
		f := newResultFixture(now)
		session := endedSession(now, 5*time.Minute, model.ReleaseScheduled)
		at := now.Add(-time.Minute)
		session.Test.ScheduledReleaseAt = &at
		attempt := f.submittedAttempt(session, 7)

		resp, _ := f.svc.CanViewResults(attempt.ID, 7)
		if !resp.CanView {
			t.Error("results should be visible once the scheduled instant passes")
		}
	})
}

func TestCanViewResultsAfterAllComplete(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newResultFixture(now)
	session := endedSession(now, 5*time.Minute, model.ReleaseAfterAllComplete)
	attempt := f.submittedAttempt(session, 7)

	// A second student joined but never submitted.
	straggler := f.attemptRepo.add(&model.StudentAttempt{
		SessionID: session.ID, Session: *session, StudentID: 8, StartedAt: session.StartTime,
	})

	resp, _ := f.svc.CanViewResults(attempt.ID, 7)
	if resp.CanView {
		t.Error("results should stay hidden while any joined attempt is unsubmitted")
	}

	submittedAt := session.EndTime()
	straggler.Submitted = true
	straggler.SubmittedAt = &submittedAt

	resp, _ = f.svc.CanViewResults(attempt.ID, 7)
	if !resp.CanView {
		t.Error("results should open once every joined attempt is submitted")
	}
}

func TestGetAttemptResult(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newResultFixture(now)
	attempt := f.submittedAttempt(endedSession(now, 5*time.Minute, model.ReleaseImmediate), 7)
	f.answerRepo.Upsert(&model.StudentAnswer{
		AttemptID: attempt.ID, QuestionID: 1, SelectedChoice: "A", IsCorrect: true, TimeSpentSec: 40,
	})
	f.answerRepo.Upsert(&model.StudentAnswer{
		AttemptID: attempt.ID, QuestionID: 2, SelectedChoice: "C", IsCorrect: false, TimeSpentSec: 25,
	})

	resp, err := f.svc.GetAttemptResult(attempt.ID, 7)
	if err != nil {
		t.Fatalf("GetAttemptResult() error: %v", err)
	}
	if resp.ScorePercentage != 50 || resp.CorrectCount != 1 || resp.TotalQuestions != 2 {
		t.Errorf("score = %d%% (%d/%d), want 50%% (1/2)", resp.ScorePercentage, resp.CorrectCount, resp.TotalQuestions)
	}
	if len(resp.Answers) != 2 {
		t.Fatalf("len(Answers) = %d, want 2", len(resp.Answers))
	}
	second := resp.Answers[1]
	if second.SelectedChoice != "C" || second.CorrectChoice != "B" || second.IsCorrect {
		t.Errorf("review = %+v, want selected C, correct B, incorrect", second)
	}
}

func TestGetAttemptResultGated(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newResultFixture(now)
	attempt := f.submittedAttempt(endedSession(now, 5*time.Minute, model.ReleaseManual), 7)

	if _, err := f.svc.GetAttemptResult(attempt.ID, 7); !errors.Is(err, ErrResultsNotVisible) {
		t.Errorf("unreleased result error = %v, want ErrResultsNotVisible", err)
	}
	if _, err := f.svc.GetAttemptResult(attempt.ID, 9); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("other student error = %v, want ErrAccessDenied", err)
	}

	unsubmitted := f.attemptRepo.add(&model.StudentAttempt{
		SessionID: attempt.SessionID, Session: attempt.Session, StudentID: 8, StartedAt: attempt.StartedAt,
	})
	if _, err := f.svc.GetAttemptResult(unsubmitted.ID, 8); !errors.Is(err, ErrNotSubmitted) {
		t.Errorf("unsubmitted attempt error = %v, want ErrNotSubmitted", err)
	}
}

func TestReleaseResult(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newResultFixture(now)
	attempt := f.submittedAttempt(endedSession(now, 5*time.Minute, model.ReleaseManual), 7)

	if err := f.svc.ReleaseResult(attempt.ID, 2); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("foreign teacher error = %v, want ErrAccessDenied", err)
	}

	if err := f.svc.ReleaseResult(attempt.ID, 1); err != nil {
		t.Fatalf("ReleaseResult() error: %v", err)
	}
	stored := f.attemptRepo.attempts[attempt.ID]
	if stored.ResultReleasedAt == nil || stored.ReleasedByID == nil || *stored.ReleasedByID != 1 {
		t.Errorf("release not recorded: %+v", stored)
	}

	if err := f.svc.ReleaseResult(attempt.ID, 1); !errors.Is(err, ErrAlreadyReleased) {
		t.Errorf("double release error = %v, want ErrAlreadyReleased", err)
	}

	unsubmitted := f.attemptRepo.add(&model.StudentAttempt{
		SessionID: attempt.SessionID, Session: attempt.Session, StudentID: 8, StartedAt: attempt.StartedAt,
	})
	if err := f.svc.ReleaseResult(unsubmitted.ID, 1); !errors.Is(err, ErrNotSubmitted) {
		t.Errorf("unsubmitted release error = %v, want ErrNotSubmitted", err)
	}
}

func TestBulkRelease(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newResultFixture(now)
	session := endedSession(now, 5*time.Minute, model.ReleaseManual)
	eligible := f.submittedAttempt(session, 7)
	unsubmitted := f.attemptRepo.add(&model.StudentAttempt{
		SessionID: session.ID, Session: *session, StudentID: 8, StartedAt: session.StartTime,
	})

	resp, err := f.svc.BulkRelease(dto.BulkReleaseRequest{
		TeacherID:  1,
		AttemptIDs: []uint{eligible.ID, unsubmitted.ID, 999},
	})
	if err != nil {
		t.Fatalf("BulkRelease() error: %v", err)
	}
	if len(resp.ReleasedIDs) != 1 || resp.ReleasedIDs[0] != eligible.ID {
		t.Errorf("ReleasedIDs = %v, want [%d]", resp.ReleasedIDs, eligible.ID)
	}
	if len(resp.SkippedIDs) != 2 {
		t.Errorf("SkippedIDs = %v, want the unsubmitted and the missing attempt", resp.SkippedIDs)
	}
}

func TestSessionResults(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newResultFixture(now)
	session := endedSession(now, 5*time.Minute, model.ReleaseImmediate)
	submitted := f.submittedAttempt(session, 7)
	submitted.Answers = []model.StudentAnswer{
		{AttemptID: submitted.ID, QuestionID: 1, IsCorrect: true},
		{AttemptID: submitted.ID, QuestionID: 2, IsCorrect: true},
	}
	f.attemptRepo.add(&model.StudentAttempt{
		SessionID: session.ID, Session: *session, StudentID: 8, StartedAt: session.StartTime,
	})

	resp, err := f.svc.SessionResults(session.ID, 1)
	if err != nil {
		t.Fatalf("SessionResults() error: %v", err)
	}
	if resp.JoinedCount != 2 || resp.SubmittedCount != 1 {
		t.Errorf("counts = %d joined / %d submitted, want 2/1", resp.JoinedCount, resp.SubmittedCount)
	}
	if len(resp.Attempts) != 2 {
		t.Fatalf("len(Attempts) = %d, want 2", len(resp.Attempts))
	}
	first := resp.Attempts[0]
	if first.ScorePercentage != 100 || !first.Submitted {
		t.Errorf("first attempt summary = %+v, want submitted with 100%%", first)
	}

	if _, err := f.svc.SessionResults(session.ID, 2); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("foreign teacher error = %v, want ErrAccessDenied", err)
	}
	if _, err := f.svc.SessionResults(999, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing session error = %v, want ErrNotFound", err)
	}
}
