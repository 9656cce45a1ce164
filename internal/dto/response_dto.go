package dto

import "time"

type ErrorResponse struct {
	Error            string `json:"error"`
	RemainingSeconds *int   `json:"remaining_seconds,omitempty"`
}

// ChoiceViewDTO is what a student sees while taking a test. It never carries
// the correctness flag.
type ChoiceViewDTO struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

type QuestionViewDTO struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Difficulty  string          `json:"difficulty,omitempty"`
	Choices     []ChoiceViewDTO `json:"choices"`
}

// CurrentQuestionResponse is the student's view of where they are in the
// test. Question is null when the test has no questions.
type CurrentQuestionResponse struct {
	Question           *QuestionViewDTO `json:"question"`
	QuestionNumber     int              `json:"question_number"` // 1-based for display
	TotalQuestions     int              `json:"total_questions"`
	AnsweredCount      int              `json:"answered_count"`
	ProgressPercentage int              `json:"progress_percentage"`
	RemainingSeconds   int              `json:"remaining_seconds"`
}

type AttemptResponse struct {
	ID                    uint       `json:"id"`
	SessionID             uint       `json:"session_id"`
	StudentID             uint       `json:"student_id"`
	CurrentQuestion       int        `json:"current_question"`
	StartedAt             time.Time  `json:"started_at"`
	Submitted             bool       `json:"submitted"`
	SubmittedAt           *time.Time `json:"submitted_at,omitempty"`
	TotalTimeSpentSeconds int        `json:"total_time_spent_seconds"`
}

type SaveAnswerResponse struct {
	QuestionID         uint `json:"question_id"`
	IsCorrect          bool `json:"is_correct"`
	AnsweredCount      int  `json:"answered_count"`
	TotalQuestions     int  `json:"total_questions"`
	ProgressPercentage int  `json:"progress_percentage"`
}

// SubmitResultResponse reports the frozen outcome of a submission. Timing is
// "on_time" for manual submits, "within_grace" or "late" for auto submits.
type SubmitResultResponse struct {
	AttemptID        uint       `json:"attempt_id"`
	ScorePercentage  int        `json:"score_percentage"`
	CorrectCount     int        `json:"correct_count"`
	TotalQuestions   int        `json:"total_questions"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
	Passed           bool       `json:"passed"`
	Trigger          string     `json:"trigger"`
	Timing           string     `json:"timing"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
}

type CanViewResultsResponse struct {
	AttemptID uint `json:"attempt_id"`
	CanView   bool `json:"can_view"`
}

// AnswerReviewDTO is one line of a released result: the student's pick, the
// correct label and the verdict.
type AnswerReviewDTO struct {
	QuestionID       uint   `json:"question_id"`
	QuestionTitle    string `json:"question_title"`
	SelectedChoice   string `json:"selected_choice"`
	CorrectChoice    string `json:"correct_choice"`
	IsCorrect        bool   `json:"is_correct"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

type AttemptResultResponse struct {
	AttemptID        uint              `json:"attempt_id"`
	TestTitle        string            `json:"test_title"`
	ScorePercentage  int               `json:"score_percentage"`
	CorrectCount     int               `json:"correct_count"`
	TotalQuestions   int               `json:"total_questions"`
	TimeSpentSeconds int               `json:"time_spent_seconds"`
	Passed           bool              `json:"passed"`
	SubmittedAt      *time.Time        `json:"submitted_at,omitempty"`
	ReleasedAt       *time.Time        `json:"released_at,omitempty"`
	Answers          []AnswerReviewDTO `json:"answers"`
}

type SessionResponse struct {
	ID         uint      `json:"id"`
	TestID     uint      `json:"test_id"`
	TestTitle  string    `json:"test_title,omitempty"`
	Name       string    `json:"name,omitempty"`
	AccessCode string    `json:"access_code"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// AttemptSummaryDTO is one row of a teacher's session results table.
type AttemptSummaryDTO struct {
	AttemptID          uint       `json:"attempt_id"`
	StudentID          uint       `json:"student_id"`
	Submitted          bool       `json:"submitted"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	ScorePercentage    int        `json:"score_percentage"`
	CorrectCount       int        `json:"correct_count"`
	AnsweredCount      int        `json:"answered_count"`
	TotalQuestions     int        `json:"total_questions"`
	ProgressPercentage int        `json:"progress_percentage"`
	Released           bool       `json:"released"`
}

type SessionResultsResponse struct {
	SessionID      uint                `json:"session_id"`
	TestTitle      string              `json:"test_title"`
	Status         string              `json:"status"`
	JoinedCount    int64               `json:"joined_count"`
	SubmittedCount int64               `json:"submitted_count"`
	Attempts       []AttemptSummaryDTO `json:"attempts"`
}

type BulkReleaseResponse struct {
	ReleasedIDs []uint `json:"released_ids"`
	SkippedIDs  []uint `json:"skipped_ids"`
}

// ChoiceResponse includes the correctness flag; only teacher-facing
// endpoints return it.
type ChoiceResponse struct {
	ID        uint   `json:"id"`
	Label     string `json:"label"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionResponse struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Difficulty  string           `json:"difficulty,omitempty"`
	Choices     []ChoiceResponse `json:"choices,omitempty"`
}

type TestResponse struct {
	ID                 uint               `json:"id"`
	Title              string             `json:"title"`
	Description        string             `json:"description,omitempty"`
	Category           string             `json:"category,omitempty"`
	TimeLimitMinutes   int                `json:"time_limit_minutes"`
	ReleaseMode        string             `json:"release_mode"`
	ScheduledReleaseAt *time.Time         `json:"scheduled_release_at,omitempty"`
	IsPractice         bool               `json:"is_practice"`
	Questions          []QuestionResponse `json:"questions,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
}
