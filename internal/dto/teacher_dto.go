package dto

import "time"

// ChoiceCreateDTO is one of the four A-D choices of a question.
type ChoiceCreateDTO struct {
	Label     string `json:"label" binding:"required,oneof=A B C D"`
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionCreateDTO is used within TestCreateDTO for teacher test creation.
type QuestionCreateDTO struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Difficulty  string            `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Choices     []ChoiceCreateDTO `json:"choices" binding:"required,min=4,max=4,dive"`
}

// QuestionBankCreateDTO adds a standalone question to the teacher's bank,
// outside any test.
type QuestionBankCreateDTO struct {
	TeacherID uint `json:"teacher_id" binding:"required"`
	QuestionCreateDTO
}

// TestCreateDTO is for a teacher to create a new test with all its questions.
type TestCreateDTO struct {
	TeacherID          uint                `json:"teacher_id" binding:"required"`
	Title              string              `json:"title" binding:"required"`
	Description        string              `json:"description,omitempty"`
	Category           string              `json:"category,omitempty"`
	TimeLimitMinutes   int                 `json:"time_limit_minutes" binding:"omitempty,min=1"`
	ReleaseMode        string              `json:"release_mode" binding:"omitempty,oneof=immediate manual scheduled after_all_complete"`
	ScheduledReleaseAt *time.Time          `json:"scheduled_release_at,omitempty"`
	IsPractice         bool                `json:"is_practice"`
	Questions          []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// SessionCreateDTO schedules a new offering of a test. StartTime must be in
// the future and is interpreted as UTC.
type SessionCreateDTO struct {
	TeacherID uint      `json:"teacher_id" binding:"required"`
	TestID    uint      `json:"test_id" binding:"required"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time" binding:"required"`
}
