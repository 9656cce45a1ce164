package dto

// JoinSessionRequest redeems an access code for a new attempt. The student id
// comes from the surrounding identity layer; the core treats it as opaque.
type JoinSessionRequest struct {
	StudentID  uint   `json:"student_id" binding:"required"`
	AccessCode string `json:"access_code" binding:"required"`
}

type NavigateRequest struct {
	StudentID uint   `json:"student_id" binding:"required"`
	Direction string `json:"direction" binding:"required,oneof=next previous"`
}

type SaveAnswerRequest struct {
	StudentID        uint   `json:"student_id" binding:"required"`
	QuestionID       uint   `json:"question_id" binding:"required"`
	SelectedChoice   string `json:"selected_choice" binding:"required"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

type SubmitRequest struct {
	StudentID uint   `json:"student_id" binding:"required"`
	Trigger   string `json:"trigger" binding:"omitempty,oneof=manual auto"`
}

type ReleaseResultRequest struct {
	TeacherID uint `json:"teacher_id" binding:"required"`
}

type BulkReleaseRequest struct {
	TeacherID  uint   `json:"teacher_id" binding:"required"`
	AttemptIDs []uint `json:"attempt_ids" binding:"required,min=1"`
}
