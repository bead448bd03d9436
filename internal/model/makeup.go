package model

import "time"

// MakeupStatus is the progress of a makeup class.
type MakeupStatus string

const (
	MakeupPending    MakeupStatus = "시작 전"
	MakeupInProgress MakeupStatus = "진행 중"
	MakeupCompleted  MakeupStatus = "완료"
)

// Makeup is a missed class and its makeup appointment.
type Makeup struct {
	ID           string       `json:"id"`
	StudentID    string       `json:"student_id"`
	StudentName  string       `json:"student_name"`
	Subject      string       `json:"subject"`
	TeacherID    string       `json:"teacher_id,omitempty"`
	AbsentDate   string       `json:"absent_date"`
	AbsentReason string       `json:"absent_reason"`
	MakeupDate   string       `json:"makeup_date,omitempty"`
	MakeupTime   string       `json:"makeup_time,omitempty"`
	Status       MakeupStatus `json:"status"`
	Memo         string       `json:"memo,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

type CreateMakeupRequest struct {
	StudentID    string `json:"student_id" binding:"required,max=64"`
	StudentName  string `json:"student_name" binding:"required,max=100"`
	Subject      string `json:"subject" binding:"required,max=50"`
	TeacherID    string `json:"teacher_id" binding:"omitempty,max=64"`
	AbsentDate   string `json:"absent_date" binding:"required,datetime=2006-01-02"`
	AbsentReason string `json:"absent_reason" binding:"max=500"`
	MakeupDate   string `json:"makeup_date" binding:"omitempty,datetime=2006-01-02"`
	MakeupTime   string `json:"makeup_time" binding:"max=50"`
	Memo         string `json:"memo" binding:"max=2000"`
}

// UpdateMakeupRequest changes only the fields that are present. An empty
// MakeupDate clears the appointment.
type UpdateMakeupRequest struct {
	MakeupDate *string       `json:"makeup_date" binding:"omitempty,max=10"`
	MakeupTime *string       `json:"makeup_time" binding:"omitempty,max=50"`
	Status     *MakeupStatus `json:"status" binding:"omitempty,oneof='시작 전' '진행 중' 완료"`
	Memo       *string       `json:"memo" binding:"omitempty,max=2000"`
}

type MakeupListQuery struct {
	Status MakeupStatus `form:"status" json:"status" binding:"omitempty,oneof='시작 전' '진행 중' 완료"`
}
