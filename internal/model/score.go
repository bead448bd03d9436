package model

import "time"

// Score is one subject score of a student for a month.
type Score struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	TeacherID  string    `json:"teacher_id,omitempty"`
	YearMonth  string    `json:"year_month"`
	Subject    string    `json:"subject"`
	Score      *float64  `json:"score"`
	Comment    string    `json:"comment,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SaveScoreRequest creates or replaces the score of a student, subject and
// month. Subject "__TOTAL_COMMENT__" stores the month's overall comment.
type SaveScoreRequest struct {
	StudentID   string   `json:"student_id" binding:"required,max=64"`
	StudentName string   `json:"student_name" binding:"required,max=100"`
	YearMonth   string   `json:"year_month" binding:"required,datetime=2006-01"`
	Subject     string   `json:"subject" binding:"required,max=50"`
	Score       *float64 `json:"score" binding:"omitempty,min=0,max=100"`
	Comment     string   `json:"comment" binding:"max=2000"`
	Difficulty  string   `json:"difficulty" binding:"omitempty,oneof=A B C D E F"`
}

// StudentReport is a student's scores for one month.
type StudentReport struct {
	StudentID    string   `json:"student_id"`
	StudentName  string   `json:"student_name"`
	Grade        string   `json:"grade,omitempty"`
	YearMonth    string   `json:"year_month"`
	Scores       []Score  `json:"scores"`
	TotalComment string   `json:"total_comment,omitempty"`
	Average      *float64 `json:"average,omitempty"`
}

// MonthlyReport groups the reports of every visible student.
type MonthlyReport struct {
	YearMonth string          `json:"year_month"`
	Subjects  []string        `json:"subjects"`
	Students  []StudentReport `json:"students"`
}
