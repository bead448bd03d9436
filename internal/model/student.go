package model

import "time"

// Student is a row of the students database.
type Student struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Grade       string    `json:"grade"`
	Subjects    []string  `json:"subjects"`
	TeacherIDs  []string  `json:"teacher_ids"`
	ParentName  string    `json:"parent_name,omitempty"`
	ParentPhone string    `json:"parent_phone,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Enrollment is one weekly class slot of a student.
type Enrollment struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	Subject   string `json:"subject"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// StudentListQuery filters the student list.
type StudentListQuery struct {
	IncludeInactive bool   `form:"include_inactive" json:"include_inactive"`
	Subject         string `form:"subject" json:"subject" binding:"omitempty,max=50"`
}
