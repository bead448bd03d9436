package model

// TeacherRecord is a login-eligible row of the teachers database.
type TeacherRecord struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Subjects []string `json:"subjects"`
	PIN      string   `json:"-"`
	IsAdmin  bool     `json:"is_admin"`
}

// TeacherOption is what the login screen renders in its select control.
type TeacherOption struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Subjects []string `json:"subjects"`
}

// LoginRequest is the payload for PIN authentication.
type LoginRequest struct {
	TeacherID string `json:"teacher_id" binding:"required,max=64"`
	PIN       string `json:"pin" binding:"required,max=16"`
}
