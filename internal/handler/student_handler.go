package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wawa-academy/erp-server/internal/middleware"
	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/response"
	"github.com/wawa-academy/erp-server/internal/service"
	"github.com/wawa-academy/erp-server/internal/validator"
)

// StudentHandler serves the student roster.
type StudentHandler struct {
	students *service.StudentService
	log      zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(students *service.StudentService, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{students: students, log: log.With().Str("component", "student_handler").Logger()}
}

// List godoc
// GET /api/v1/students?include_inactive=true&subject=수학
// Returns the students visible to the signed-in teacher.
func (h *StudentHandler) List(c *gin.Context) {
	var q model.StudentListQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	students, err := h.students.List(c.Request.Context(), middleware.GetSession(c), q)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"students": students, "total": len(students)})
}

// Enrollments godoc
// GET /api/v1/students/:id/enrollments
// Returns the weekly class slots of a student.
func (h *StudentHandler) Enrollments(c *gin.Context) {
	enrollments, err := h.students.Enrollments(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"enrollments": enrollments})
}
