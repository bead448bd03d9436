package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wawa-academy/erp-server/internal/middleware"
	"github.com/wawa-academy/erp-server/internal/navigation"
	"github.com/wawa-academy/erp-server/internal/response"
)

// Navigation godoc
// GET /api/v1/navigation?active=/report/input
// Returns the header tabs and sidebar for the signed-in teacher.
func Navigation(c *gin.Context) {
	response.Success(c, http.StatusOK, navigation.Build(middleware.GetSession(c), c.Query("active")))
}
