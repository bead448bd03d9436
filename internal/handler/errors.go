package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wawa-academy/erp-server/internal/notion"
	"github.com/wawa-academy/erp-server/internal/response"
	"github.com/wawa-academy/erp-server/internal/service"
)

// fail maps a service or Notion error onto the response envelope. Errors that
// match no known sentinel are logged and reported as internal.
func fail(c *gin.Context, log zerolog.Logger, err error) {
	var formatErr *service.FormatError
	var apiErr *notion.APIError

	switch {
	case errors.As(err, &formatErr):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidConfigFormat, formatErr.Fields)
	case errors.Is(err, service.ErrUnconfigured), errors.Is(err, notion.ErrUnknownDataset):
		response.Fail(c, http.StatusConflict, response.ErrNotConfigured)
	case errors.Is(err, notion.ErrUnauthorized):
		response.Fail(c, http.StatusBadGateway, response.ErrNotionUnauthorized)
	case errors.Is(err, notion.ErrRemoteUnavailable):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrNotionUnavailable)
	case errors.Is(err, notion.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrRosterNotReady), errors.Is(err, service.ErrRosterSuperseded):
		response.Fail(c, http.StatusConflict, response.ErrTeachersLoading)
	case errors.Is(err, service.ErrTeacherNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrTeacherNotFound)
	case errors.Is(err, service.ErrPinMismatch):
		response.Fail(c, http.StatusUnauthorized, response.ErrPinMismatch)
	case errors.Is(err, service.ErrSessionActive):
		response.Fail(c, http.StatusConflict, response.ErrSessionActive)
	case errors.Is(err, service.ErrNoSession), errors.Is(err, service.ErrSessionInvalid):
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
	case errors.As(err, &apiErr):
		response.FailWithMessage(c, http.StatusBadGateway, response.ErrNotionRejected, apiErr.Message)
	default:
		log.Error().
			Err(err).
			Str("path", c.FullPath()).
			Str("request_id", response.RequestID(c)).
			Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
