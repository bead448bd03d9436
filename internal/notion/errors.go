package notion

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized means Notion rejected the integration key.
	ErrUnauthorized = errors.New("notion: api key rejected")
	// ErrRemoteUnavailable covers transport failures, timeouts, rate limiting
	// and 5xx responses. Nothing is retried.
	ErrRemoteUnavailable = errors.New("notion: remote unavailable")
	// ErrNotFound means the page or database does not exist or is not shared
	// with the integration.
	ErrNotFound = errors.New("notion: object not found")
	// ErrUnknownDataset is returned when a dataset has no database id in the
	// workspace.
	ErrUnknownDataset = errors.New("notion: dataset not configured")
	// ErrInvalidWorkspace is returned by New when the workspace cannot back a client.
	ErrInvalidWorkspace = errors.New("notion: invalid workspace")
)

// APIError is a non-2xx answer from the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: http %d", e.Status)
	}
	return fmt.Sprintf("notion: http %d %s: %s", e.Status, e.Code, e.Message)
}

// Is maps HTTP statuses onto the package sentinels so callers can use errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrRemoteUnavailable:
		return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
	}
	return false
}

// outcome labels a finished request for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrRemoteUnavailable):
		return "unavailable"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
