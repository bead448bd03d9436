package service

import (
	"errors"

	"github.com/wawa-academy/erp-server/internal/notion"
)

// isRemoteFailure reports errors that affect every call to Notion alike, as
// opposed to a problem with one row.
func isRemoteFailure(err error) bool {
	return errors.Is(err, notion.ErrUnauthorized) || errors.Is(err, notion.ErrRemoteUnavailable)
}
