package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// ErrUnavailable is returned when no response was received from the server.
var ErrUnavailable = errors.New("server unavailable")

// Error is a non-success response from the server.
type Error struct {
	Status  int
	Message string
	Fields  []common.FieldError
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Unwrap maps the status code onto the shared sentinel errors.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorConflict
	case http.StatusUnprocessableEntity:
		return common.ErrorValidation
	}
	if e.Status >= 500 {
		return common.ErrorInternal
	}
	return nil
}
