// Package server provides the HTTP API for running job searches.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dovvnloading/Leadz/internal/search"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrSearchInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
