// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gaia-project/gaia/internal/shared"
)

type problemKind struct {
	target error
	status int
	title  string
}

var problemKinds = []problemKind{
	{shared.ErrNotFound, http.StatusNotFound, "Not Found"},
	{shared.ErrUniquenessViolation, http.StatusConflict, "Duplicate"},
	{shared.ErrValidation, http.StatusBadRequest, "Validation Failed"},
	{shared.ErrPreconditionNotMet, http.StatusUnprocessableEntity, "Precondition Not Met"},
	{shared.ErrCodeGenerationExhausted, http.StatusServiceUnavailable, "Code Space Exhausted"},
}

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	for _, k := range problemKinds {
		if errors.Is(err, k.target) {
			Problem(w, k.status, k.title, err.Error())
			return
		}
	}
	Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

// Fail writes the problem response for err, logging it first when it does
// not map to a known domain error.
func Fail(w http.ResponseWriter, logger *slog.Logger, msg string, err error) {
	if !known(err) && logger != nil {
		logger.Error(msg, slog.Any("error", err))
	}
	RespondError(w, err)
}

func known(err error) bool {
	for _, k := range problemKinds {
		if errors.Is(err, k.target) {
			return true
		}
	}
	return false
}
