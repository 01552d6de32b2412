// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

// StatusFor maps a catalog error kind to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicateCode):
		return http.StatusConflict
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidDateFormat),
		errors.Is(err, shared.ErrMissingFilter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var titles = map[int]string{
	http.StatusNotFound:            "Not Found",
	http.StatusConflict:            "Duplicate Code",
	http.StatusBadRequest:          "Invalid Request",
	http.StatusInternalServerError: "Internal Error",
}

// RespondError writes err as RFC7807 problem details. Store failures are
// logged and their detail withheld from the client.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("catalog request failed", slog.Any("error", err))
		}
		Problem(w, status, titles[status], "")
		return
	}
	Problem(w, status, titles[status], err.Error())
}
