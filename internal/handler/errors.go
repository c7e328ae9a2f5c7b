package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"chatvault/internal/domain"
	"chatvault/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Bodies use fixed messages so storage or provider detail never leaks.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var rejection *domain.RejectionError

	switch {
	case errors.As(err, &rejection):
		httputil.RespondErrorWithExtras(w, rejection.StatusCode(), rejection.Error(), map[string]interface{}{
			"reason": rejection.Reason,
		})
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "conversation not found")
	case errors.Is(err, domain.ErrUnauthenticated):
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	default:
		logger.Error("request failed",
			"error", err,
			"path", r.URL.Path,
			"method", r.Method,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
