package handler

import (
	"log/slog"
	"net/http"

	"chatvault/internal/domain/services"
	"chatvault/internal/httputil"
)

// SessionHandler serves anonymous session handles
type SessionHandler struct {
	sessions services.AnonymousSessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions services.AnonymousSessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// IssueAnonymousSession hands out a pre-login handle
// POST /api/sessions/anonymous
func (h *SessionHandler) IssueAnonymousSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Issue(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, sess)
}

// SupersedeAnonymousSession retires a handle after sign-in
// POST /api/sessions/anonymous/{id}/supersede
func (h *SessionHandler) SupersedeAnonymousSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := PathParam(w, r, "id", "Session ID")
	if !ok {
		return
	}

	if err := h.sessions.Supersede(r.Context(), sessionID, httputil.GetUserID(r)); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
