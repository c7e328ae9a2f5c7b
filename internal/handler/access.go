package handler

import (
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"chatvault/internal/config"
	"chatvault/internal/domain/services"
	"chatvault/internal/httputil"
)

// AccessHandler serves the approval routes
type AccessHandler struct {
	gate   services.ApprovalGate
	logger *slog.Logger
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(gate services.ApprovalGate, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{gate: gate, logger: logger}
}

// GetAccessStatus returns the caller's approval state and last access request
// GET /api/access
func (h *AccessHandler) GetAccessStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.gate.AccessStatus(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, status)
}

// RequestAccess records an access request for the caller
// POST /api/access/request
func (h *AccessHandler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	result, err := h.gate.RequestAccess(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ApproveIdentity sets the approval flag on the target identity
// POST /api/admin/identities/{id}/approve
func (h *AccessHandler) ApproveIdentity(w http.ResponseWriter, r *http.Request) {
	identityID, ok := PathParam(w, r, "id", "Identity ID")
	if !ok {
		return
	}

	if err := validation.Validate(identityID, validation.RuneLength(1, config.MaxIdentityIDLength)); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Identity ID: "+err.Error())
		return
	}

	if err := h.gate.Approve(r.Context(), identityID); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Info("approval granted by admin",
		"identity_id", identityID,
		"admin_id", httputil.GetUserID(r),
	)

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"identity_id": identityID,
		"approved":    true,
	})
}
