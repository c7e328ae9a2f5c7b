package middleware

import (
	"log/slog"
	"net/http"

	"chatvault/internal/config"
	"chatvault/internal/domain"
	"chatvault/internal/domain/models"
	"chatvault/internal/domain/services"
	"chatvault/internal/httputil"
)

// RequireApproved lets a request through only when the caller is
// authenticated and approved. The decision is made fresh on every request.
func RequireApproved(decider services.AccessDecider, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := decider.Decide(r.Context(), httputil.BearerToken(r))

			switch decision.State {
			case models.DecisionAllowed:
				next.ServeHTTP(w, httputil.WithUserID(r, decision.IdentityID))
			case models.DecisionRejectedUnapproved:
				logger.Debug("request rejected",
					"reason", domain.ReasonUnapproved,
					"identity_id", decision.IdentityID,
					"path", r.URL.Path,
				)
				respondRejection(w, domain.NewUnapproved())
			default:
				respondRejection(w, domain.NewUnauthenticated())
			}
		})
	}
}

// RequireIdentity only requires an authenticated caller. Used for the
// routes an unapproved identity needs, such as requesting access.
func RequireIdentity(resolver services.IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identityID, err := resolver.Resolve(r.Context(), httputil.BearerToken(r))
			if err != nil || identityID == "" {
				respondRejection(w, domain.NewUnauthenticated())
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, identityID))
		})
	}
}

// RequireAdmin requires an authenticated caller listed as administrator.
func RequireAdmin(resolver services.IdentityResolver, admins *config.AdminSet, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identityID, err := resolver.Resolve(r.Context(), httputil.BearerToken(r))
			if err != nil || identityID == "" {
				respondRejection(w, domain.NewUnauthenticated())
				return
			}

			if !admins.Contains(identityID) {
				logger.Warn("non-admin attempted admin route",
					"identity_id", identityID,
					"path", r.URL.Path,
				)
				respondRejection(w, domain.NewNotAdmin())
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, identityID))
		})
	}
}

func respondRejection(w http.ResponseWriter, rejection *domain.RejectionError) {
	if rejection.StatusCode() == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="chatvault"`)
	}
	httputil.RespondErrorWithExtras(w, rejection.StatusCode(), rejection.Error(), map[string]interface{}{
		"reason": rejection.Reason,
	})
}
