package access

import (
	"context"

	"chatvault/internal/domain/models"
	"chatvault/internal/domain/services"
)

// Decider composes identity resolution and the approval check into one
// decision per request.
type Decider struct {
	resolver services.IdentityResolver
	gate     services.ApprovalGate
}

// NewDecider creates the access decider
func NewDecider(resolver services.IdentityResolver, gate services.ApprovalGate) *Decider {
	return &Decider{resolver: resolver, gate: gate}
}

// Decide resolves the caller and re-checks approval every time. The gate is
// never consulted for an unauthenticated caller.
func (d *Decider) Decide(ctx context.Context, bearerToken string) models.AccessDecision {
	identityID, err := d.resolver.Resolve(ctx, bearerToken)
	if err != nil || identityID == "" {
		return models.AccessDecision{State: models.DecisionRejectedUnauthenticated}
	}

	if !d.gate.CheckApproval(ctx, identityID) {
		return models.AccessDecision{
			IdentityID: identityID,
			State:      models.DecisionRejectedUnapproved,
		}
	}

	return models.AccessDecision{
		IdentityID: identityID,
		Approved:   true,
		State:      models.DecisionAllowed,
	}
}
