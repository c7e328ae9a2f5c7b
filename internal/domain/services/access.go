package services

import (
	"context"
	"time"

	"chatvault/internal/domain/models"
)

// IdentityResolver turns a bearer token into an identity id.
// Any failure is reported as domain.ErrUnauthenticated.
type IdentityResolver interface {
	Resolve(ctx context.Context, bearerToken string) (string, error)
}

// IdentityMetadataStore is the narrow port onto the identity provider's
// metadata bag. Implementations must merge writes so that keys they do not
// own are preserved.
type IdentityMetadataStore interface {
	GetApproval(ctx context.Context, identityID string) (bool, error)
	SetApproval(ctx context.Context, identityID string, approved bool) error
	GetAccessRequest(ctx context.Context, identityID string) (*models.AccessRequest, error)
	SetAccessRequest(ctx context.Context, identityID string, requested bool, at time.Time) error
}

// ApprovalGate reports and changes approval state for identities.
type ApprovalGate interface {
	// CheckApproval is fail-closed: a metadata failure reads as not approved.
	CheckApproval(ctx context.Context, identityID string) bool

	// RequestAccess records an access request unless the identity is already approved.
	RequestAccess(ctx context.Context, identityID string) (*models.AccessRequestResult, error)

	// Approve sets the approval flag. Administrator path only.
	Approve(ctx context.Context, identityID string) error

	// AccessStatus returns the approval flag and last access request.
	AccessStatus(ctx context.Context, identityID string) (*models.AccessStatus, error)
}

// AccessDecider runs the per-request access state machine.
type AccessDecider interface {
	Decide(ctx context.Context, bearerToken string) models.AccessDecision
}

// AnonymousSessionService manages pre-login session handles.
type AnonymousSessionService interface {
	Issue(ctx context.Context) (*models.AnonymousSession, error)
	Supersede(ctx context.Context, sessionID, identityID string) error
}
