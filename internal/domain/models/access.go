package models

import "time"

// Metadata keys written into the identity provider's metadata bag.
// Any other key in the bag belongs to someone else and must survive writes.
const (
	MetadataKeyApproved          = "approved"
	MetadataKeyAccessRequested   = "accessRequested"
	MetadataKeyAccessRequestedAt = "accessRequestedAt"
)

// AccessRequest is the last access request recorded for an identity.
type AccessRequest struct {
	Requested   bool       `json:"requested"`
	RequestedAt *time.Time `json:"requested_at,omitempty"`
}

// AccessRequestStatus is the outcome of a request-access call
type AccessRequestStatus string

const (
	AccessRequestAlreadyApproved AccessRequestStatus = "already_approved"
	AccessRequestRecorded        AccessRequestStatus = "recorded"
)

// AccessRequestResult acknowledges a request-access call.
type AccessRequestResult struct {
	Status      AccessRequestStatus `json:"status"`
	Message     string              `json:"message"`
	RequestedAt *time.Time          `json:"requested_at,omitempty"`
}

// AccessStatus is what an identity may learn about its own access.
type AccessStatus struct {
	IdentityID    string        `json:"identity_id"`
	Approved      bool          `json:"approved"`
	AccessRequest AccessRequest `json:"access_request"`
}

// DecisionState is the terminal state of a per-request access decision
type DecisionState string

const (
	DecisionAllowed                 DecisionState = "allowed"
	DecisionRejectedUnauthenticated DecisionState = "rejected_unauthenticated"
	DecisionRejectedUnapproved      DecisionState = "rejected_unapproved"
)

// AccessDecision is computed at the start of every protected request and
// discarded when the request ends. It is never cached.
type AccessDecision struct {
	IdentityID string // empty when unauthenticated
	Approved   bool
	State      DecisionState
}

// Allowed reports whether the decision lets the request through.
func (d AccessDecision) Allowed() bool {
	return d.State == DecisionAllowed
}
