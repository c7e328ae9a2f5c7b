package access

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chatvault/internal/domain/models"
	"chatvault/internal/domain/services"
)

// Gate implements services.ApprovalGate over an IdentityMetadataStore.
// It holds no per-identity state; every call goes to the store.
type Gate struct {
	store  services.IdentityMetadataStore
	now    func() time.Time
	logger *slog.Logger
}

// NewGate creates an approval gate
func NewGate(store services.IdentityMetadataStore, logger *slog.Logger) *Gate {
	return &Gate{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// CheckApproval reports whether the identity is approved. A store failure
// is logged and read as not approved.
func (g *Gate) CheckApproval(ctx context.Context, identityID string) bool {
	approved, err := g.store.GetApproval(ctx, identityID)
	if err != nil {
		g.logger.WarnContext(ctx, "approval check failed, denying access",
			"identity_id", identityID,
			"error", err,
		)
		return false
	}
	return approved
}

// RequestAccess records an access request. Already-approved identities get
// an acknowledgement without any write. Repeated calls refresh requested_at.
func (g *Gate) RequestAccess(ctx context.Context, identityID string) (*models.AccessRequestResult, error) {
	approved, err := g.store.GetApproval(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("read approval: %w", err)
	}

	if approved {
		return &models.AccessRequestResult{
			Status:  models.AccessRequestAlreadyApproved,
			Message: "You already have access",
		}, nil
	}

	requestedAt := g.now().UTC()
	if err := g.store.SetAccessRequest(ctx, identityID, true, requestedAt); err != nil {
		return nil, fmt.Errorf("record access request: %w", err)
	}

	g.logger.InfoContext(ctx, "access requested",
		"identity_id", identityID,
		"requested_at", requestedAt,
	)

	return &models.AccessRequestResult{
		Status:      models.AccessRequestRecorded,
		Message:     "Access request submitted successfully",
		RequestedAt: &requestedAt,
	}, nil
}

// Approve sets the approval flag. Approving twice is a no-op success.
func (g *Gate) Approve(ctx context.Context, identityID string) error {
	if err := g.store.SetApproval(ctx, identityID, true); err != nil {
		return fmt.Errorf("approve identity: %w", err)
	}

	g.logger.InfoContext(ctx, "identity approved", "identity_id", identityID)
	return nil
}

// AccessStatus returns what the identity may know about its own access.
func (g *Gate) AccessStatus(ctx context.Context, identityID string) (*models.AccessStatus, error) {
	approved, err := g.store.GetApproval(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("read approval: %w", err)
	}

	req, err := g.store.GetAccessRequest(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("read access request: %w", err)
	}

	return &models.AccessStatus{
		IdentityID:    identityID,
		Approved:      approved,
		AccessRequest: *req,
	}, nil
}
