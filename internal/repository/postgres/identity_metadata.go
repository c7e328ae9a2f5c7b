package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chatvault/internal/domain/models"
	"chatvault/internal/domain/services"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresIdentityMetadataRepository stores one JSONB metadata bag per identity.
// It backs the approval gate when no external identity provider manages metadata.
type PostgresIdentityMetadataRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewIdentityMetadataRepository creates a new PostgresIdentityMetadataRepository
func NewIdentityMetadataRepository(config *RepositoryConfig) services.IdentityMetadataStore {
	return &PostgresIdentityMetadataRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// get returns the identity's bag, or an empty bag if no row exists
func (r *PostgresIdentityMetadataRepository) get(ctx context.Context, identityID string) (models.JSONMap, error) {
	query := fmt.Sprintf(`
		SELECT metadata
		FROM %s
		WHERE identity_id = $1
	`, r.tables.IdentityMetadata)

	var metadata models.JSONMap
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, identityID).Scan(&metadata)
	if err != nil {
		if IsPgNoRowsError(err) {
			return models.JSONMap{}, nil
		}
		return nil, fmt.Errorf("get identity metadata: %w", err)
	}
	if metadata == nil {
		metadata = models.JSONMap{}
	}

	return metadata, nil
}

// merge upserts the row and merges patch into the stored bag in one statement.
// jsonb || keeps every key of the left operand that patch does not set.
func (r *PostgresIdentityMetadataRepository) merge(ctx context.Context, identityID string, patch models.JSONMap) error {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (identity_id, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (identity_id) DO UPDATE SET
			metadata = %[1]s.metadata || EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at
	`, r.tables.IdentityMetadata)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, identityID, patch, time.Now()); err != nil {
		return fmt.Errorf("merge identity metadata: %w", err)
	}

	return nil
}

// GetApproval reads the approval flag
func (r *PostgresIdentityMetadataRepository) GetApproval(ctx context.Context, identityID string) (bool, error) {
	metadata, err := r.get(ctx, identityID)
	if err != nil {
		return false, err
	}
	return metadata.Approved(), nil
}

// SetApproval writes the approval flag
func (r *PostgresIdentityMetadataRepository) SetApproval(ctx context.Context, identityID string, approved bool) error {
	return r.merge(ctx, identityID, models.JSONMap{models.MetadataKeyApproved: approved})
}

// GetAccessRequest reads the last access request
func (r *PostgresIdentityMetadataRepository) GetAccessRequest(ctx context.Context, identityID string) (*models.AccessRequest, error) {
	metadata, err := r.get(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return metadata.AccessRequest(), nil
}

// SetAccessRequest writes the access request fields
func (r *PostgresIdentityMetadataRepository) SetAccessRequest(ctx context.Context, identityID string, requested bool, at time.Time) error {
	return r.merge(ctx, identityID, models.AccessRequestPatch(requested, at))
}
