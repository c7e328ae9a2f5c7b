package postgres

import (
	"context"
	"fmt"

	"chatvault/internal/domain/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements returns the idempotent DDL for the prefixed tables.
func schemaStatements(tables *TableNames) []string {
	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				owner_id TEXT NOT NULL,
				title VARCHAR(255) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMPTZ
			)`, tables.Conversations),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %[1]s_owner_recent_idx
			ON %[1]s (owner_id, updated_at DESC)
			WHERE deleted_at IS NULL`, tables.Conversations),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				identity_id TEXT PRIMARY KEY,
				metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.IdentityMetadata),
	}
}

// EnsureSchema creates missing tables and indexes in a single transaction.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, txManager repositories.TransactionManager, tables *TableNames) error {
	return txManager.ExecTx(ctx, func(txCtx context.Context) error {
		executor := GetExecutor(txCtx, pool)
		for _, stmt := range schemaStatements(tables) {
			if _, err := executor.Exec(txCtx, stmt); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		return nil
	})
}

// DropSchema drops the prefixed tables. Used by the seed command only.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	query := fmt.Sprintf(`DROP TABLE IF EXISTS %s, %s CASCADE`, tables.Conversations, tables.IdentityMetadata)
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}
