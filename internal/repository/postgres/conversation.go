package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"chatvault/internal/domain"
	"chatvault/internal/domain/models"
	"chatvault/internal/domain/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConversationRepository implements ConversationRepository using PostgreSQL.
// Every statement carries an owner_id predicate.
type PostgresConversationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewConversationRepository creates a new PostgresConversationRepository
func NewConversationRepository(config *RepositoryConfig) repositories.ConversationRepository {
	return &PostgresConversationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const conversationColumns = "id, owner_id, title, created_at, updated_at, deleted_at"

// Create inserts a conversation
func (r *PostgresConversationRepository) Create(ctx context.Context, conversation *models.Conversation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		conversation.OwnerID,
		conversation.Title,
		conversation.CreatedAt,
		conversation.UpdatedAt,
	).Scan(&conversation.ID, &conversation.CreatedAt, &conversation.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}

	return nil
}

// ListByOwner retrieves the owner's conversations, most recent activity first
func (r *PostgresConversationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY updated_at DESC, created_at DESC, id
	`, conversationColumns, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		conversation, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, *conversation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	// Return empty slice instead of nil
	if conversations == nil {
		conversations = []models.Conversation{}
	}

	return conversations, nil
}

// GetByID retrieves a conversation owned by ownerID
func (r *PostgresConversationRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`, conversationColumns, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	conversation, err := scanConversation(executor.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	return conversation, nil
}

// Delete soft-deletes a conversation owned by ownerID.
// Zero affected rows is not an error.
func (r *PostgresConversationRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		if IsPgInvalidTextError(err) {
			return nil
		}
		return fmt.Errorf("delete conversation: %w", err)
	}

	if result.RowsAffected() == 0 {
		r.logger.Debug("delete matched no conversation", "id", id, "owner_id", ownerID)
	}

	return nil
}

func scanConversation(row pgx.Row) (*models.Conversation, error) {
	var conversation models.Conversation
	err := row.Scan(
		&conversation.ID,
		&conversation.OwnerID,
		&conversation.Title,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
		&conversation.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}
