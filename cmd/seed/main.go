package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"chatvault/internal/auth"
	"chatvault/internal/config"
	"chatvault/internal/domain/models"
	"chatvault/internal/domain/services"
	"chatvault/internal/repository/postgres"
	"chatvault/internal/service/access"
	"chatvault/internal/service/conversation"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file first so it can supply flag defaults
	_ = godotenv.Load()

	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed conversations")
	clearData := flag.Bool("clear-data", false, "Remove the seed identity's conversations (keep schema)")
	createUser := flag.Bool("create-user", false, "Create the seed user through the Supabase Admin API")
	email := flag.String("email", os.Getenv("SEED_USER_EMAIL"), "Seed user email (default $SEED_USER_EMAIL)")
	password := flag.String("password", os.Getenv("SEED_USER_PASSWORD"), "Seed user password (default $SEED_USER_PASSWORD)")
	userID := flag.String("user-id", os.Getenv("SEED_USER_ID"), "Existing identity to approve and seed (default $SEED_USER_ID)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, txManager, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}

	// Resolve the seed identity
	identityID := *userID
	if *createUser {
		identityID, err = createSeedUser(ctx, cfg, *email, *password)
		if err != nil {
			log.Fatalf("Failed to create seed user: %v", err)
		}
		log.Printf("👤 Created seed user %s (ID: %s)", *email, identityID)
	}
	if identityID == "" {
		log.Fatalf("No seed identity: pass --user-id (or SEED_USER_ID) or --create-user")
	}

	if *clearData {
		log.Println("🧹 Clearing the seed identity's conversations...")
		if err := clearConversations(ctx, pool, tables, identityID); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	// Approve the seed identity through the configured metadata backend
	var metadataStore services.IdentityMetadataStore
	if cfg.MetadataBackend == config.MetadataBackendPostgres {
		metadataStore = postgres.NewIdentityMetadataRepository(repoConfig)
	} else {
		metadataStore = auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)
	}
	gate := access.NewGate(metadataStore, logger)
	if err := gate.Approve(ctx, identityID); err != nil {
		log.Fatalf("Failed to approve seed identity: %v", err)
	}
	log.Printf("✅ Approved identity %s (backend: %s)", identityID, cfg.MetadataBackend)

	// Seed conversations through the service layer (handles validation and timestamps)
	conversationService := conversation.NewService(postgres.NewConversationRepository(repoConfig), logger)

	log.Println("📝 Seeding conversations...")
	titles := seedTitles()
	for i, title := range titles {
		c, err := conversationService.CreateConversation(ctx, &services.CreateConversationRequest{
			Title:   title,
			OwnerID: identityID,
		})
		if err != nil {
			log.Printf("❌ Failed to create conversation '%s': %v", title, err)
			continue
		}
		log.Printf("✅ Created conversation %d/%d: %s (ID: %s)", i+1, len(titles), c.Title, c.ID)
	}

	log.Println("🎉 Seeding complete!")
}

// createSeedUser recreates a confirmed Supabase user and returns its id.
func createSeedUser(ctx context.Context, cfg *config.Config, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("--create-user needs an email and password")
	}
	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		return "", fmt.Errorf("--create-user needs SUPABASE_URL and SUPABASE_KEY")
	}

	client := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)

	// Delete first so reruns start clean
	if err := client.DeleteUserByEmail(ctx, email); err != nil {
		return "", err
	}

	return client.CreateUser(ctx, email, password, models.JSONMap{})
}

// clearConversations hard deletes the identity's conversations
func clearConversations(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, ownerID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE owner_id = $1`, tables.Conversations)
	_, err := pool.Exec(ctx, query, ownerID)
	return err
}

func seedTitles() []string {
	return []string{
		"Weekend trip to the coast",
		"Debugging the flaky integration test",
		"Reading list for the winter",
		"Questions about the lease renewal",
		"Birthday dinner ideas",
	}
}
