package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"chatvault/internal/auth"
	"chatvault/internal/config"
	"chatvault/internal/domain/services"
	"chatvault/internal/handler"
	"chatvault/internal/middleware"
	"chatvault/internal/repository/postgres"
	"chatvault/internal/service/access"
	"chatvault/internal/service/conversation"
	sessionservice "chatvault/internal/service/session"
	"chatvault/internal/session"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"metadata_backend", cfg.MetadataBackend,
	)

	ctx := context.Background()

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(ctx, cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	conversationRepo := postgres.NewConversationRepository(repoConfig)

	// Identity metadata backend (approval flag and access requests)
	var metadataStore services.IdentityMetadataStore
	switch cfg.MetadataBackend {
	case config.MetadataBackendPostgres:
		metadataStore = postgres.NewIdentityMetadataRepository(repoConfig)
	default:
		metadataStore = auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)
	}

	// Administrators
	admins, err := cfg.Admins()
	if err != nil {
		log.Fatalf("Failed to load admin policy: %v", err)
	}
	if admins.Len() == 0 {
		logger.Warn("no administrators configured, approvals can only be granted out of band")
	}

	// Access control
	resolver := access.NewTokenResolver(jwtVerifier, logger)
	gate := access.NewGate(metadataStore, logger)
	decider := access.NewDecider(resolver, gate)

	// Conversation service
	conversationService := conversation.NewService(conversationRepo, logger)

	// Anonymous sessions (optional, requires Redis)
	var sessionService services.AnonymousSessionService
	if cfg.RedisURL != "" {
		store, err := session.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer store.Close()
		sessionService = sessionservice.NewService(store, cfg.AnonymousSessionTTL, logger)
		logger.Info("anonymous sessions enabled", "ttl", cfg.AnonymousSessionTTL.String())
	} else {
		logger.Info("anonymous sessions disabled (REDIS_URL not set)")
	}

	logger.Info("services initialized", "admins", admins.Len())

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Dependencies{
		Conversations: conversationService,
		Gate:          gate,
		Decider:       decider,
		Resolver:      resolver,
		Sessions:      sessionService,
		Admins:        admins,
		Logger:        logger,
	})

	// Build middleware chain
	// Order: CORS → Recovery → per-route access checks → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
