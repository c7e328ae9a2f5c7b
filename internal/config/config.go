package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Identity metadata backends
const (
	MetadataBackendSupabase = "supabase"
	MetadataBackendPostgres = "postgres"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseKey     string // service role key, used for the admin API
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins     string
	TablePrefix     string
	// Access control
	MetadataBackend string
	AdminUserIDs    []string
	AdminPolicyPath string
	// Anonymous sessions (disabled when RedisURL is empty)
	RedisURL            string
	AnonymousSessionTTL time.Duration
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")

	// Construct JWKS URL from Supabase URL
	jwksURL := getEnv("SUPABASE_JWKS_URL", supabaseURL+"/auth/v1/.well-known/jwks.json")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		SupabaseDBURL:   getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL: jwksURL,
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     tablePrefix,
		// Access control
		MetadataBackend: getEnv("IDENTITY_METADATA_BACKEND", MetadataBackendSupabase),
		AdminUserIDs:    splitList(getEnv("ADMIN_USER_IDS", "")),
		AdminPolicyPath: getEnv("ADMIN_POLICY_PATH", ""),
		// Anonymous sessions
		RedisURL:            getEnv("REDIS_URL", ""),
		AnonymousSessionTTL: time.Duration(getEnvInt("ANONYMOUS_SESSION_TTL_SECONDS", 30*24*3600)) * time.Second,
		// Logging
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.SupabaseDBURL, validation.Required),
		validation.Field(&c.SupabaseJWKSURL, validation.Required),
		validation.Field(&c.MetadataBackend,
			validation.Required,
			validation.In(MetadataBackendSupabase, MetadataBackendPostgres),
		),
		validation.Field(&c.SupabaseURL,
			validation.When(c.MetadataBackend == MetadataBackendSupabase, validation.Required),
		),
		validation.Field(&c.SupabaseKey,
			validation.When(c.MetadataBackend == MetadataBackendSupabase, validation.Required),
		),
		validation.Field(&c.AnonymousSessionTTL, validation.Min(time.Minute)),
	)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// splitList splits a comma separated value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
