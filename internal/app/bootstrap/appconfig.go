// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging); AppConfig is everything
// specific to Stampa.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Bearer token configuration
	JWTSecret string        // HS256 signing secret (must be strong in production)
	TokenTTL  time.Duration // Lifetime of issued tokens

	// Account avatar storage (generated initials avatars at registration).
	// Project avatars go to per-project buckets instead.
	AvatarBucket string // Application-wide bucket for account avatars
	AvatarRegion string // Region of the account avatar bucket
}
