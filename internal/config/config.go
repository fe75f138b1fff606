// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/MKhiriev/go-quest-ledger/models"
)

// StructuredConfig is the top-level configuration container for the
// quest-ledger server. It is populated by merging values from environment
// variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters, the admin key and entitlement defaults.
	App App `envPrefix:"APP_"`

	// Storage selects and configures the storage driver and the proof
	// object store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Notifier configures the outbound notification channel.
	Notifier Notifier `envPrefix:"NOTIFIER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// Catalog lists the purchasable packages. It can only be set from the
	// JSON file; when empty, [models.DefaultCatalog] is used.
	Catalog models.Catalog

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a token remains valid after issuance.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// AdminKey must be presented in the X-Admin-Key header on admin routes.
	// Env: APP_ADMIN_KEY
	AdminKey string `env:"ADMIN_KEY"`

	// InitialFreeTrials is the trial balance granted on registration.
	// Nil means DefaultInitialFreeTrials; an explicit zero grants none.
	// Env: APP_INITIAL_FREE_TRIALS
	InitialFreeTrials *int64 `env:"INITIAL_FREE_TRIALS"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// FreeTrialsOnRegistration returns the configured trial balance for new
// accounts, falling back to DefaultInitialFreeTrials when unset.
func (a App) FreeTrialsOnRegistration() int64 {
	if a.InitialFreeTrials == nil {
		return DefaultInitialFreeTrials
	}
	return *a.InitialFreeTrials
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB selects the remote driver when DSN is non-empty.
	DB DB `envPrefix:"DB_"`

	// Files configures the local file driver.
	Files Files `envPrefix:"FILES_"`

	// Proofs configures where payment proof uploads are kept.
	Proofs Proofs `envPrefix:"PROOFS_"`
}

// DB holds connection settings for the remote driver.
type DB struct {
	// DSN is the PostgreSQL connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds settings for the local file driver.
type Files struct {
	// Dir is the directory holding users.json, payments.json, progress.json
	// and resets.json.
	// Env: STORAGE_FILES_DIR
	Dir string `env:"DIR"`
}

// Proofs configures the proof object store. When Endpoint is set, proofs
// go to a MinIO/S3 bucket; otherwise they are written under LocalDir.
type Proofs struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET"`
	UseSSL    bool   `env:"USE_SSL"`
	LocalDir  string `env:"LOCAL_DIR"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Notifier configures delivery of user-facing notices.
type Notifier struct {
	// WebhookURL receives a JSON POST per event. Empty means log-only.
	WebhookURL string        `env:"WEBHOOK_URL"`
	Timeout    time.Duration `env:"TIMEOUT"`

	// SigningKey, when set, signs every webhook body with HMAC-SHA256 in
	// the X-Signature header.
	SigningKey string `env:"SIGNING_KEY"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// ReconcileInterval is how often approved-but-uncredited payments are
	// looked for.
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL"`

	// ReconcileGrace is how old an uncredited approval must be before it
	// is reported.
	ReconcileGrace time.Duration `env:"RECONCILE_GRACE"`
}

// Defaults applied after merging when a field is still unset.
const (
	DefaultHTTPAddress       = "localhost:8080"
	DefaultFilesDir          = "data"
	DefaultProofsDir         = "uploads"
	DefaultTokenIssuer       = "go-quest-ledger"
	DefaultTokenDuration     = 7 * 24 * time.Hour
	DefaultRequestTimeout    = 30 * time.Second
	DefaultInitialFreeTrials = 5
	DefaultNotifierTimeout   = 5 * time.Second
	DefaultReconcileInterval = time.Minute
	DefaultReconcileGrace    = 5 * time.Minute
)

// GetStructuredConfig loads, merges, and validates the server configuration
// from all available sources in the following priority order (last source
// wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}

// applyDefaults fills every unset field with its default value.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = DefaultTokenIssuer
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = DefaultTokenDuration
	}
	if cfg.App.InitialFreeTrials == nil {
		trials := int64(DefaultInitialFreeTrials)
		cfg.App.InitialFreeTrials = &trials
	}
	if cfg.Storage.Files.Dir == "" {
		cfg.Storage.Files.Dir = DefaultFilesDir
	}
	if cfg.Storage.Proofs.LocalDir == "" {
		cfg.Storage.Proofs.LocalDir = DefaultProofsDir
	}
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Notifier.Timeout == 0 {
		cfg.Notifier.Timeout = DefaultNotifierTimeout
	}
	if cfg.Workers.ReconcileInterval == 0 {
		cfg.Workers.ReconcileInterval = DefaultReconcileInterval
	}
	if cfg.Workers.ReconcileGrace == 0 {
		cfg.Workers.ReconcileGrace = DefaultReconcileGrace
	}
	if len(cfg.Catalog) == 0 {
		cfg.Catalog = models.DefaultCatalog()
	}
}
