package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	ErrInvalidMaxSessions     = errors.New("max sessions must be positive")
	ErrInvalidSiteTimeout     = errors.New("site timeout must be positive")
	ErrInvalidConcurrency     = errors.New("concurrency must not be negative")
	ErrMissingSnapshotDir     = errors.New("snapshot directory is required for file and sqlite backends")
	ErrUnknownSnapshotBackend = errors.New("snapshot backend must be one of: file, sqlite, none")
	ErrNoAPIKeys              = errors.New("auth is enabled but no API keys are configured")
)
