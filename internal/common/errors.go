// Package common defines shared constants and sentinel errors used across
// the uploader and the server. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Superuser bootstrap outcomes.
	ErrSuperuserExists        = errors.New("superuser already exists")
	ErrSuperuserConfigMissing = errors.New("superuser environment variables are missing")
	ErrUsernameTaken          = errors.New("username already taken")

	// Startup configuration errors.
	ErrMissingSecretKey   = errors.New("SECRET_KEY missing in production")
	ErrUnsupportedDBURL   = errors.New("unsupported database url")
	ErrInvalidDeployMode  = errors.New("invalid deployment mode")
	ErrMissingCredentials = errors.New("missing credentials")

	// Uploader preconditions.
	ErrMissingInputDir   = errors.New("input directory not found")
	ErrNothingToUpload   = errors.New("no files to upload")
	ErrConnectionFailed  = errors.New("connection failed")
	ErrBucketUnavailable = errors.New("bucket unavailable")
)
