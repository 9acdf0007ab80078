package service

import "errors"

var (
	// ErrValidation wraps every rejected input: empty username or audio,
	// password mismatch, out of range metadata.
	ErrValidation = errors.New("validation failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")

	// ErrStorageWrite is returned when the audio file could not be written.
	// The index is left untouched in that case.
	ErrStorageWrite = errors.New("error storing recording")

	// ErrPublishDisabled is returned by PublishZip when no bucket is configured.
	ErrPublishDisabled = errors.New("export publishing is disabled")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
