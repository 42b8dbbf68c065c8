package apperrors

import "errors"

var (
	ErrMissingEndpoint   = errors.New("tenant endpoint is required")
	ErrMissingDatabase   = errors.New("tenant database is required")
	ErrMissingCredential = errors.New("tenant credential is required")
	ErrInvalidEndpoint   = errors.New("tenant endpoint is not a valid URL")
	ErrInvalidPage       = errors.New("page and page size must be positive")
)
