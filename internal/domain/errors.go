package domain

import "errors"

// Domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalError  = errors.New("internal error")
	ErrNameRequired   = errors.New("name is required")
	ErrNameTooLong    = errors.New("name exceeds maximum length")
	ErrDateRequired   = errors.New("date is required")
	ErrDateInFuture   = errors.New("date cannot be in the future")
	ErrAmountInvalid  = errors.New("amount must be positive")
	ErrPersistence    = errors.New("failed to persist data")
	ErrBlobNotFound   = errors.New("blob not found")
	ErrBackupDisabled = errors.New("backup storage is not configured")
	ErrImportRejected = errors.New("import rejected")
)

// Validation constants
const (
	MaxNameLength = 200
)
