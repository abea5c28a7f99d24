package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of install failures
type ErrorType int

const (
	ErrPrecondition ErrorType = iota
	ErrTransientIO
	ErrIntegrity
	ErrContention
	ErrCancelled
	ErrInvalidConfig
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrPrecondition:
		return "Precondition"
	case ErrTransientIO:
		return "TransientIO"
	case ErrIntegrity:
		return "Integrity"
	case ErrContention:
		return "Contention"
	case ErrCancelled:
		return "Cancelled"
	case ErrInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

var (
	// ErrChecksumMismatch is returned when a download's SHA-1 differs from the declared one
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrSizeMismatch is returned when a download's length differs from the declared size
	ErrSizeMismatch = errors.New("size mismatch")
	// ErrUserCancelled is returned when the monitor asked for cancellation
	ErrUserCancelled = errors.New("cancelled by user")
)

// InstallError represents an error raised while installing one archive
type InstallError struct {
	Type    ErrorType
	Package string
	Err     error
}

// Error implements the error interface
func (e *InstallError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Package, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *InstallError) Unwrap() error {
	return e.Err
}

// NewInstallError creates a new InstallError
func NewInstallError(t ErrorType, pkg string, err error) *InstallError {
	return &InstallError{Type: t, Package: pkg, Err: err}
}

// Classify returns the ErrorType an error belongs to. Errors that are not
// an InstallError are classified from the sentinels they wrap, falling back
// to ErrTransientIO.
func Classify(err error) ErrorType {
	var ie *InstallError
	if errors.As(err, &ie) {
		return ie.Type
	}
	switch {
	case errors.Is(err, ErrChecksumMismatch), errors.Is(err, ErrSizeMismatch):
		return ErrIntegrity
	case errors.Is(err, ErrUserCancelled):
		return ErrCancelled
	default:
		return ErrTransientIO
	}
}
