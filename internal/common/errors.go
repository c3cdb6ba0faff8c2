// Package common defines the failure taxonomy shared by every supportdesk
// component, plus a few small helpers. Callers should use errors.Is to match
// these values and KindOf to obtain the stable machine-readable code.
package common

import (
	"errors"
	"fmt"
)

var (
	// Access errors.
	ErrMissingCredential = errors.New("authentication token missing")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")

	// Input errors.
	ErrValidation = errors.New("validation error")

	// Upload admission errors.
	ErrTooLarge         = errors.New("file too large")
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrExtractionFailed = errors.New("text extraction failed")
	ErrEmptyDocument    = errors.New("empty document")

	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Infrastructure errors.
	ErrUnavailable = errors.New("service unavailable")
	ErrInternal    = errors.New("internal error")
)

// Token verification errors. All of them are Unauthenticated.
var (
	ErrTokenInvalidSignature = fmt.Errorf("%w: invalid token signature", ErrUnauthenticated)
	ErrTokenExpired          = fmt.Errorf("%w: token expired", ErrUnauthenticated)
	ErrTokenMalformed        = fmt.Errorf("%w: malformed token", ErrUnauthenticated)
)
