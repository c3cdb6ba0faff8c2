package common

import "errors"

// Kind is the stable machine-readable code of a failure.
type Kind string

const (
	KindMissingCredential Kind = "MISSING_CREDENTIAL"
	KindUnauthenticated   Kind = "UNAUTHENTICATED"
	KindForbidden         Kind = "FORBIDDEN"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindTooLarge          Kind = "TOO_LARGE"
	KindUnsupportedType   Kind = "UNSUPPORTED_TYPE"
	KindExtractionFailed  Kind = "EXTRACTION_FAILED"
	KindEmptyDocument     Kind = "EMPTY_DOCUMENT"
	KindNotFound          Kind = "NOT_FOUND"
	KindUnavailable       Kind = "UNAVAILABLE"
	KindInternal          Kind = "INTERNAL"
)

// kinds is ordered: the first matching sentinel wins.
var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrMissingCredential, KindMissingCredential},
	{ErrUnauthenticated, KindUnauthenticated},
	{ErrForbidden, KindForbidden},
	{ErrValidation, KindValidation},
	{ErrTooLarge, KindTooLarge},
	{ErrUnsupportedType, KindUnsupportedType},
	{ErrExtractionFailed, KindExtractionFailed},
	{ErrEmptyDocument, KindEmptyDocument},
	{ErrNotFound, KindNotFound},
	{ErrUnavailable, KindUnavailable},
	{ErrInternal, KindInternal},
}

// KindOf maps err to its failure kind. Errors outside the taxonomy are
// reported as KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// IsDomain reports whether err belongs to a domain failure kind, as opposed
// to an infrastructure fault.
func IsDomain(err error) bool {
	switch KindOf(err) {
	case "", KindUnavailable, KindInternal:
		return false
	}
	return true
}
