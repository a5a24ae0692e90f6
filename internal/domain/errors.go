package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogUnavailable is returned when the backing catalog cannot be read
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrInvalidCatalog is returned when the catalog was read but its contents are malformed
	ErrInvalidCatalog = errors.New("invalid catalog data")
)

// ErrorKind classifies an Error so callers can branch on it instead of on message text.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidInput
	KindTooMany
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindTooMany:
		return "too_many"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Machine-readable error codes carried in API error payloads.
const (
	CodeTooFewIDs          = "TOO_FEW_IDS"
	CodeTooManyIDs         = "TOO_MANY_IDS"
	CodeInvalidIDs         = "INVALID_IDS"
	CodeInvalidCriteria    = "INVALID_CRITERIA"
	CodeInvalidFilter      = "INVALID_FILTER"
	CodeMissingQuery       = "MISSING_QUERY"
	CodeMissingCategory    = "MISSING_CATEGORY"
	CodeMissingID          = "MISSING_ID"
	CodeProductNotFound    = "PRODUCT_NOT_FOUND"
	CodeProductsNotFound   = "PRODUCTS_NOT_FOUND"
	CodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error is the tagged error returned by the catalog and comparison services.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidInput builds a caller-fixable validation error.
func InvalidInput(code, message string) *Error {
	return &Error{Kind: KindInvalidInput, Code: code, Message: message}
}

// TooMany builds an error for a request that exceeds a per-view cap.
func TooMany(code, message string) *Error {
	return &Error{Kind: KindTooMany, Code: code, Message: message}
}

// NotFound builds an error for an absent product or an entirely unresolved id set.
func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// Internal wraps a backing-store or otherwise unexpected failure.
func Internal(code, message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: message, Err: err}
}

// KindOf reports the kind of err. Errors that are not *Error are internal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
