// Package apperr classifies failures at the service's I/O boundaries.
//
// Three kinds exist: transient failures that may succeed on retry (stream or
// catalog fetch), permanent failures (missing or unsupported media), and
// configuration-invalid failures (malformed settings).
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the classification of an application error
type Kind int

const (
	// KindTransient indicates a retryable failure
	KindTransient Kind = iota
	// KindPermanent indicates a failure that will not succeed on retry
	KindPermanent
	// KindConfigInvalid indicates rejected configuration input
	KindConfigInvalid
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	case KindConfigInvalid:
		return "config_invalid"
	default:
		return "unknown"
	}
}

// Error is a classified error carrying the failing operation
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// Transient wraps err as a transient failure of op
func Transient(op string, err error) *Error {
	return &Error{Op: op, Kind: KindTransient, Err: err}
}

// Permanent wraps err as a permanent failure of op
func Permanent(op string, err error) *Error {
	return &Error{Op: op, Kind: KindPermanent, Err: err}
}

// ConfigInvalid wraps err as a configuration failure of op
func ConfigInvalid(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConfigInvalid, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
// Unclassified errors are reported as transient.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindTransient
}

// IsTransient checks if err is classified as transient
func IsTransient(err error) bool {
	return err != nil && KindOf(err) == KindTransient
}

// IsPermanent checks if err is classified as permanent
func IsPermanent(err error) bool {
	return err != nil && KindOf(err) == KindPermanent
}

// IsConfigInvalid checks if err is classified as configuration-invalid
func IsConfigInvalid(err error) bool {
	return err != nil && KindOf(err) == KindConfigInvalid
}

// HTTPStatus maps an error kind to the response status used by the API
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindPermanent:
		return http.StatusNotFound
	case KindConfigInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusServiceUnavailable
	}
}
