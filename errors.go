package xavassl

import (
	"errors"
	"fmt"
)

var (
	ErrKeyGeneration       = errors.New("key generation failure")
	ErrMalformedPEM        = errors.New("malformed pem")
	ErrMalformedCSR        = errors.New("malformed certificate request")
	ErrInvalidCSRSignature = errors.New("invalid certificate request signature")
	ErrUnsupportedRequest  = errors.New("unsupported certificate request")
	ErrSigning             = errors.New("signing failure")
	ErrFileWrite           = errors.New("file write failure")
)

// Error is returned by every operation of this package. Kind is one of the
// Err* values above, Op names the step that failed.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("xavassl: %s failed, %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("xavassl: %s failed, %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewError(op string, kind error, err error) *Error {
	return &Error{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// IsRequestError reports whether err was caused by the submitted request
// rather than by the issuer itself.
func IsRequestError(err error) bool {
	return errors.Is(err, ErrMalformedPEM) ||
		errors.Is(err, ErrMalformedCSR) ||
		errors.Is(err, ErrInvalidCSRSignature) ||
		errors.Is(err, ErrUnsupportedRequest)
}
