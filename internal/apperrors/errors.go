package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure. Handlers map kinds to HTTP
// status codes; services attach a specific reason to every failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation covers malformed or out-of-contract input
	// (wrong payment amount, zero price or threshold, split > 100).
	KindValidation
	// KindState covers operations invoked in the wrong lifecycle phase
	// (buying while a draw is pending, double commitment, etc).
	KindState
	// KindAuthorization covers callers lacking the identity a
	// privileged operation requires.
	KindAuthorization
	// KindProof covers claims failing digest or Merkle verification,
	// including replays of already-claimed digests.
	KindProof
	// KindTransfer covers prize or fee payments that fail to complete.
	KindTransfer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindState:
		return "state"
	case KindAuthorization:
		return "authorization"
	case KindProof:
		return "proof"
	case KindTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Error is a classified operation error with a caller-visible reason.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Validationf builds a KindValidation error.
func Validationf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

// Statef builds a KindState error.
func Statef(format string, args ...interface{}) error {
	return &Error{Kind: KindState, Reason: fmt.Sprintf(format, args...)}
}

// Authorizationf builds a KindAuthorization error.
func Authorizationf(format string, args ...interface{}) error {
	return &Error{Kind: KindAuthorization, Reason: fmt.Sprintf(format, args...)}
}

// Prooff builds a KindProof error.
func Prooff(format string, args ...interface{}) error {
	return &Error{Kind: KindProof, Reason: fmt.Sprintf(format, args...)}
}

// Transferf builds a KindTransfer error wrapping the underlying cause.
func Transferf(err error, format string, args ...interface{}) error {
	return &Error{Kind: KindTransfer, Reason: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the classification of err, or KindUnknown if err does
// not carry one anywhere in its chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
