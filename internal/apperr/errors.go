package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so handlers can map it to an HTTP status
// and the frontend can pick the right notification style.
type Kind string

const (
	// KindNotFound: the requested site/content/prompt has no matching record.
	KindNotFound Kind = "not_found"
	// KindValidation: the request body or parameters are invalid.
	KindValidation Kind = "validation"
	// KindWebhook: the outbound workflow call failed in a way attributable
	// to the workflow's activation state. Surfaced as 503 with guidance.
	KindWebhook Kind = "webhook"
	// KindUpstream: record-store or completion-API failure for an
	// unclassified reason (auth, network, quota).
	KindUpstream Kind = "upstream"
)

// Error is a domain-shaped error with a human-readable message. Adapters
// wrap raw client errors into one of these; a raw third-party error never
// leaks unformatted to a handler.
type Error struct {
	Kind    Kind
	Message string
	Hint    string // optional operator guidance, e.g. webhook activation steps
	Err     error  // underlying cause, kept for diagnostics
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Webhook(message, hint string) *Error {
	return &Error{Kind: KindWebhook, Message: message, Hint: hint}
}

func Upstream(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind of err, or KindUpstream when err is not a domain
// error (unclassified failures map to 500 at the API surface).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// AsError returns err as *Error when possible, otherwise wraps it as
// upstream with the given fallback message.
func AsError(err error, fallback string) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Upstream(err, fallback)
}
