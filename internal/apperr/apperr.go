package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Kind classifies an error for HTTP status mapping.
type Kind int

const (
	// KindInternal is an unexpected failure inside the service.
	KindInternal Kind = iota
	// KindValidation is bad or missing caller input.
	KindValidation
	// KindNotFound means a lookup (geocoding) produced no match.
	KindNotFound
	// KindProvider means an upstream API returned a non-success status.
	KindProvider
	// KindConfiguration means a required credential or bucket is missing.
	KindConfiguration
)

// Error carries a classified service error. UpstreamStatus is set only for
// provider errors.
type Error struct {
	Kind           Kind
	Message        string
	UpstreamStatus int
	Err            error
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

// Validation builds a caller-input error.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a no-match error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Configuration builds a deployment-problem error.
func Configuration(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// maxUpstreamBody bounds how much of an upstream response body ends up in an
// error message. Enough to see credential and quota diagnostics, no more.
const maxUpstreamBody = 256

// Upstream builds a provider error from a non-success HTTP response,
// embedding the status and a truncated body for diagnostics. The cut lands
// on a rune boundary so the message stays valid UTF-8.
func Upstream(provider string, status int, body []byte) *Error {
	detail := strings.TrimSpace(string(body))
	if len(detail) > maxUpstreamBody {
		cut := maxUpstreamBody
		for cut > 0 && !utf8.RuneStart(detail[cut]) {
			cut--
		}
		detail = detail[:cut] + "..."
	}
	msg := fmt.Sprintf("%s returned status %d", provider, status)
	if detail != "" {
		msg += ": " + detail
	}
	return &Error{Kind: KindProvider, Message: msg, UpstreamStatus: status}
}

// KindOf extracts the Kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the response status the caller should see.
// Input and upstream problems are the caller's to fix or retry (400-class);
// configuration and unexpected failures are ours (500-class).
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindNotFound, KindProvider:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
