package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSafetyBlocked means the transport succeeded at the protocol level but
// the model declined to generate. Surfaced to the user as its own sentence,
// never as a generic failure.
var ErrSafetyBlocked = errors.New("generation blocked by content safety filters")

// ErrNoUsableOutput means a structurally valid response carried no usable
// text or image.
var ErrNoUsableOutput = errors.New("response contained no usable output")

// ErrorKind classifies a transport failure at the point the HTTP status and
// body are inspected. Callers branch on the kind; they never re-derive it
// from a stringified message.
type ErrorKind int

const (
	// KindUnclassified covers failures with no special handling.
	KindUnclassified ErrorKind = iota
	// KindCredentialInvalid means the credential was rejected; the caller
	// should move to the next credential and never retry this one.
	KindCredentialInvalid
	// KindRateLimited means the service throttled the request.
	KindRateLimited
	// KindModelNotFound means the model name was not recognized.
	KindModelNotFound
	// KindPermission means the credential lacks access to the model.
	KindPermission
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindCredentialInvalid:
		return "credential-invalid"
	case KindRateLimited:
		return "rate-limited"
	case KindModelNotFound:
		return "model-not-found"
	case KindPermission:
		return "permission"
	default:
		return "unclassified"
	}
}

// ClientInitError means an SDK-style client could not be constructed for a
// credential. Always soft: the caller skips the SDK path and falls through
// to the REST transport.
type ClientInitError struct {
	Err error
}

func (e *ClientInitError) Error() string {
	return fmt.Sprintf("client initialization failed: %v", e.Err)
}

func (e *ClientInitError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response from the REST transport, carrying the
// status, the raw body, and the kind classified from them.
type HTTPError struct {
	Status int
	Body   string
	Kind   ErrorKind
}

func (e *HTTPError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.Status, body)
}

// invalid-credential signatures observed in upstream error bodies.
var credentialInvalidMarkers = []string{
	"API_KEY_INVALID",
	"API key not valid",
	"API key expired",
}

// newHTTPError builds an HTTPError, classifying the failure from the status
// code and the error body.
func newHTTPError(status int, body string) *HTTPError {
	return &HTTPError{Status: status, Body: body, Kind: classifyHTTP(status, body)}
}

func classifyHTTP(status int, body string) ErrorKind {
	for _, marker := range credentialInvalidMarkers {
		if strings.Contains(body, marker) {
			return KindCredentialInvalid
		}
	}
	switch {
	case status == http.StatusTooManyRequests || strings.Contains(body, "RESOURCE_EXHAUSTED"):
		return KindRateLimited
	case status == http.StatusNotFound || strings.Contains(body, "NOT_FOUND"):
		return KindModelNotFound
	case status == http.StatusForbidden || strings.Contains(body, "PERMISSION_DENIED"):
		return KindPermission
	case status == http.StatusUnauthorized:
		return KindCredentialInvalid
	default:
		return KindUnclassified
	}
}

// KindOf returns the classified kind of a transport error, or
// KindUnclassified for errors that carry none.
func KindOf(err error) ErrorKind {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Kind
	}
	return KindUnclassified
}
