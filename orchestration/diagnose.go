package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/richinex/snapgen/llm"
)

// FailureClass groups the errors collected across exhausted attempts so the
// diagnostic can name one dominant cause and its remediation.
type FailureClass int

const (
	ClassOther FailureClass = iota
	ClassCredential
	ClassTimeout
	ClassRateLimit
	ClassModelNotFound
	ClassPermission
)

// String returns the class name.
func (c FailureClass) String() string {
	switch c {
	case ClassCredential:
		return "credential"
	case ClassTimeout:
		return "timeout"
	case ClassRateLimit:
		return "rate-limit"
	case ClassModelNotFound:
		return "model-not-found"
	case ClassPermission:
		return "permission"
	default:
		return "other"
	}
}

// classifyFailure maps one collected error onto its failure class, using
// the structured kinds the transports attached when they inspected the
// response.
func classifyFailure(err error) FailureClass {
	if errors.Is(err, ErrTimedOut) || errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}
	switch llm.KindOf(err) {
	case llm.KindCredentialInvalid:
		return ClassCredential
	case llm.KindRateLimited:
		return ClassRateLimit
	case llm.KindModelNotFound:
		return ClassModelNotFound
	case llm.KindPermission:
		return ClassPermission
	default:
		return ClassOther
	}
}

// ExhaustionError is the synthesized diagnostic produced when every
// credential was tried without a single success.
type ExhaustionError struct {
	Models   []string
	Dominant FailureClass
	Errors   []error
}

// newExhaustionError classifies the collected per-attempt errors and picks
// the most frequent class as the dominant cause.
func newExhaustionError(models []string, errs []error) *ExhaustionError {
	counts := make(map[FailureClass]int)
	for _, err := range errs {
		counts[classifyFailure(err)]++
	}
	dominant := ClassOther
	best := 0
	for class, count := range counts {
		if count > best || (count == best && class > dominant) {
			dominant = class
			best = count
		}
	}
	return &ExhaustionError{Models: models, Dominant: dominant, Errors: errs}
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("all generation attempts failed (models tried: %s): %s",
		strings.Join(e.Models, ", "), e.hint())
}

// hint returns the remediation specific to the dominant failure class.
func (e *ExhaustionError) hint() string {
	switch e.Dominant {
	case ClassCredential:
		return "every configured API key was rejected; check your credentials"
	case ClassTimeout:
		return "the service did not respond in time; retry, or disable web search"
	case ClassRateLimit:
		return "all credentials are rate limited; wait a moment before retrying"
	case ClassModelNotFound:
		return "the requested model was not recognized; check the model name"
	case ClassPermission:
		return "the API key does not have access to the requested model"
	default:
		return "check your API keys and network connection"
	}
}

// UserErrorMessage renders an orchestration failure as the single
// human-readable string shown to the user. Cancellation is reported as
// such, a safety block gets its own sentence, and everything else carries
// the uniform prefix the surrounding application expects.
func UserErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUserCancelled):
		return "Request cancelled"
	case errors.Is(err, ErrTimedOut):
		return "Request timed out"
	case errors.Is(err, llm.ErrSafetyBlocked):
		return "The response was blocked by content safety filters. Try rephrasing your request."
	default:
		return "API error occurred: " + err.Error()
	}
}
