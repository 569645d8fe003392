// Package orchestration turns a generation request into a best-effort
// result: credential batches with bounded parallelism, a fixed model chain,
// SDK-then-REST transport fallback, per-attempt deadlines, cooperative
// cancellation, and failure classification.
package orchestration

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/richinex/snapgen/llm"
)

// Handle identifies one registered attempt and owns its cancellation.
type Handle struct {
	// ID uniquely names the attempt; the registry matches registrations
	// by it.
	ID   string
	kind llm.Urgency

	cancel        context.CancelFunc
	userCancelled atomic.Bool
}

// CancelByUser marks the attempt as user-cancelled, then aborts it. The
// flag lets the orchestrator tell a user cancel from a deadline expiry,
// even though both reach the transport as the same context abort.
func (h *Handle) CancelByUser() {
	h.userCancelled.Store(true)
	h.cancel()
}

// UserCancelled reports whether the user explicitly cancelled this attempt.
func (h *Handle) UserCancelled() bool {
	return h.userCancelled.Load()
}

// InteractiveRequestRegistry tracks the current request for the external
// cancel entry point. At most one request is tracked at a time: starting a
// new one supersedes the bookkeeping for the previous one without aborting
// it, so the user-facing cancel action only affects the most recent request.
type InteractiveRequestRegistry struct {
	mu      sync.Mutex
	current *Handle
}

// NewInteractiveRequestRegistry creates an empty registry.
func NewInteractiveRequestRegistry() *InteractiveRequestRegistry {
	return &InteractiveRequestRegistry{}
}

// Register tracks a starting attempt and returns its handle.
func (r *InteractiveRequestRegistry) Register(kind llm.Urgency, cancel context.CancelFunc) *Handle {
	handle := &Handle{
		ID:     uuid.NewString(),
		kind:   kind,
		cancel: cancel,
	}
	r.mu.Lock()
	r.current = handle
	r.mu.Unlock()
	return handle
}

// Clear drops the registration, but only if it still belongs to the given
// handle. Matching is by request ID, so a superseding attempt's
// registration is left alone.
func (r *InteractiveRequestRegistry) Clear(handle *Handle) {
	r.mu.Lock()
	if r.current != nil && r.current.ID == handle.ID {
		r.current = nil
	}
	r.mu.Unlock()
}

// Cancel aborts the currently tracked request on behalf of the user and
// reports whether anything was actually cancelled. When fromShortcut is
// set, only an interactive request is affected; a background request keeps
// running.
func (r *InteractiveRequestRegistry) Cancel(fromShortcut bool) bool {
	r.mu.Lock()
	handle := r.current
	r.mu.Unlock()

	if handle == nil {
		return false
	}
	if fromShortcut && handle.kind != llm.UrgencyInteractive {
		return false
	}
	handle.CancelByUser()
	return true
}
