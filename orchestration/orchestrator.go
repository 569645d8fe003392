package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/richinex/snapgen/llm"
	"github.com/richinex/snapgen/storage"
)

// Per-attempt deadlines. Web search dominates: a grounded answer needs the
// upstream search round-trip on top of generation.
const (
	textAttemptTimeout   = 30 * time.Second
	imageAttemptTimeout  = 45 * time.Second
	searchAttemptTimeout = 60 * time.Second
)

// credentialBatchSize bounds simultaneous outbound attempts, limiting load
// on the upstream API and on local resources.
const credentialBatchSize = 2

// interactiveMaxOutputTokens caps shortcut-triggered requests; they exist
// for quick edits, not long-form output.
const interactiveMaxOutputTokens = 2048

// ErrEmptyPrompt rejects a request before any network attempt.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// ErrNoCredentials means the resolver produced nothing to attempt with.
var ErrNoCredentials = errors.New("no API credentials configured")

// ErrUserCancelled means the user explicitly cancelled the request.
var ErrUserCancelled = errors.New("request cancelled by user")

// ErrTimedOut means the attempt deadline elapsed without a cancel.
var ErrTimedOut = errors.New("request timed out")

// Result is a completed generation. Exactly one of Text and Image is
// populated, matching the request's modality.
type Result struct {
	Text    string
	Sources []llm.Source
	Image   *llm.ImageResult
}

// CredentialResolver yields the ordered, de-duplicated credentials to
// attempt.
type CredentialResolver interface {
	Resolve(ctx context.Context) []string
}

// clientPool is the slice of llm.ClientPool the orchestrator uses.
type clientPool interface {
	GetOrCreate(ctx context.Context, credential string) (*genai.Client, error)
}

// sdkTransport performs one attempt through a pooled persistent client.
type sdkTransport interface {
	GenerateText(ctx context.Context, client *genai.Client, model, prompt string, cfg llm.GenerationConfig, useWebSearch bool) (*llm.TextResult, error)
	GenerateImage(ctx context.Context, client *genai.Client, model, prompt string, image *llm.ImageInput, cfg llm.GenerationConfig) (*llm.ImageResult, error)
}

// restTransport performs one attempt over plain HTTP; the last-resort,
// authoritative transport.
type restTransport interface {
	GenerateText(ctx context.Context, credential, model, prompt string, cfg llm.GenerationConfig, useWebSearch bool) (*llm.TextResult, error)
	GenerateImage(ctx context.Context, credential, model, prompt string, image *llm.ImageInput, cfg llm.GenerationConfig) (*llm.ImageResult, error)
}

var (
	_ clientPool    = (*llm.ClientPool)(nil)
	_ sdkTransport  = (*llm.SDKTransport)(nil)
	_ restTransport = (*llm.RESTTransport)(nil)
)

// Orchestrator iterates credentials, models, and transports until one
// attempt succeeds or everything is exhausted.
type Orchestrator struct {
	credentials CredentialResolver
	pool        clientPool
	sdk         sdkTransport
	rest        restTransport
	cache       *storage.ResponseCache[Result]
	registry    *InteractiveRequestRegistry

	searchPreferred string

	// Deadlines are fields so tests can shorten them.
	textTimeout   time.Duration
	imageTimeout  time.Duration
	searchTimeout time.Duration
}

// New creates an orchestrator with the production transports and cache.
func New(credentials CredentialResolver, registry *InteractiveRequestRegistry) *Orchestrator {
	return &Orchestrator{
		credentials:     credentials,
		pool:            llm.NewClientPool(),
		sdk:             llm.NewSDKTransport(),
		rest:            llm.NewRESTTransport(),
		cache:           storage.NewResponseCache[Result](),
		registry:        registry,
		searchPreferred: llm.SearchPreferredModel,
		textTimeout:     textAttemptTimeout,
		imageTimeout:    imageAttemptTimeout,
		searchTimeout:   searchAttemptTimeout,
	}
}

// ClearCache drops all cached responses.
func (o *Orchestrator) ClearCache() {
	o.cache.Clear()
}

// Generate turns a request into a best-effort result.
//
// Credentials are attempted in batches of at most two, batches sequential,
// attempts within a batch concurrent. Per credential, each model in the
// chain is tried SDK first then REST. A rejected credential abandons that
// credential's remaining models but not the request; a timeout or user
// cancel abandons the whole request; any other failure surfaces as-is
// rather than silently moving on. The first success wins and, for
// background requests, populates the response cache.
func (o *Orchestrator) Generate(ctx context.Context, req llm.GenerationRequest) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if req.Model == "" {
		req.Model = llm.DefaultModel
	}
	if req.Urgency == llm.UrgencyInteractive {
		if req.Config.MaxOutputTokens == 0 || req.Config.MaxOutputTokens > interactiveMaxOutputTokens {
			req.Config.MaxOutputTokens = interactiveMaxOutputTokens
		}
	}

	var fingerprint string
	if req.Urgency == llm.UrgencyBackground {
		var imageData []byte
		if req.Image != nil {
			imageData = req.Image.Data
		}
		fingerprint = storage.Fingerprint(req.Prompt, llm.BareModel(req.Model), req.UseWebSearch, imageData)
		if cached, ok := o.cache.Get(fingerprint); ok {
			return &cached, nil
		}
	}

	chain := llm.BuildModelChain(req.Model, o.searchPreferred)
	credentials := o.credentials.Resolve(ctx)
	if len(credentials) == 0 {
		return nil, ErrNoCredentials
	}

	var failed []error
	for start := 0; start < len(credentials); start += credentialBatchSize {
		end := start + credentialBatchSize
		if end > len(credentials) {
			end = len(credentials)
		}
		batch := credentials[start:end]

		// Buffered channel prevents goroutine leaks when the first
		// success returns before its siblings finish.
		outcomes := make(chan attemptOutcome, len(batch))
		for _, credential := range batch {
			go func(credential string) {
				result, err := o.attemptWithCredential(ctx, credential, chain, req)
				outcomes <- attemptOutcome{result: result, err: err}
			}(credential)
		}

		for range batch {
			outcome := <-outcomes
			if outcome.err == nil {
				if req.Urgency == llm.UrgencyBackground {
					o.cache.Set(fingerprint, *outcome.result)
				}
				return outcome.result, nil
			}
			if errors.Is(outcome.err, ErrUserCancelled) || errors.Is(outcome.err, ErrTimedOut) {
				// Request-level outcome, not a credential-level one.
				return nil, outcome.err
			}
			if llm.KindOf(outcome.err) == llm.KindCredentialInvalid {
				failed = append(failed, outcome.err)
				continue
			}
			// A real failure from a live credential; don't mask it by
			// moving to the next credential.
			return nil, outcome.err
		}
	}

	return nil, newExhaustionError(chain, failed)
}

type attemptOutcome struct {
	result *Result
	err    error
}

// attemptWithCredential walks the model chain for one credential: SDK
// attempt when a pooled client is available, REST attempt otherwise or on
// SDK soft failure. Returns a non-nil result iff err is nil.
func (o *Orchestrator) attemptWithCredential(ctx context.Context, credential string, chain []string, req llm.GenerationRequest) (*Result, error) {
	// Pool failures are soft: a nil client just skips the SDK path.
	client, _ := o.pool.GetOrCreate(ctx, credential)

	attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout(req))
	defer cancel()

	handle := o.registry.Register(req.Urgency, cancel)
	defer o.registry.Clear(handle)

	var lastErr error
	for _, model := range chain {
		if client != nil {
			result, err := o.sdkAttempt(attemptCtx, client, model, req)
			switch {
			case err == nil && result != nil:
				return result, nil
			case errors.Is(err, llm.ErrSafetyBlocked):
				// A definitive answer from the service, not a
				// transport problem.
				return nil, err
			case attemptCtx.Err() != nil:
				return nil, abortOutcome(handle)
			}
			// Any other SDK failure is soft; fall through to REST.
		}

		result, err := o.restAttempt(attemptCtx, credential, model, req)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() != nil {
			return nil, abortOutcome(handle)
		}
		if errors.Is(err, llm.ErrSafetyBlocked) {
			return nil, err
		}
		if llm.KindOf(err) == llm.KindCredentialInvalid {
			// Dead credential; don't waste the remaining chain on it.
			return nil, err
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w from models %s", llm.ErrNoUsableOutput, strings.Join(chain, ", "))
	}
	return nil, lastErr
}

// sdkAttempt dispatches one SDK attempt by modality. A (nil, nil) return
// means structurally valid but unusable output.
func (o *Orchestrator) sdkAttempt(ctx context.Context, client *genai.Client, model string, req llm.GenerationRequest) (*Result, error) {
	if req.Image != nil {
		image, err := o.sdk.GenerateImage(ctx, client, model, req.Prompt, req.Image, req.Config)
		if err != nil || image == nil {
			return nil, err
		}
		return &Result{Image: image}, nil
	}
	text, err := o.sdk.GenerateText(ctx, client, model, req.Prompt, req.Config, req.UseWebSearch)
	if err != nil || text == nil {
		return nil, err
	}
	return &Result{Text: text.Text, Sources: text.Sources}, nil
}

// restAttempt dispatches one REST attempt by modality.
func (o *Orchestrator) restAttempt(ctx context.Context, credential, model string, req llm.GenerationRequest) (*Result, error) {
	if req.Image != nil {
		image, err := o.rest.GenerateImage(ctx, credential, model, req.Prompt, req.Image, req.Config)
		if err != nil {
			return nil, err
		}
		return &Result{Image: image}, nil
	}
	text, err := o.rest.GenerateText(ctx, credential, model, req.Prompt, req.Config, req.UseWebSearch)
	if err != nil {
		return nil, err
	}
	return &Result{Text: text.Text, Sources: text.Sources}, nil
}

func (o *Orchestrator) attemptTimeout(req llm.GenerationRequest) time.Duration {
	switch {
	case req.UseWebSearch:
		return o.searchTimeout
	case req.Image != nil:
		return o.imageTimeout
	default:
		return o.textTimeout
	}
}

// abortOutcome tells a user cancel from a deadline expiry: both reach the
// transport as the same context abort, so only the handle's flag can
// distinguish them.
func abortOutcome(handle *Handle) error {
	if handle.UserCancelled() {
		return ErrUserCancelled
	}
	return ErrTimedOut
}
