package llm

import (
	"context"
	"sync"
	"time"

	"google.golang.org/genai"
)

// Client pool tuning. Independent of the response cache tuning.
const (
	clientTTL      = time.Hour
	clientCapacity = 10
)

type poolEntry struct {
	client    *genai.Client
	createdAt time.Time
	expiresAt time.Time
}

// ClientPool caches one persistent SDK client per credential. Entries expire
// after a TTL and the oldest-created entries are evicted when the pool
// exceeds its capacity. The pool exclusively owns the client handles;
// callers borrow a reference per attempt and never mutate it.
type ClientPool struct {
	mu      sync.Mutex
	entries map[string]*poolEntry

	ttl      time.Duration
	capacity int

	// Injection points for tests.
	now       func() time.Time
	construct func(ctx context.Context, credential string) (*genai.Client, error)
}

// NewClientPool creates a pool with the default TTL and capacity.
func NewClientPool() *ClientPool {
	return &ClientPool{
		entries:   make(map[string]*poolEntry),
		ttl:       clientTTL,
		capacity:  clientCapacity,
		now:       time.Now,
		construct: newSDKClient,
	}
}

// GetOrCreate returns a live client for the credential, constructing and
// caching one when none exists or the cached entry has expired. Construction
// failure stores nothing and returns a *ClientInitError; the caller treats
// it as "SDK path unavailable" and falls through to the REST transport.
func (p *ClientPool) GetOrCreate(ctx context.Context, credential string) (*genai.Client, error) {
	p.mu.Lock()
	p.cleanupLocked()
	if entry, ok := p.entries[credential]; ok && p.now().Before(entry.expiresAt) {
		client := entry.client
		p.mu.Unlock()
		return client, nil
	}
	p.mu.Unlock()

	// Construct outside the lock; client construction may do I/O.
	client, err := p.construct(ctx, credential)
	if err != nil {
		return nil, &ClientInitError{Err: err}
	}

	now := p.now()
	p.mu.Lock()
	p.entries[credential] = &poolEntry{
		client:    client,
		createdAt: now,
		expiresAt: now.Add(p.ttl),
	}
	p.mu.Unlock()
	return client, nil
}

// Size returns the number of cached entries.
func (p *ClientPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// cleanupLocked deletes expired entries, then evicts oldest-created entries
// until the pool is back at capacity. Caller holds p.mu.
func (p *ClientPool) cleanupLocked() {
	now := p.now()
	for cred, entry := range p.entries {
		if !now.Before(entry.expiresAt) {
			delete(p.entries, cred)
		}
	}
	for len(p.entries) > p.capacity {
		var oldestCred string
		var oldestAt time.Time
		for cred, entry := range p.entries {
			if oldestCred == "" || entry.createdAt.Before(oldestAt) {
				oldestCred = cred
				oldestAt = entry.createdAt
			}
		}
		delete(p.entries, oldestCred)
	}
}

// newSDKClient constructs a genai client for a credential. The SDK's
// constructor configuration has shifted between releases, so a second call
// shape is tried before giving up.
func newSDKClient(ctx context.Context, credential string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  credential,
		Backend: genai.BackendGeminiAPI,
	})
	if err == nil {
		return client, nil
	}
	client, fallbackErr := genai.NewClient(ctx, &genai.ClientConfig{APIKey: credential})
	if fallbackErr != nil {
		return nil, err
	}
	return client, nil
}
