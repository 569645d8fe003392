package config

import (
	"context"
	"os"

	"github.com/richinex/snapgen/storage"
)

// Environment variables consulted after the preference slots, in priority
// order.
var credentialEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

// PreferenceReader is the slice of the preference store the resolver needs.
type PreferenceReader interface {
	Get(ctx context.Context, key string) (string, error)
}

// CredentialStore resolves the ordered list of API credentials to attempt.
// It performs no validation: a credential is only proven valid or invalid by
// an actual generation attempt.
type CredentialStore struct {
	prefs PreferenceReader

	// Injection point for tests.
	getenv func(string) string
}

// NewCredentialStore creates a resolver over the given preference store.
// A nil store resolves from the environment only.
func NewCredentialStore(prefs PreferenceReader) *CredentialStore {
	return &CredentialStore{prefs: prefs, getenv: os.Getenv}
}

// Resolve returns distinct non-empty credentials in priority order: the
// fixed preference slots first, then the environment. First-seen order wins;
// blanks and duplicates are skipped. An unreadable preference slot is
// treated as unset.
func (s *CredentialStore) Resolve(ctx context.Context) []string {
	var credentials []string
	seen := make(map[string]bool)

	add := func(credential string) {
		if credential == "" || seen[credential] {
			return
		}
		seen[credential] = true
		credentials = append(credentials, credential)
	}

	if s.prefs != nil {
		for _, slot := range storage.APIKeySlots {
			value, err := s.prefs.Get(ctx, slot)
			if err != nil {
				continue
			}
			add(value)
		}
	}
	for _, envVar := range credentialEnvVars {
		add(s.getenv(envVar))
	}
	return credentials
}
