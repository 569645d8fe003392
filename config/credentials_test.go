package config

import (
	"context"
	"reflect"
	"testing"
)

// mapPrefs is a PreferenceReader backed by a plain map.
type mapPrefs map[string]string

func (m mapPrefs) Get(_ context.Context, key string) (string, error) {
	return m[key], nil
}

// newTestStore builds a resolver over fixed preference slots and a fixed
// fake environment.
func newTestStore(prefs mapPrefs, env map[string]string) *CredentialStore {
	store := NewCredentialStore(prefs)
	store.getenv = func(key string) string { return env[key] }
	return store
}

func TestResolvePriorityOrder(t *testing.T) {
	store := newTestStore(
		mapPrefs{"api_key": "primary", "api_key_backup": "backup"},
		map[string]string{"GEMINI_API_KEY": "from-env"},
	)

	got := store.Resolve(context.Background())
	want := []string{"primary", "backup", "from-env"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolveSkipsBlanksAndDuplicates(t *testing.T) {
	store := newTestStore(
		mapPrefs{"api_key": "shared", "api_key_backup": "", "api_key_extra": "shared"},
		map[string]string{"GEMINI_API_KEY": "shared", "GOOGLE_API_KEY": "distinct"},
	)

	got := store.Resolve(context.Background())
	want := []string{"shared", "distinct"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolveEnvironmentOnly(t *testing.T) {
	store := NewCredentialStore(nil)
	store.getenv = func(key string) string {
		if key == "GOOGLE_API_KEY" {
			return "env-only"
		}
		return ""
	}

	got := store.Resolve(context.Background())
	if len(got) != 1 || got[0] != "env-only" {
		t.Errorf("Resolve = %v, want [env-only]", got)
	}
}

func TestResolveEmpty(t *testing.T) {
	store := newTestStore(mapPrefs{}, map[string]string{})
	if got := store.Resolve(context.Background()); len(got) != 0 {
		t.Errorf("Resolve = %v, want empty", got)
	}
}
