package cli

import (
	"strings"
	"testing"
)

func TestApplyToneEmpty(t *testing.T) {
	got, err := ApplyTone("", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("empty tone should leave the prompt unchanged, got %q", got)
	}
}

func TestApplyTonePrependsPreset(t *testing.T) {
	got, err := ApplyTone("proofread", "teh text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(got, "\n\nteh text") {
		t.Errorf("prompt should follow the preset, got %q", got)
	}
	if !strings.Contains(got, "Proofread") {
		t.Errorf("preset instruction missing from %q", got)
	}
}

func TestApplyToneCaseInsensitive(t *testing.T) {
	if _, err := ApplyTone("Formal", "text"); err != nil {
		t.Errorf("tone lookup should be case-insensitive: %v", err)
	}
}

func TestApplyToneUnknown(t *testing.T) {
	if _, err := ApplyTone("sarcastic", "text"); err == nil {
		t.Error("expected error for unknown tone")
	}
}

func TestToneNamesSorted(t *testing.T) {
	names := ToneNames()
	if len(names) == 0 {
		t.Fatal("expected at least one tone")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}
