package llm

import "testing"

// TestBareModel verifies prefix stripping and whitespace handling.
func TestBareModel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gemini-2.5-pro", "gemini-2.5-pro"},
		{"models/gemini-2.5-pro", "gemini-2.5-pro"},
		{"  models/gemini-2.5-flash ", "gemini-2.5-flash"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := BareModel(tt.in); got != tt.want {
			t.Errorf("BareModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestPrefixedModel verifies the resource prefix is applied exactly once,
// whatever form the input takes.
func TestPrefixedModel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gemini-2.5-pro", "models/gemini-2.5-pro"},
		{"models/gemini-2.5-pro", "models/gemini-2.5-pro"},
		{" gemini-2.5-flash ", "models/gemini-2.5-flash"},
	}
	for _, tt := range tests {
		if got := PrefixedModel(tt.in); got != tt.want {
			t.Errorf("PrefixedModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestSameModel verifies identifiers normalize equal iff bare forms match.
func TestSameModel(t *testing.T) {
	if !SameModel("models/gemini-2.5-pro", "gemini-2.5-pro") {
		t.Error("prefixed and bare forms of the same model should be equal")
	}
	if SameModel("gemini-2.5-pro", "gemini-2.5-flash") {
		t.Error("different models should not be equal")
	}
}

// TestBuildModelChainCollapse verifies the chain has exactly one entry when
// the requested model is the search-preferred model.
func TestBuildModelChainCollapse(t *testing.T) {
	chain := BuildModelChain("models/gemini-2.5-flash", "gemini-2.5-flash")
	if len(chain) != 1 {
		t.Fatalf("chain = %v, want single entry", chain)
	}
	if chain[0] != "gemini-2.5-flash" {
		t.Errorf("chain[0] = %q, want bare form", chain[0])
	}
}

// TestBuildModelChainFallback verifies the search-preferred model is
// appended after the requested model.
func TestBuildModelChainFallback(t *testing.T) {
	chain := BuildModelChain("gemini-2.5-pro", "gemini-2.5-flash")
	if len(chain) != 2 {
		t.Fatalf("chain = %v, want 2 entries", chain)
	}
	if chain[0] != "gemini-2.5-pro" || chain[1] != "gemini-2.5-flash" {
		t.Errorf("chain = %v, want requested then search-preferred", chain)
	}
}

// TestBuildModelChainDefaults verifies empty arguments fall back to the
// package defaults.
func TestBuildModelChainDefaults(t *testing.T) {
	chain := BuildModelChain("", "")
	if len(chain) == 0 {
		t.Fatal("chain should never be empty")
	}
	if chain[0] != DefaultModel {
		t.Errorf("chain[0] = %q, want %q", chain[0], DefaultModel)
	}
}
