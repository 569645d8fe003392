package llm

import "strings"

// Model identifier defaults.
const (
	// DefaultModel is used when a request names no model.
	DefaultModel = "gemini-2.5-pro"
	// SearchPreferredModel is the search-capable fallback appended to every
	// model chain.
	SearchPreferredModel = "gemini-2.5-flash"
)

const modelPrefix = "models/"

// BareModel strips the resource prefix from a model identifier.
func BareModel(model string) string {
	return strings.TrimPrefix(strings.TrimSpace(model), modelPrefix)
}

// PrefixedModel returns the identifier in its resource-prefixed form.
func PrefixedModel(model string) string {
	return modelPrefix + BareModel(model)
}

// SameModel reports whether two identifiers name the same model. Two
// identifiers are equal iff their bare forms match.
func SameModel(a, b string) bool {
	return BareModel(a) == BareModel(b)
}

// BuildModelChain returns the ordered models to try for one request:
// the requested model, then the search-preferred fallback unless they are
// the same model. The chain is built once per request and never reordered.
func BuildModelChain(requested, searchPreferred string) []string {
	if requested == "" {
		requested = DefaultModel
	}
	if searchPreferred == "" {
		searchPreferred = SearchPreferredModel
	}
	if SameModel(requested, searchPreferred) {
		return []string{BareModel(requested)}
	}
	return []string{BareModel(requested), BareModel(searchPreferred)}
}
