package llm

import (
	"testing"

	"github.com/richinex/snapgen/internal/wire"
)

// TestExtractSourcesNilCandidate verifies missing input yields an empty list.
func TestExtractSourcesNilCandidate(t *testing.T) {
	if got := ExtractSources(nil); len(got) != 0 {
		t.Errorf("ExtractSources(nil) = %v, want empty", got)
	}
	if got := ExtractSources(&wire.Candidate{}); len(got) != 0 {
		t.Errorf("ExtractSources(empty) = %v, want empty", got)
	}
}

// TestExtractSourcesDedup verifies duplicate URLs collapse to the first
// occurrence, keeping the first-seen title.
func TestExtractSourcesDedup(t *testing.T) {
	cand := &wire.Candidate{
		GroundingMetadata: &wire.Grounding{
			Chunks: []wire.Chunk{
				{Web: &wire.WebSource{URI: "https://example.com/a", Title: "First Title"}},
				{Web: &wire.WebSource{URI: "https://example.com/a", Title: "Second Title"}},
				{Web: &wire.WebSource{URI: "https://example.com/b", Title: "Other"}},
			},
		},
	}
	got := ExtractSources(cand)
	if len(got) != 2 {
		t.Fatalf("got %d sources, want 2: %v", len(got), got)
	}
	if got[0].URL != "https://example.com/a" || got[0].Title != "First Title" {
		t.Errorf("first source = %+v, want first-seen title kept", got[0])
	}
}

// TestExtractSourcesSupportFiltering verifies chunks are filtered to those
// referenced by support entries when support data exists.
func TestExtractSourcesSupportFiltering(t *testing.T) {
	cand := &wire.Candidate{
		GroundingMetadata: &wire.Grounding{
			Chunks: []wire.Chunk{
				{Web: &wire.WebSource{URI: "https://example.com/0"}},
				{Web: &wire.WebSource{URI: "https://example.com/1"}},
				{Web: &wire.WebSource{URI: "https://example.com/2"}},
			},
			Supports: []wire.Support{
				{GroundingChunkIndices: []int{0, 2}},
			},
		},
	}
	got := ExtractSources(cand)
	if len(got) != 2 {
		t.Fatalf("got %d sources, want 2: %v", len(got), got)
	}
	if got[0].URL != "https://example.com/0" || got[1].URL != "https://example.com/2" {
		t.Errorf("unexpected sources after support filtering: %v", got)
	}
}

// TestExtractSourcesNoSupportsKeepsAll verifies all chunks are kept when no
// support data is present at all.
func TestExtractSourcesNoSupportsKeepsAll(t *testing.T) {
	cand := &wire.Candidate{
		GroundingMetadata: &wire.Grounding{
			Chunks: []wire.Chunk{
				{Web: &wire.WebSource{URI: "https://example.com/0"}},
				{RetrievedContext: &wire.WebSource{URI: "https://example.com/1"}},
			},
		},
	}
	if got := ExtractSources(cand); len(got) != 2 {
		t.Errorf("got %d sources, want 2: %v", len(got), got)
	}
}

// TestExtractSourcesAttributionsFirst verifies attribution entries come
// before chunk entries in the result order.
func TestExtractSourcesAttributionsFirst(t *testing.T) {
	cand := &wire.Candidate{
		GroundingMetadata: &wire.Grounding{
			Attributions: []wire.Attribution{
				{Web: &wire.WebSource{URI: "https://example.com/attr", Title: "Attr"}},
			},
			Chunks: []wire.Chunk{
				{Web: &wire.WebSource{URI: "https://example.com/chunk", Title: "Chunk"}},
			},
		},
	}
	got := ExtractSources(cand)
	if len(got) != 2 {
		t.Fatalf("got %d sources, want 2: %v", len(got), got)
	}
	if got[0].URL != "https://example.com/attr" {
		t.Errorf("first source = %v, want attribution entry first", got[0])
	}
}

// TestExtractSourcesCitationsAndURLContext verifies the legacy citation and
// URL-context shapes are read after grounding metadata.
func TestExtractSourcesCitationsAndURLContext(t *testing.T) {
	cand := &wire.Candidate{
		CitationMetadata: &wire.CitationMetadata{
			CitationSources: []wire.Citation{
				{URI: "https://example.com/cite", Title: "Cited"},
			},
		},
		URLContextMetadata: &wire.URLContextMetadata{
			URLMetadata: []wire.URLMetadata{
				{RetrievedURL: "https://example.com/ctx"},
				{RetrievedURL: ""},
			},
		},
	}
	got := ExtractSources(cand)
	if len(got) != 2 {
		t.Fatalf("got %d sources, want 2: %v", len(got), got)
	}
	if got[0].URL != "https://example.com/cite" {
		t.Errorf("first source = %v, want citation entry", got[0])
	}
	if got[1].URL != "https://example.com/ctx" {
		t.Errorf("second source = %v, want url-context entry", got[1])
	}
}

// TestExtractSourcesSkipsEmptyURLs verifies entries without a URL never
// appear in the result.
func TestExtractSourcesSkipsEmptyURLs(t *testing.T) {
	cand := &wire.Candidate{
		GroundingMetadata: &wire.Grounding{
			Chunks: []wire.Chunk{
				{Web: &wire.WebSource{URI: "", Title: "No URL"}},
				{Web: &wire.WebSource{URI: "https://example.com/ok"}},
			},
		},
	}
	got := ExtractSources(cand)
	if len(got) != 1 || got[0].URL != "https://example.com/ok" {
		t.Errorf("got %v, want single non-empty URL", got)
	}
}
