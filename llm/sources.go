package llm

import "github.com/richinex/snapgen/internal/wire"

// ExtractSources normalizes the grounding and citation metadata attached to
// a response candidate into an ordered, URL-deduplicated source list.
//
// Four metadata shapes are read, in priority order: attribution entries,
// grounding chunks (filtered to those referenced by support entries when any
// support data is present), legacy citation entries, and URL-context
// entries. Pure function; malformed or missing input yields an empty list.
func ExtractSources(c *wire.Candidate) []Source {
	if c == nil {
		return nil
	}

	var collected []Source

	if g := c.GroundingMetadata; g != nil {
		for _, a := range g.Attributions {
			collected = appendWebSource(collected, a.Web)
			collected = appendWebSource(collected, a.RetrievedContext)
		}

		// When any support data exists, chunks not referenced by a support
		// entry are dropped; with no support data every chunk is kept.
		var referenced map[int]bool
		if len(g.Supports) > 0 {
			referenced = make(map[int]bool)
			for _, s := range g.Supports {
				for _, idx := range s.GroundingChunkIndices {
					referenced[idx] = true
				}
			}
		}
		for i, ch := range g.Chunks {
			if referenced != nil && !referenced[i] {
				continue
			}
			collected = appendWebSource(collected, ch.Web)
			collected = appendWebSource(collected, ch.RetrievedContext)
		}
	}

	if cm := c.CitationMetadata; cm != nil {
		for _, cit := range cm.Citations {
			collected = appendSource(collected, cit.URI, cit.Title)
		}
		for _, cit := range cm.CitationSources {
			collected = appendSource(collected, cit.URI, cit.Title)
		}
	}

	if um := c.URLContextMetadata; um != nil {
		for _, m := range um.URLMetadata {
			collected = appendSource(collected, m.RetrievedURL, "")
		}
	}

	return dedupeSources(collected)
}

func appendWebSource(sources []Source, w *wire.WebSource) []Source {
	if w == nil {
		return sources
	}
	return appendSource(sources, w.URI, w.Title)
}

func appendSource(sources []Source, url, title string) []Source {
	if url == "" {
		return sources
	}
	return append(sources, Source{URL: url, Title: title})
}

// dedupeSources removes duplicates by exact URL match, first occurrence wins.
func dedupeSources(sources []Source) []Source {
	if len(sources) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(sources))
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		if seen[s.URL] {
			continue
		}
		seen[s.URL] = true
		out = append(out, s)
	}
	return out
}
