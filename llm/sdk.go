// SDK transport adapter over the official genai client.
//
// Contract: a structurally valid response with no usable output returns
// (nil, nil), and any SDK error is a soft failure; the orchestrator falls
// through to the REST transport either way. The single exception is a
// safety block, which is a definitive answer from the service, not a
// transport problem.

package llm

import (
	"context"

	"google.golang.org/genai"

	"github.com/richinex/snapgen/internal/wire"
)

// SDKTransport performs generation attempts through pooled genai clients.
type SDKTransport struct{}

// NewSDKTransport creates the SDK transport adapter.
func NewSDKTransport() *SDKTransport {
	return &SDKTransport{}
}

// GenerateText performs one text generation attempt against one model using
// the given client.
func (t *SDKTransport) GenerateText(ctx context.Context, client *genai.Client, model string, prompt string, cfg GenerationConfig, useWebSearch bool) (*TextResult, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	// The SDK addresses models by their full resource name.
	resp, err := client.Models.GenerateContent(ctx, PrefixedModel(model), contents, sdkConfig(cfg, useWebSearch, false))
	if err != nil {
		return nil, err
	}
	if blocked(resp) {
		return nil, ErrSafetyBlocked
	}

	text := resp.Text()
	if text == "" {
		return nil, nil
	}
	return &TextResult{
		Text:    text,
		Sources: ExtractSources(groundingFromSDK(resp)),
	}, nil
}

// GenerateImage performs one image generation attempt. The input image, if
// present, is attached as an inline content part.
func (t *SDKTransport) GenerateImage(ctx context.Context, client *genai.Client, model string, prompt string, image *ImageInput, cfg GenerationConfig) (*ImageResult, error) {
	parts := []*genai.Part{{Text: prompt}}
	if image != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: image.MIMEType, Data: image.Data},
		})
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	resp, err := client.Models.GenerateContent(ctx, PrefixedModel(model), contents, sdkConfig(cfg, false, true))
	if err != nil {
		return nil, err
	}
	if blocked(resp) {
		return nil, ErrSafetyBlocked
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &ImageResult{
					Data:     part.InlineData.Data,
					MIMEType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}
	return nil, nil
}

func sdkConfig(cfg GenerationConfig, useWebSearch, imageOutput bool) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
	if cfg.Temperature != nil {
		out.Temperature = genai.Ptr(*cfg.Temperature)
	}
	if cfg.TopK != nil {
		out.TopK = genai.Ptr(*cfg.TopK)
	}
	if cfg.TopP != nil {
		out.TopP = genai.Ptr(*cfg.TopP)
	}
	if useWebSearch {
		out.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	if imageOutput {
		out.ResponseModalities = []string{"TEXT", "IMAGE"}
	}
	return out
}

func blocked(resp *genai.GenerateContentResponse) bool {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return true
	}
	for _, cand := range resp.Candidates {
		if cand.FinishReason == genai.FinishReasonSafety {
			return true
		}
	}
	return false
}

// groundingFromSDK converts the SDK's typed grounding metadata into the
// shared wire shape consumed by ExtractSources.
func groundingFromSDK(resp *genai.GenerateContentResponse) *wire.Candidate {
	if len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	out := &wire.Candidate{}

	if gm := cand.GroundingMetadata; gm != nil {
		g := &wire.Grounding{}
		for _, chunk := range gm.GroundingChunks {
			var wc wire.Chunk
			if chunk.Web != nil {
				wc.Web = &wire.WebSource{URI: chunk.Web.URI, Title: chunk.Web.Title}
			}
			if chunk.RetrievedContext != nil {
				wc.RetrievedContext = &wire.WebSource{
					URI:   chunk.RetrievedContext.URI,
					Title: chunk.RetrievedContext.Title,
				}
			}
			g.Chunks = append(g.Chunks, wc)
		}
		for _, support := range gm.GroundingSupports {
			var ws wire.Support
			for _, idx := range support.GroundingChunkIndices {
				ws.GroundingChunkIndices = append(ws.GroundingChunkIndices, int(idx))
			}
			g.Supports = append(g.Supports, ws)
		}
		out.GroundingMetadata = g
	}

	if cm := cand.CitationMetadata; cm != nil {
		wcm := &wire.CitationMetadata{}
		for _, cit := range cm.Citations {
			wcm.Citations = append(wcm.Citations, wire.Citation{URI: cit.URI, Title: cit.Title})
		}
		out.CitationMetadata = wcm
	}

	if um := cand.URLContextMetadata; um != nil {
		wum := &wire.URLContextMetadata{}
		for _, m := range um.URLMetadata {
			wum.URLMetadata = append(wum.URLMetadata, wire.URLMetadata{RetrievedURL: m.RetrievedURL})
		}
		out.URLContextMetadata = wum
	}

	return out
}
