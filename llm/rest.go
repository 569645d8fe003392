// REST transport adapter: the last-resort, authoritative transport.
//
// One HTTP POST per attempt to the generateContent endpoint, with the
// credential in the x-goog-api-key header. The credential never appears in
// the URL: query strings end up in proxy and server logs, headers do not.

package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/richinex/snapgen/internal/wire"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// RESTTransport performs generation attempts with plain HTTP requests,
// independent of the SDK.
type RESTTransport struct {
	baseURL    string
	httpClient *http.Client
}

// NewRESTTransport creates a REST transport against the default endpoint.
// Deadlines come from the per-attempt context, not the HTTP client.
func NewRESTTransport() *RESTTransport {
	return &RESTTransport{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}
}

// NewRESTTransportWithBaseURL creates a REST transport against a custom
// endpoint (used by tests).
func NewRESTTransportWithBaseURL(baseURL string) *RESTTransport {
	return &RESTTransport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Request body types for the generateContent endpoint.

type restRequest struct {
	Contents         []restContent  `json:"contents"`
	GenerationConfig *restGenConfig `json:"generationConfig,omitempty"`
	Tools            []restTool     `json:"tools,omitempty"`
}

type restContent struct {
	Role  string     `json:"role"`
	Parts []restPart `json:"parts"`
}

type restPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *restInlineData `json:"inlineData,omitempty"`
}

type restInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type restGenConfig struct {
	Temperature        *float32 `json:"temperature,omitempty"`
	TopK               *float32 `json:"topK,omitempty"`
	TopP               *float32 `json:"topP,omitempty"`
	MaxOutputTokens    int32    `json:"maxOutputTokens,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type restTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

// GenerateText performs one text generation attempt against one model using
// one credential.
func (t *RESTTransport) GenerateText(ctx context.Context, credential, model, prompt string, cfg GenerationConfig, useWebSearch bool) (*TextResult, error) {
	body := restRequest{
		Contents: []restContent{{
			Role:  "user",
			Parts: []restPart{{Text: prompt}},
		}},
		GenerationConfig: genConfig(cfg, false),
	}
	if useWebSearch {
		body.Tools = []restTool{{GoogleSearch: &struct{}{}}}
	}

	resp, err := t.post(ctx, credential, model, body)
	if err != nil {
		return nil, err
	}
	if resp.BlockReason() != "" {
		return nil, ErrSafetyBlocked
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrNoUsableOutput
	}
	return &TextResult{
		Text:    text,
		Sources: ExtractSources(resp.FirstCandidate()),
	}, nil
}

// GenerateImage performs one image generation attempt, attaching the input
// image (when present) as an inline content part.
func (t *RESTTransport) GenerateImage(ctx context.Context, credential, model, prompt string, image *ImageInput, cfg GenerationConfig) (*ImageResult, error) {
	parts := []restPart{{Text: prompt}}
	if image != nil {
		parts = append(parts, restPart{InlineData: &restInlineData{
			MIMEType: image.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(image.Data),
		}})
	}
	body := restRequest{
		Contents:         []restContent{{Role: "user", Parts: parts}},
		GenerationConfig: genConfig(cfg, true),
	}

	resp, err := t.post(ctx, credential, model, body)
	if err != nil {
		return nil, err
	}
	if resp.BlockReason() != "" {
		return nil, ErrSafetyBlocked
	}

	blob := resp.InlineImage()
	if blob == nil {
		return nil, ErrNoUsableOutput
	}
	data, err := blob.DecodeData()
	if err != nil {
		return nil, fmt.Errorf("failed to decode inline image data: %w", err)
	}
	return &ImageResult{Data: data, MIMEType: blob.MIMEType}, nil
}

// post issues the generation request and decodes the response body.
func (t *RESTTransport) post(ctx context.Context, credential, model string, body restRequest) (*wire.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", t.baseURL, BareModel(model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", credential)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		// Let the caller classify cancellation against its own context.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp.StatusCode, string(respBody))
	}

	decoded, err := wire.Decode(respBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return decoded, nil
}

func genConfig(cfg GenerationConfig, imageOutput bool) *restGenConfig {
	out := &restGenConfig{
		Temperature:     cfg.Temperature,
		TopK:            cfg.TopK,
		TopP:            cfg.TopP,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
	if imageOutput {
		out.ResponseModalities = []string{"TEXT", "IMAGE"}
	}
	return out
}
