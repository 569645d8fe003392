// Package wire decodes generation responses from the upstream REST API.
//
// The upstream API has shipped several response shapes over time. Decoding
// is a prioritized match over the known shapes rather than speculative field
// access; an unknown shape yields empty results, never an error.
package wire

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Response is the union of the response shapes observed from the upstream
// API: the candidates/content/parts shape, the convenience output_text
// field, and the outputs[].content shape.
type Response struct {
	Candidates     []Candidate     `json:"candidates"`
	OutputText     string          `json:"output_text"`
	Outputs        []Output        `json:"outputs"`
	PromptFeedback *PromptFeedback `json:"promptFeedback"`
}

// Output is an entry in the legacy outputs[] shape.
type Output struct {
	Content string `json:"content"`
}

// Candidate is one model response candidate.
type Candidate struct {
	Content            *Content            `json:"content"`
	FinishReason       string              `json:"finishReason"`
	GroundingMetadata  *Grounding          `json:"groundingMetadata"`
	CitationMetadata   *CitationMetadata   `json:"citationMetadata"`
	URLContextMetadata *URLContextMetadata `json:"urlContextMetadata"`
}

// Content holds the candidate's content parts.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is a single content part: text or inline binary data.
type Part struct {
	Text       string `json:"text"`
	InlineData *Blob  `json:"inlineData"`
}

// Blob is inline binary data with its MIME type. Data is base64-encoded on
// the wire; use DecodeData to get raw bytes.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// DecodeData returns the blob's raw bytes.
func (b *Blob) DecodeData() ([]byte, error) {
	return base64.StdEncoding.DecodeString(b.Data)
}

// PromptFeedback reports prompt-level filtering applied by the service.
type PromptFeedback struct {
	BlockReason string `json:"blockReason"`
}

// Grounding is the web-search grounding metadata attached to a candidate.
// Attributions are the attribution-style legacy shape; Chunks plus Supports
// are the current shape.
type Grounding struct {
	Attributions []Attribution `json:"groundingAttributions"`
	Chunks       []Chunk       `json:"groundingChunks"`
	Supports     []Support     `json:"groundingSupports"`
}

// Attribution references either a web source or a retrieved-context source.
type Attribution struct {
	Web              *WebSource `json:"web"`
	RetrievedContext *WebSource `json:"retrievedContext"`
}

// Chunk references a grounding chunk; same sub-object shapes as Attribution.
type Chunk struct {
	Web              *WebSource `json:"web"`
	RetrievedContext *WebSource `json:"retrievedContext"`
}

// Support ties answer segments back to grounding chunks by index.
type Support struct {
	GroundingChunkIndices []int `json:"groundingChunkIndices"`
}

// WebSource is a cited URL with an optional title.
type WebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// CitationMetadata is the legacy citation shape. Both field spellings have
// been observed.
type CitationMetadata struct {
	Citations       []Citation `json:"citations"`
	CitationSources []Citation `json:"citationSources"`
}

// Citation is one legacy citation entry.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// URLContextMetadata reports URLs the model retrieved while answering.
type URLContextMetadata struct {
	URLMetadata []URLMetadata `json:"urlMetadata"`
}

// URLMetadata is one retrieved-URL entry.
type URLMetadata struct {
	RetrievedURL       string `json:"retrievedUrl"`
	URLRetrievalStatus string `json:"urlRetrievalStatus"`
}

// Decode parses a response body. Only malformed JSON is an error; a
// structurally valid body that matches none of the known shapes decodes to
// an empty Response.
func Decode(body []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Text returns the response text under the prioritized shape match:
// candidates[].content.parts[].text first, then output_text, then
// outputs[].content. Returns "" when no shape matches.
func (r *Response) Text() string {
	var b strings.Builder
	for _, c := range r.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			b.WriteString(p.Text)
		}
	}
	if b.Len() > 0 {
		return b.String()
	}
	if r.OutputText != "" {
		return r.OutputText
	}
	for _, o := range r.Outputs {
		b.WriteString(o.Content)
	}
	return b.String()
}

// InlineImage returns the first inline data part, or nil when the response
// carries none.
func (r *Response) InlineImage() *Blob {
	for _, c := range r.Candidates {
		if c.Content == nil {
			continue
		}
		for i := range c.Content.Parts {
			if c.Content.Parts[i].InlineData != nil {
				return c.Content.Parts[i].InlineData
			}
		}
	}
	return nil
}

// FirstCandidate returns the first candidate, or nil when there is none.
func (r *Response) FirstCandidate() *Candidate {
	if len(r.Candidates) == 0 {
		return nil
	}
	return &r.Candidates[0]
}

// BlockReason returns a non-empty reason when the service declined to
// generate: either prompt-level feedback or a SAFETY finish on the first
// candidate.
func (r *Response) BlockReason() string {
	if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
		return r.PromptFeedback.BlockReason
	}
	if c := r.FirstCandidate(); c != nil && c.FinishReason == "SAFETY" {
		return c.FinishReason
	}
	return ""
}
