// Package llm provides the generation transports for the upstream AI API:
// a persistent SDK-style client (with pooling) and a raw REST transport,
// plus normalization of their heterogeneous result shapes.
package llm

// Urgency classifies how a generation request was triggered.
type Urgency int

const (
	// UrgencyBackground is a chat-style request; results are cacheable.
	UrgencyBackground Urgency = iota
	// UrgencyInteractive is a shortcut-triggered request; low latency,
	// user-cancellable, never cached.
	UrgencyInteractive
)

// String returns the urgency name.
func (u Urgency) String() string {
	if u == UrgencyInteractive {
		return "interactive"
	}
	return "background"
}

// GenerationConfig holds sampling parameters for one generation.
// Nil pointer fields mean "use the service default".
type GenerationConfig struct {
	Temperature     *float32
	TopK            *float32
	TopP            *float32
	MaxOutputTokens int32
}

// ImageInput is an inline image attached to a request.
type ImageInput struct {
	Data     []byte
	MIMEType string
}

// GenerationRequest describes one best-effort generation.
type GenerationRequest struct {
	Prompt       string
	Image        *ImageInput
	Model        string
	UseWebSearch bool
	Urgency      Urgency
	Config       GenerationConfig
}

// Source is a citation the model used to ground a web-search-augmented
// answer. URL is the deduplication key and is never empty.
type Source struct {
	URL   string
	Title string
}

// TextResult is a normalized text generation result.
type TextResult struct {
	Text    string
	Sources []Source
}

// ImageResult is a normalized image generation result.
type ImageResult struct {
	Data     []byte
	MIMEType string
}
